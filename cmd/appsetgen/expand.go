package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/appsetgen/pkg/appset"
	"github.com/arthur-debert/appsetgen/pkg/config"
	"github.com/arthur-debert/appsetgen/pkg/logging"
	"github.com/arthur-debert/appsetgen/pkg/manifest"
	"github.com/arthur-debert/appsetgen/pkg/repos"
)

type expandOptions struct {
	workspace   string
	appsDir     string
	outputDir   string
	skipFiles   []string
	githubToken string
}

func newExpandCmd() *cobra.Command {
	opts := &expandOptions{}

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Expand ApplicationSets found in the apps directory",
		Long: `Discovers ApplicationSet manifests under the apps directory, expands
every generator, substitutes each parameter set into the template, and
writes one Application manifest per result into the output directory.
Plain Application manifests found alongside are copied through
unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.workspace, "workspace", ".", "Workspace root (the local repository checkout)")
	cmd.Flags().StringVar(&opts.appsDir, "apps-dir", "", "Directory containing ApplicationSet manifests")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory to write generated manifests")
	cmd.Flags().StringSliceVar(&opts.skipFiles, "skip-files", nil, "Manifest file names to skip")
	cmd.Flags().StringVar(&opts.githubToken, "github-token", "", "Token injected into HTTPS clone URLs")

	return cmd
}

func runExpand(cmd *cobra.Command, opts *expandOptions) error {
	logger := logging.GetLogger("expand")

	cfg, err := config.Load(opts.workspace)
	if err != nil {
		return err
	}

	// Flags override configuration only when set.
	if !cmd.Flags().Changed("apps-dir") {
		opts.appsDir = cfg.AppsDir
	}
	if !cmd.Flags().Changed("output-dir") {
		opts.outputDir = cfg.OutputDir
	}
	if !cmd.Flags().Changed("skip-files") {
		opts.skipFiles = cfg.SkipFiles
	}
	if !cmd.Flags().Changed("github-token") {
		opts.githubToken = cfg.GithubToken
	}

	resolver := repos.NewResolver(opts.workspace, "", opts.githubToken)
	defer resolver.Cleanup()

	found := manifest.Discover(opts.appsDir, opts.skipFiles)
	logger.Info().
		Int("applicationSets", len(found.ApplicationSets)).
		Int("applications", len(found.Applications)).
		Str("appsDir", opts.appsDir).
		Msg("Discovery complete")

	orchestrator := appset.NewOrchestrator(resolver).WithMaxDepth(cfg.MaxDepth)

	apps := append([]map[string]any{}, found.Applications...)
	rows := pterm.TableData{{"ApplicationSet", "Generated"}}
	for _, spec := range found.ApplicationSets {
		logger.Info().Str("appset", spec.Name).Msg("Expanding ApplicationSet")
		generated, err := orchestrator.Expand(spec)
		if err != nil {
			return fmt.Errorf("expanding %s: %w", spec.Name, err)
		}
		apps = append(apps, generated...)
		rows = append(rows, []string{spec.Name, fmt.Sprintf("%d", len(generated))})
	}

	paths, err := manifest.WriteApplications(opts.outputDir, apps)
	if err != nil {
		return err
	}

	if len(found.ApplicationSets) > 0 {
		_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	}
	pterm.Success.Printfln("Wrote %d manifest(s) to %s", len(paths), opts.outputDir)
	return nil
}
