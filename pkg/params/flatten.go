package params

// Flatten converts a nested record into a flat Set, joining nested map
// keys with dots. Sequence and scalar values are stored as-is under their
// full dotted key; only map values are descended into.
func Flatten(record map[string]any) Set {
	out := make(Set)
	flattenInto(out, "", record)
	return out
}

func flattenInto(out Set, parent string, record map[string]any) {
	for k, v := range record {
		key := k
		if parent != "" {
			key = parent + "." + k
		}
		switch nested := v.(type) {
		case map[string]any:
			flattenInto(out, key, nested)
		default:
			out[key] = v
		}
	}
}
