package overlay

// Merge returns a new mapping holding every key of base, with each top-level
// key of overrides replacing the base value wholesale. Neither input is modified.
func Merge(base, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
