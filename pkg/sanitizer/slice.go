package sanitizer

// SanitizeSlice applies a strategy to every element, dropping empties and
// duplicates while preserving first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
