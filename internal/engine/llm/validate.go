package llm

// FilterHints discards hints whose path was not among the conflicting
// files sent to the model. This mitigates hallucinations where the
// model invents paths outside the conflict set. Duplicate hints for the
// same path keep the first occurrence.
func FilterHints(hints []Hint, paths []string) []Hint {
	known := make(map[string]bool, len(paths))
	for _, p := range paths {
		known[p] = true
	}

	var validated []Hint
	for _, h := range hints {
		if !known[h.Path] || h.Hint == "" {
			continue
		}
		known[h.Path] = false
		validated = append(validated, h)
	}

	return validated
}
