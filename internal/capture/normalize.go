package capture

// Fallback chains are written as explicit ordered candidate lists so the
// precedence of each extraction stays auditable.

// firstNonEmpty returns the first non-empty candidate.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// nullable maps an empty string to JSON null for body fields that are
// present-but-unknown rather than omitted.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
