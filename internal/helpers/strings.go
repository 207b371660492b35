package helpers

// String returns the dereferenced value of the input pointer if it's not nil, otherwise, it returns an empty string.
func String(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Truncate shortens s to at most n bytes, marking the cut with "..." when n leaves room for it.
func Truncate(s string, n int) string {
	switch {
	case len(s) <= n:
		return s
	case n <= 0:
		return ""
	case n <= 3:
		return s[:n]
	default:
		return s[:n-3] + "..."
	}
}
