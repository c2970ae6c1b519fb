package util

// Truncate cuts s to at most max characters (runes).
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// Abbreviate truncates s to max characters and appends "..." when it was cut.
func Abbreviate(s string, max int) string {
	t := Truncate(s, max)
	if len(t) < len(s) {
		return t + "..."
	}
	return t
}
