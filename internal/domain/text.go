package domain

import "strings"

// CollapseSpace flattens newlines and runs of whitespace into single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateAtWord shortens s to at most max runes without splitting a word,
// appending "..." when anything was cut. A single word longer than max is
// hard-cut since no boundary exists.
func TruncateAtWord(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := runes[:max-3]
	i := len(cut) - 1
	for i >= 0 && cut[i] != ' ' {
		i--
	}
	if i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(string(cut), " ") + "..."
}
