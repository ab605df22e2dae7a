package arbitrage

import "strings"

// NormalizeQuestion lowercases a market question, strips everything that is
// not a letter, digit, or space, and collapses runs of whitespace. Two markets
// describing the same proposition normalize to the same key far more often
// than their raw titles match.
func NormalizeQuestion(q string) string {
	lower := strings.ToLower(q)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// wordSet returns the distinct words of a normalized question.
func wordSet(normalized string) map[string]struct{} {
	words := strings.Fields(normalized)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
