package arbitrage

// jaccard computes word-set overlap between two normalized questions:
// |intersection| / |union|. Two empty sets score 0, identical sets score 1.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	intersection := 0
	for w := range small {
		if _, ok := large[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// Similarity scores two raw questions in [0,1] using Jaccard overlap of their
// normalized word sets.
func Similarity(questionA, questionB string) float64 {
	return jaccard(wordSet(NormalizeQuestion(questionA)), wordSet(NormalizeQuestion(questionB)))
}
