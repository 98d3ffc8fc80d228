package match

// Levenshtein computes the edit distance between two strings counted in
// runes: the minimum number of insertions, deletions or substitutions
// needed to turn a into b.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	if len(ra) == 0 {
		return len(rb)
	}

	// two rolling rows sized by the shorter input
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// LevenshteinNormalized returns a similarity between 0 and 1, where 1 means
// identical: 1 - distance/max(len(a), len(b)).
func LevenshteinNormalized(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 && lb == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(a, b))/float64(max(la, lb))
}

// NormalizedLevenshteinScore computes the similarity of two identifiers
// after normalizing them.
func NormalizedLevenshteinScore(a, b string) float64 {
	return LevenshteinNormalized(NormalizeIdent(a), NormalizeIdent(b))
}

// NormalizedLevenshteinScoreWithSuffixStrip is NormalizedLevenshteinScore
// with common suffix tokens removed first.
func NormalizedLevenshteinScoreWithSuffixStrip(a, b string) float64 {
	return LevenshteinNormalized(NormalizeIdentWithSuffixStrip(a), NormalizeIdentWithSuffixStrip(b))
}
