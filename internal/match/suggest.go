package match

import (
	"cmp"
	"slices"
	"strings"
)

// Suggestion is a known path ranked by similarity to an unknown one.
type Suggestion struct {
	Path  string
	Score float64
}

// DefaultMinScore is the similarity below which a path is not suggested.
const DefaultMinScore = 0.6

// Suggest ranks known paths by similarity to path and returns at most limit
// entries scoring at least minScore, best first. Only the last segment is
// compared when both paths share the same parent.
func Suggest(path string, known []string, minScore float64, limit int) []Suggestion {
	parent, leaf := splitLast(path)

	var out []Suggestion

	for _, k := range known {
		kParent, kLeaf := splitLast(k)

		var score float64
		if kParent == parent {
			score = max(NormalizedLevenshteinScore(leaf, kLeaf),
				NormalizedLevenshteinScoreWithSuffixStrip(leaf, kLeaf))
		} else {
			score = NormalizedLevenshteinScore(path, k)
		}

		if score >= minScore {
			out = append(out, Suggestion{Path: k, Score: score})
		}
	}

	slices.SortStableFunc(out, func(a, b Suggestion) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

func splitLast(path string) (parent, leaf string) {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:]
	}

	return "", path
}
