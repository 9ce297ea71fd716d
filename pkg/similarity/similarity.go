// Package similarity scores how close two questions are, for deciding
// whether a new question was already answered before.
package similarity

import (
	"strings"

	"github.com/Himanshusinh/Vachanamrut-backend/pkg/normalize"
)

// DefaultThreshold is the minimum score at which two questions are treated
// as the same question. Tuned against this metric; change both together.
const DefaultThreshold = 0.8

// Score returns a similarity in [0,1] between two raw questions. It is
// symmetric and returns 1.0 for inputs with equal normalized forms.
//
// The metric is deliberately cheap: token-set Jaccard, a containment bonus
// for exact substrings, and a positional character overlap that only rewards
// characters already lined up at the same offset. It is not an edit
// distance; it favors recall for short phrasing variants.
func Score(a, b string) float64 {
	s1 := normalize.Normalize(a)
	s2 := normalize.Normalize(b)

	if s1 == s2 {
		return 1.0
	}

	words1 := tokenSet(s1)
	words2 := tokenSet(s2)
	if len(words1) == 0 || len(words2) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range words1 {
		if _, ok := words2[w]; ok {
			intersection++
		}
	}
	union := len(words1) + len(words2) - intersection
	jaccard := float64(intersection) / float64(union)

	shorter, longer := s1, s2
	if len(s1) > len(s2) {
		shorter, longer = s2, s1
	}
	if strings.Contains(longer, shorter) {
		containment := float64(len(shorter)) / float64(len(longer)) * 0.9
		if containment > jaccard {
			return containment
		}
		return jaccard
	}

	matching := 0
	for i := 0; i < len(shorter); i++ {
		if s1[i] == s2[i] {
			matching++
		}
	}
	positional := float64(matching) / float64(len(longer))

	return jaccard*0.7 + positional*0.3
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
