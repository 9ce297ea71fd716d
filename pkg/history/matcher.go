package history

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Himanshusinh/Vachanamrut-backend/pkg/normalize"
	"github.com/Himanshusinh/Vachanamrut-backend/pkg/similarity"
)

// Matcher decides whether an incoming question was already answered. It
// holds no state of its own; every Find rescans the store.
type Matcher struct {
	store *Store
}

// NewMatcher creates a matcher over the given store.
func NewMatcher(store *Store) *Matcher {
	return &Matcher{store: store}
}

// Find looks the question up with the default similarity threshold.
func (m *Matcher) Find(ctx context.Context, question string) MatchResult {
	return m.FindWithThreshold(ctx, question, similarity.DefaultThreshold)
}

// FindWithThreshold scans all stored sessions newest first. A candidate
// whose normalized question equals the query's stops the scan immediately as
// an exact match, so the most recent exact duplicate wins. Otherwise the
// best-scoring candidate is tracked; only a strictly greater score replaces
// it, which keeps the newest candidate on ties. A best score at or above the
// threshold is returned as a fuzzy match, anything else as not found.
//
// Unreadable or corrupt sessions are simply not candidates; a single bad
// record never aborts the scan.
func (m *Matcher) FindWithThreshold(ctx context.Context, question string, threshold float64) MatchResult {
	normalized := normalize.Normalize(question)
	candidates := m.store.Candidates()

	log.Debug().Int("candidates", len(candidates)).Msg("Scanning history for similar questions")

	var best *Candidate
	bestScore := 0.0

	for i := range candidates {
		if ctx.Err() != nil {
			return MatchResult{}
		}
		c := &candidates[i]

		if c.QuestionNormalized == normalized {
			log.Info().Int64("session", c.Timestamp).Msg("Exact history match")
			return MatchResult{
				Found:      true,
				Answer:     c.Answer,
				Parts:      m.store.LoadParts(c.Timestamp),
				Similarity: 1.0,
				ExactMatch: true,
			}
		}

		if score := similarity.Score(question, c.Question); score > bestScore {
			bestScore = score
			best = c
		}
	}

	if best != nil && bestScore >= threshold {
		log.Info().
			Int64("session", best.Timestamp).
			Float64("similarity", bestScore).
			Float64("threshold", threshold).
			Msg("Fuzzy history match")
		return MatchResult{
			Found:      true,
			Answer:     best.Answer,
			Parts:      m.store.LoadParts(best.Timestamp),
			Similarity: bestScore,
			ExactMatch: false,
		}
	}

	if best != nil {
		log.Debug().
			Float64("best_similarity", bestScore).
			Float64("threshold", threshold).
			Msg("Best history match below threshold")
	}
	return MatchResult{}
}
