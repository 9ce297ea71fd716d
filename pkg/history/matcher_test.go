package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshusinh/Vachanamrut-backend/pkg/similarity"
)

func setupTestMatcher(t *testing.T) (*Matcher, *Store) {
	store := setupTestStore(t)
	return NewMatcher(store), store
}

func TestMatcher_EmptyStore(t *testing.T) {
	matcher, _ := setupTestMatcher(t)

	result := matcher.Find(context.Background(), "anything")
	assert.False(t, result.Found)
	assert.Empty(t, result.Answer)
	assert.Empty(t, result.Parts)
}

func TestMatcher_ExactMatch(t *testing.T) {
	matcher, store := setupTestMatcher(t)

	require.NoError(t, store.SaveSession(1000, "What is dharma?", "Dharma is righteous conduct."))

	// Case and punctuation differences normalize away.
	result := matcher.Find(context.Background(), "what is dharma")
	assert.True(t, result.Found)
	assert.True(t, result.ExactMatch)
	assert.Equal(t, 1.0, result.Similarity)
	assert.Equal(t, "Dharma is righteous conduct.", result.Answer)
}

func TestMatcher_CacheHitWithAudio(t *testing.T) {
	matcher, store := setupTestMatcher(t)

	require.NoError(t, store.SaveSession(1000, "Who is Swaminarayan?", "Swaminarayan is..."))
	require.NoError(t, store.SavePart(1000, 0, PartInput{Audio: "QUJD", MimeType: "audio/wav"}))

	result := matcher.Find(context.Background(), "who is swaminarayan")
	require.True(t, result.Found)
	assert.True(t, result.ExactMatch)
	assert.Equal(t, 1.0, result.Similarity)
	require.Len(t, result.Parts, 1)
	assert.Equal(t, "QUJD", result.Parts[0].Audio)
	assert.Equal(t, "audio/wav", result.Parts[0].MimeType)
}

func TestMatcher_NewestExactDuplicateWins(t *testing.T) {
	matcher, store := setupTestMatcher(t)

	require.NoError(t, store.SaveSession(1000, "What is dharma?", "older answer"))
	require.NoError(t, store.SaveSession(2000, "what is dharma", "newer answer"))

	result := matcher.Find(context.Background(), "What is dharma")
	require.True(t, result.Found)
	assert.Equal(t, "newer answer", result.Answer)
}

func TestMatcher_FuzzyMatch(t *testing.T) {
	matcher, store := setupTestMatcher(t)

	require.NoError(t, store.SaveSession(1000, "swaminarayan teachings on dharma explained", "the answer"))

	// Jaccard between the two token sets is 4/5 = 0.8, exactly the default
	// threshold; the match is inclusive.
	result := matcher.Find(context.Background(), "swaminarayan teachings on dharma")
	require.True(t, result.Found)
	assert.False(t, result.ExactMatch)
	assert.InDelta(t, 0.8, result.Similarity, 1e-9)
	assert.Equal(t, "the answer", result.Answer)
}

func TestMatcher_ThresholdBoundary(t *testing.T) {
	matcher, store := setupTestMatcher(t)

	stored := "who is swaminarayan"
	query := "who was swaminarayan"
	require.NoError(t, store.SaveSession(1000, stored, "the answer"))

	score := similarity.Score(query, stored)
	require.Greater(t, score, 0.0)
	require.Less(t, score, 1.0)

	// At exactly the score the match is accepted; one step above it is not.
	result := matcher.FindWithThreshold(context.Background(), query, score)
	assert.True(t, result.Found)
	assert.Equal(t, score, result.Similarity)

	result = matcher.FindWithThreshold(context.Background(), query, score+1e-9)
	assert.False(t, result.Found)
}

func TestMatcher_BelowDefaultThreshold(t *testing.T) {
	matcher, store := setupTestMatcher(t)

	require.NoError(t, store.SaveSession(1000, "who is swaminarayan", "the answer"))

	result := matcher.Find(context.Background(), "what did he teach about bhakti")
	assert.False(t, result.Found)
}

func TestMatcher_FuzzyTieKeepsNewest(t *testing.T) {
	matcher, store := setupTestMatcher(t)

	// Both sessions score identically against the query; the newest-first
	// scan must keep the first one it sees.
	require.NoError(t, store.SaveSession(1000, "who is swaminarayan", "older answer"))
	require.NoError(t, store.SaveSession(2000, "who is swaminarayan?", "newer answer"))

	score := similarity.Score("who was swaminarayan", "who is swaminarayan")
	result := matcher.FindWithThreshold(context.Background(), "who was swaminarayan", score)
	require.True(t, result.Found)
	assert.Equal(t, "newer answer", result.Answer)
}

func TestMatcher_CanceledContext(t *testing.T) {
	matcher, store := setupTestMatcher(t)

	require.NoError(t, store.SaveSession(1000, "What is dharma?", "the answer"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := matcher.Find(ctx, "what is dharma")
	assert.False(t, result.Found)
}
