package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Options{})
	assert.Error(t, err)
}

func TestGenerateAnswer(t *testing.T) {
	var gotPath string
	var gotBody generateRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "Dharma is righteous conduct."}}}},
			},
		})
	})

	answer, err := client.GenerateAnswer(context.Background(), "What is dharma?")
	require.NoError(t, err)
	assert.Equal(t, "Dharma is righteous conduct.", answer)
	assert.Equal(t, "/models/"+textModel+":generateContent", gotPath)

	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "What is dharma?")
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "Vachanamrut")
	require.NotNil(t, gotBody.GenerationConfig)
	assert.Equal(t, 0.3, gotBody.GenerationConfig.Temperature)
	assert.Equal(t, 1024, gotBody.GenerationConfig.MaxOutputTokens)
}

func TestGenerateAnswer_EmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	answer, err := client.GenerateAnswer(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, noResponseFallback, answer)
}

func TestGenerateAnswer_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := client.GenerateAnswer(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSynthesize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"audio"}, req.GenerationConfig.ResponseModalities)
		assert.Equal(t, "Puck", req.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"inlineData": map[string]any{"mimeType": "audio/L16;codec=pcm;rate=24000", "data": "QUJD"}},
				}}},
			},
		})
	})

	result, err := client.Synthesize(context.Background(), "Dharma is righteous conduct.")
	require.NoError(t, err)
	assert.Equal(t, "QUJD", result.Audio)
	assert.Equal(t, "audio/wav", result.MimeType)
	assert.Equal(t, "audio/L16;codec=pcm;rate=24000", result.OriginalMimeType)
}

func TestSynthesize_PlayableMimePassesThrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"inlineData": map[string]any{"mimeType": "audio/mpeg", "data": "QUJD"}},
				}}},
			},
		})
	})

	result, err := client.Synthesize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", result.MimeType)
	assert.Equal(t, "audio/mpeg", result.OriginalMimeType)
}

func TestSynthesize_NoAudioData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "not audio"}}}},
			},
		})
	})

	_, err := client.Synthesize(context.Background(), "text")
	assert.Error(t, err)
}

func TestSynthesize_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"details":[{"@type":"type.googleapis.com/google.rpc.RetryInfo","retryDelay":"27s"}]}}`))
	})

	_, err := client.Synthesize(context.Background(), "text")
	require.Error(t, err)

	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, http.StatusTooManyRequests, rle.Status)
	assert.Equal(t, 27*time.Second, rle.RetryAfter)
}

func TestParseRetryAfter_Malformed(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseRetryAfter([]byte("not json")))
	assert.Equal(t, time.Duration(0), parseRetryAfter([]byte(`{"error":{"details":[]}}`)))
}

func TestAnswerPrompt_EmbedsQuery(t *testing.T) {
	prompt := answerPrompt("Who is Swaminarayan?")
	assert.True(t, strings.HasSuffix(prompt, "Question: Who is Swaminarayan?"))
}
