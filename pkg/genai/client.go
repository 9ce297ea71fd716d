// Package genai calls the Google Gemini API for answer generation and
// speech synthesis.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 60 * time.Second

	textModel = "gemini-2.5-flash-preview-05-20"
	ttsModel  = "gemini-2.5-flash-preview-tts"
	ttsVoice  = "Puck"

	noResponseFallback = "No response generated"
)

// Options configures the Gemini client.
type Options struct {
	APIKey  string
	BaseURL string        // override for tests; default is the public endpoint
	Timeout time.Duration // per-call HTTP timeout (default: 60s)
}

// Client is a thin HTTP client over the Gemini generateContent endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Gemini client. A missing API key fails here so that no
// request is ever attempted without one.
func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("google AI API key not configured")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}

	return &Client{
		apiKey:  opts.APIKey,
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}, nil
}

// SpeechResult is one synthesized audio payload. Audio is base64 text.
// MimeType is always playable; raw PCM responses are reported as audio/wav
// with the provider's mime type preserved in OriginalMimeType.
type SpeechResult struct {
	Audio            string
	MimeType         string
	OriginalMimeType string
}

// GenerateAnswer asks Gemini to answer a question within the Vachanamrut
// scope prompt. It returns the first candidate's text.
func (c *Client) GenerateAnswer(ctx context.Context, query string) (string, error) {
	req := generateRequest{
		Contents: []content{{
			Parts: []part{{Text: answerPrompt(query)}},
		}},
		GenerationConfig: &generationConfig{
			Temperature:     0.3,
			MaxOutputTokens: 1024,
			CandidateCount:  1,
		},
	}

	resp, err := c.generateContent(ctx, textModel, req)
	if err != nil {
		return "", err
	}

	text := resp.firstText()
	if text == "" {
		return noResponseFallback, nil
	}
	return text, nil
}

// Synthesize asks the Gemini TTS model to speak the given text.
func (c *Client) Synthesize(ctx context.Context, text string) (SpeechResult, error) {
	req := generateRequest{
		Contents: []content{{
			Parts: []part{{Text: text}},
		}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"audio"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: ttsVoice},
				},
			},
		},
	}

	resp, err := c.generateContent(ctx, ttsModel, req)
	if err != nil {
		return SpeechResult{}, err
	}

	data := resp.firstInlineData()
	if data == nil {
		return SpeechResult{}, fmt.Errorf("no audio data generated")
	}

	result := SpeechResult{
		Audio:            data.Data,
		MimeType:         data.MimeType,
		OriginalMimeType: data.MimeType,
	}
	// Gemini TTS returns raw 16-bit PCM; browsers want a playable type.
	if strings.Contains(data.MimeType, "L16") || strings.Contains(data.MimeType, "pcm") {
		result.MimeType = "audio/wav"
	}
	return result, nil
}

func (c *Client) generateContent(ctx context.Context, model string, reqBody generateRequest) (*generateResponse, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, &RateLimitError{
				Status:     resp.StatusCode,
				RetryAfter: parseRetryAfter(body),
			}
		}
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// parseRetryAfter extracts the retry delay from a Gemini error payload. The
// RetryInfo detail carries a duration string like "27s".
func parseRetryAfter(body []byte) time.Duration {
	var parsed struct {
		Error struct {
			Details []struct {
				Type       string `json:"@type"`
				RetryDelay string `json:"retryDelay"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0
	}

	for _, d := range parsed.Error.Details {
		if !strings.Contains(d.Type, "RetryInfo") || d.RetryDelay == "" {
			continue
		}
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, d.RetryDelay)
		if digits == "" {
			return 0
		}
		var sec int
		fmt.Sscanf(digits, "%d", &sec)
		return time.Duration(sec) * time.Second
	}
	return 0
}
