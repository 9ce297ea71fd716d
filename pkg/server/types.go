package server

import "github.com/Himanshusinh/Vachanamrut-backend/pkg/history"

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Answer     string              `json:"answer"`
	FromCache  bool                `json:"fromCache"`
	TTSParts   []history.AudioPart `json:"ttsParts,omitempty"`
	Similarity float64             `json:"similarity,omitempty"`
	MatchType  string              `json:"matchType,omitempty"`
}

type ttsRequest struct {
	Text string `json:"text"`
}

type ttsResponse struct {
	Audio            string `json:"audio"`
	MimeType         string `json:"mimeType"`
	OriginalMimeType string `json:"originalMimeType,omitempty"`
}

type findRequest struct {
	Question string `json:"question"`
}

type saveAudioRequest struct {
	AudioBase64      string `json:"audioBase64"`
	MimeType         string `json:"mimeType"`
	OriginalMimeType string `json:"originalMimeType,omitempty"`
	Question         string `json:"question,omitempty"`
	Answer           string `json:"answer,omitempty"`
	Index            *int   `json:"index,omitempty"`
	Timestamp        *int64 `json:"timestamp,omitempty"`
}

type audioRequest struct {
	Timestamp int64 `json:"timestamp"`
	Index     int   `json:"index"`
}

type audioResponse struct {
	AudioBase64      string `json:"audioBase64"`
	MimeType         string `json:"mimeType"`
	OriginalMimeType string `json:"originalMimeType,omitempty"`
}

type listResponse struct {
	Sessions []history.SessionSummary `json:"sessions"`
}

type errorResponse struct {
	Error        string `json:"error"`
	Status       int    `json:"status,omitempty"`
	RetryAfterMs int64  `json:"retryAfterMs,omitempty"`
}
