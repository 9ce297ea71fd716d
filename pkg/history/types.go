package history

// Session is the canonical record of one answered question, stored as
// session.json inside the session directory. Question and answer are written
// once and never modified.
type Session struct {
	Question           string `json:"question"`
	QuestionNormalized string `json:"questionNormalized"`
	Answer             string `json:"answer"`
	CreatedAt          int64  `json:"createdAt"`
}

// PartMeta is the sidecar metadata stored next to each audio payload.
type PartMeta struct {
	MimeType         string `json:"mimeType"`
	OriginalMimeType string `json:"originalMimeType,omitempty"`
	Index            int    `json:"index"`
	Timestamp        int64  `json:"timestamp"`
	Question         string `json:"question,omitempty"`
	AnswerPreview    string `json:"answerPreview,omitempty"`
}

// AudioPart is one chunk of synthesized speech as served to clients. Audio
// is base64 text, sanitized on read.
type AudioPart struct {
	Audio            string `json:"audio"`
	MimeType         string `json:"mimeType"`
	OriginalMimeType string `json:"originalMimeType,omitempty"`
}

// PartInput carries everything a caller supplies when persisting one audio
// chunk. Question and Answer are optional; when both are present the session
// record is written alongside (first write wins).
type PartInput struct {
	Audio            string
	MimeType         string
	OriginalMimeType string
	Question         string
	Answer           string
}

// SessionSummary is one row of a session listing.
type SessionSummary struct {
	Timestamp     int64  `json:"timestamp"`
	Question      string `json:"question,omitempty"`
	AnswerPreview string `json:"answerPreview,omitempty"`
	Parts         int    `json:"parts"`
}

// Candidate is the cached matching material for one stored session: the
// original question, its normalized form, and the answer to return on a hit.
type Candidate struct {
	Timestamp          int64
	Question           string
	QuestionNormalized string
	Answer             string
}

// MatchResult is the outcome of a history lookup. When Found is false all
// other fields are zero.
type MatchResult struct {
	Found      bool        `json:"found"`
	Answer     string      `json:"answer,omitempty"`
	Parts      []AudioPart `json:"ttsParts,omitempty"`
	Similarity float64     `json:"similarity,omitempty"`
	ExactMatch bool        `json:"exactMatch,omitempty"`
}
