package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Himanshusinh/Vachanamrut-backend/pkg/genai"
	"github.com/Himanshusinh/Vachanamrut-backend/pkg/history"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(r *http.Request, into any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(into)
}

// handleAsk answers a question, serving from history when a stored session
// matches and calling Gemini only on a miss. The Gemini answer is not saved
// here; the client calls save-audio once speech has been generated, so the
// session lands on disk with its audio in one flow.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeBody(r, &req); err != nil || req.Query == "" {
		s.writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	result := s.matcher.FindWithThreshold(r.Context(), req.Query, s.options.Threshold)
	if result.Found {
		matchType := "similar"
		if result.ExactMatch {
			matchType = "exact"
		}
		s.logger.Info().
			Str("match_type", matchType).
			Float64("similarity", result.Similarity).
			Int("parts", len(result.Parts)).
			Msg("Serving answer from history")

		parts := result.Parts
		if parts == nil {
			parts = []history.AudioPart{}
		}
		s.writeJSON(w, http.StatusOK, askResponse{
			Answer:     result.Answer,
			FromCache:  true,
			TTSParts:   parts,
			Similarity: result.Similarity,
			MatchType:  matchType,
		})
		return
	}

	answer, err := s.provider.GenerateAnswer(r.Context(), req.Query)
	if err != nil {
		s.logger.Error().Err(err).Msg("Answer generation failed")
		status := http.StatusBadGateway
		if strings.Contains(err.Error(), "API key") {
			status = http.StatusInternalServerError
		}
		s.writeError(w, status, "Internal server error: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, askResponse{Answer: answer, FromCache: false})
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := decodeBody(r, &req); err != nil || req.Text == "" {
		s.writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	result, err := s.provider.Synthesize(r.Context(), req.Text)
	if err != nil {
		var rle *genai.RateLimitError
		if errors.As(err, &rle) {
			s.logger.Warn().Dur("retry_after", rle.RetryAfter).Msg("TTS rate limited")
			s.writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Error:        "Failed to generate speech",
				Status:       rle.Status,
				RetryAfterMs: rle.RetryAfter.Milliseconds(),
			})
			return
		}
		s.logger.Error().Err(err).Msg("Speech synthesis failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, ttsResponse{
		Audio:            result.Audio,
		MimeType:         result.MimeType,
		OriginalMimeType: result.OriginalMimeType,
	})
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, listResponse{Sessions: s.store.ListSessions()})
}

func (s *Server) handleHistoryFind(w http.ResponseWriter, r *http.Request) {
	var req findRequest
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Question) == "" {
		s.writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	result := s.matcher.FindWithThreshold(r.Context(), req.Question, s.options.Threshold)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistorySave(w http.ResponseWriter, r *http.Request) {
	var req saveAudioRequest
	if err := decodeBody(r, &req); err != nil || req.AudioBase64 == "" || req.MimeType == "" {
		s.writeError(w, http.StatusBadRequest, "audioBase64 and mimeType are required")
		return
	}

	id := time.Now().UnixMilli()
	if req.Timestamp != nil {
		id = *req.Timestamp
	}
	index := 0
	if req.Index != nil {
		index = *req.Index
	}

	err := s.store.SavePart(id, index, history.PartInput{
		Audio:            req.AudioBase64,
		MimeType:         req.MimeType,
		OriginalMimeType: req.OriginalMimeType,
		Question:         req.Question,
		Answer:           req.Answer,
	})
	if err != nil {
		if errors.Is(err, history.ErrInvalidInput) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Int64("session", id).Msg("Failed to save audio")
		s.writeError(w, http.StatusInternalServerError, "Failed to save audio")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleHistoryAudio(w http.ResponseWriter, r *http.Request) {
	var req audioRequest
	if err := decodeBody(r, &req); err != nil || req.Timestamp == 0 {
		s.writeError(w, http.StatusBadRequest, "timestamp and index are required")
		return
	}

	part, err := s.store.LoadPart(req.Timestamp, req.Index)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) || errors.Is(err, history.ErrCorrupt) {
			s.writeError(w, http.StatusNotFound, "Audio not found")
			return
		}
		s.logger.Error().Err(err).Int64("session", req.Timestamp).Msg("Failed to load audio")
		s.writeError(w, http.StatusInternalServerError, "Failed to load audio")
		return
	}

	s.writeJSON(w, http.StatusOK, audioResponse{
		AudioBase64:      part.Audio,
		MimeType:         part.MimeType,
		OriginalMimeType: part.OriginalMimeType,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
