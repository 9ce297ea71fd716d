// Package history persists answered question/answer sessions and their
// synthesized audio on disk, and matches new questions against them so that
// repeated questions are served without another provider call.
//
// Layout, one directory per session keyed by its epoch-millisecond id:
//
//	<root>/<id>/session.json   question, normalized question, answer
//	<root>/<id>/part-000.b64   base64 audio payload
//	<root>/<id>/part-000.json  payload metadata sidecar
//
// There is no index; every lookup rescans the directory tree. That keeps the
// store stateless across calls and safe for concurrent readers.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Himanshusinh/Vachanamrut-backend/pkg/normalize"
)

const (
	sessionFile      = "session.json"
	partPrefix       = "part-"
	defaultMimeType  = "audio/wav"
	answerPreviewLen = 160
)

// Store owns the on-disk session layout. The root directory is created
// lazily on first write, so a missing root reads as an empty store.
type Store struct {
	root string
}

// NewStore creates a store rooted at the given base path.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("history root cannot be empty")
	}
	return &Store{root: root}, nil
}

// Root returns the base path of the store.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) sessionDir(id int64) string {
	return filepath.Join(s.root, strconv.FormatInt(id, 10))
}

func partBase(index int) string {
	return fmt.Sprintf("%s%03d", partPrefix, index)
}

// ListSessions returns a summary of every stored session, newest first.
// Entries that cannot be read or whose name is not a session id are skipped;
// a missing or unreadable root yields an empty list, never an error.
func (s *Store) ListSessions() []SessionSummary {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		log.Debug().Err(err).Str("root", s.root).Msg("History root not readable, listing empty")
		return []SessionSummary{}
	}

	sessions := make([]SessionSummary, 0, len(entries))
	for _, entry := range entries {
		id, err := strconv.ParseInt(entry.Name(), 10, 64)
		if err != nil || id < 0 {
			continue
		}

		files, err := os.ReadDir(s.sessionDir(id))
		if err != nil {
			continue
		}

		summary := SessionSummary{Timestamp: id}
		var metas []string
		for _, f := range files {
			name := f.Name()
			switch {
			case strings.HasSuffix(name, ".b64"):
				summary.Parts++
			case strings.HasSuffix(name, ".json"):
				metas = append(metas, name)
			}
		}

		// The earliest-sorted metadata record carries the question and
		// answer preview; part sidecars sort before session.json.
		sort.Strings(metas)
		if len(metas) > 0 {
			var meta struct {
				Question      string `json:"question"`
				AnswerPreview string `json:"answerPreview"`
			}
			raw, err := os.ReadFile(filepath.Join(s.sessionDir(id), metas[0]))
			if err == nil && json.Unmarshal(raw, &meta) == nil {
				summary.Question = meta.Question
				summary.AnswerPreview = meta.AnswerPreview
			}
		}

		sessions = append(sessions, summary)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Timestamp > sessions[j].Timestamp
	})
	return sessions
}

// Candidates returns matching material for every session that has a session
// record, newest first. Sessions still mid-write (no session.json yet) or
// with a corrupt record are excluded.
func (s *Store) Candidates() []Candidate {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return []Candidate{}
	}

	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		id, err := strconv.ParseInt(entry.Name(), 10, 64)
		if err != nil || id < 0 {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	candidates := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		raw, err := os.ReadFile(filepath.Join(s.sessionDir(id), sessionFile))
		if err != nil {
			continue
		}
		var sess Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			log.Warn().Int64("session", id).Err(err).Msg("Skipping corrupt session record")
			continue
		}
		if sess.QuestionNormalized == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			Timestamp:          id,
			Question:           sess.Question,
			QuestionNormalized: sess.QuestionNormalized,
			Answer:             sess.Answer,
		})
	}
	return candidates
}

// SaveSession writes the canonical question/answer record for a session.
// The first write wins: if session.json already exists the call is a no-op,
// so a regenerated audio part can never rewrite the answer it belongs to.
func (s *Store) SaveSession(id int64, question, answer string) error {
	if question == "" || answer == "" {
		return fmt.Errorf("%w: question and answer are required", ErrInvalidInput)
	}

	dir := s.sessionDir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	path := filepath.Join(dir, sessionFile)
	if _, err := os.Stat(path); err == nil {
		log.Debug().Int64("session", id).Msg("Session record already exists, skipping")
		return nil
	}

	sess := Session{
		Question:           question,
		QuestionNormalized: normalize.Normalize(question),
		Answer:             answer,
		CreatedAt:          id,
	}
	raw, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}

	log.Info().Int64("session", id).Msg("Saved session record")
	return nil
}

// SavePart writes one audio payload and its metadata sidecar, overwriting
// any previous part at the same index. When the input carries both question
// and answer the session record is written first (first write wins there).
func (s *Store) SavePart(id int64, index int, in PartInput) error {
	if in.Audio == "" || in.MimeType == "" {
		return fmt.Errorf("%w: audio payload and mime type are required", ErrInvalidInput)
	}
	if index < 0 {
		return fmt.Errorf("%w: part index cannot be negative", ErrInvalidInput)
	}

	if in.Question != "" && in.Answer != "" {
		if err := s.SaveSession(id, in.Question, in.Answer); err != nil {
			return err
		}
	}

	dir := s.sessionDir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	base := partBase(index)
	if err := os.WriteFile(filepath.Join(dir, base+".b64"), []byte(in.Audio), 0o644); err != nil {
		return fmt.Errorf("failed to write audio payload: %w", err)
	}

	meta := PartMeta{
		MimeType:         in.MimeType,
		OriginalMimeType: in.OriginalMimeType,
		Index:            index,
		Timestamp:        id,
		Question:         in.Question,
	}
	if in.Answer != "" {
		meta.AnswerPreview = answerPreview(in.Answer)
	}
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal part metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, base+".json"), raw, 0o644); err != nil {
		return fmt.Errorf("failed to write part metadata: %w", err)
	}

	log.Info().Int64("session", id).Int("index", index).Str("mime_type", in.MimeType).Msg("Saved audio part")
	return nil
}

// LoadParts returns all audio parts of a session ordered by index. A part
// whose payload or sidecar is missing or corrupt is skipped.
func (s *Store) LoadParts(id int64) []AudioPart {
	dir := s.sessionDir(id)
	files, err := os.ReadDir(dir)
	if err != nil {
		return []AudioPart{}
	}

	var sidecars []string
	for _, f := range files {
		name := f.Name()
		if strings.HasPrefix(name, partPrefix) && strings.HasSuffix(name, ".json") {
			sidecars = append(sidecars, name)
		}
	}
	sort.Strings(sidecars)

	parts := make([]AudioPart, 0, len(sidecars))
	for _, sidecar := range sidecars {
		idx := strings.TrimSuffix(strings.TrimPrefix(sidecar, partPrefix), ".json")

		rawMeta, err := os.ReadFile(filepath.Join(dir, sidecar))
		if err != nil {
			continue
		}
		var meta PartMeta
		if err := json.Unmarshal(rawMeta, &meta); err != nil {
			log.Warn().Int64("session", id).Str("file", sidecar).Err(err).Msg("Skipping corrupt part metadata")
			continue
		}

		audio, err := os.ReadFile(filepath.Join(dir, partPrefix+idx+".b64"))
		if err != nil {
			continue
		}

		mimeType := meta.MimeType
		if mimeType == "" {
			mimeType = defaultMimeType
		}
		parts = append(parts, AudioPart{
			Audio:            normalize.SanitizeBase64(string(audio)),
			MimeType:         mimeType,
			OriginalMimeType: meta.OriginalMimeType,
		})
	}
	return parts
}

// LoadPart returns a single audio part. A missing payload is ErrNotFound; a
// missing sidecar falls back to the default mime type, but a sidecar that
// exists and fails to parse is ErrCorrupt.
func (s *Store) LoadPart(id int64, index int) (AudioPart, error) {
	dir := s.sessionDir(id)
	base := partBase(index)

	audio, err := os.ReadFile(filepath.Join(dir, base+".b64"))
	if err != nil {
		if os.IsNotExist(err) {
			return AudioPart{}, fmt.Errorf("%w: session %d part %d", ErrNotFound, id, index)
		}
		return AudioPart{}, fmt.Errorf("failed to read audio payload: %w", err)
	}

	meta := PartMeta{MimeType: defaultMimeType}
	rawMeta, err := os.ReadFile(filepath.Join(dir, base+".json"))
	if err == nil {
		if err := json.Unmarshal(rawMeta, &meta); err != nil {
			return AudioPart{}, fmt.Errorf("%w: part metadata for session %d part %d", ErrCorrupt, id, index)
		}
		if meta.MimeType == "" {
			meta.MimeType = defaultMimeType
		}
	}

	return AudioPart{
		Audio:            normalize.SanitizeBase64(string(audio)),
		MimeType:         meta.MimeType,
		OriginalMimeType: meta.OriginalMimeType,
	}, nil
}

func answerPreview(answer string) string {
	runes := []rune(answer)
	if len(runes) <= answerPreviewLen {
		return answer
	}
	return string(runes[:answerPreviewLen])
}
