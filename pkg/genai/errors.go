package genai

import (
	"fmt"
	"time"
)

// RateLimitError is returned when the TTS or text endpoint answers 429. The
// HTTP layer forwards RetryAfter to clients so they can back off.
type RateLimitError struct {
	Status     int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("gemini rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "gemini rate limit exceeded"
}
