package i

import (
	"time"

	"github.com/google/uuid"
)

// Tokenizer issues and verifies driver tokens, each bound to a single maze session.
type Tokenizer interface {
	// Issue creates a token for the session that expires after ttl.
	Issue(sessionID uuid.UUID, ttl time.Duration) (string, error)

	// Verify validates a token and returns the session it was issued for.
	Verify(token string) (uuid.UUID, error)
}
