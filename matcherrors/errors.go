package matcherrors

import "errors"

// Sentinel errors for caller contract violations. Shared by the game, session
// and ws packages; player mistakes are never reported through these.
var (
	ErrEmptyCatalog      = errors.New("catalog must contain at least one face")
	ErrNoSession         = errors.New("no game has been started")
	ErrCardOutOfRange    = errors.New("card index out of range")
	ErrNoPendingMismatch = errors.New("no mismatch is pending resolution")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionClosed     = errors.New("session closed")
)
