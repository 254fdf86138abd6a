package lobby

import "errors"

// Sentinel errors the router layer translates into the client-visible
// apperrors taxonomy (spec.md §7); kept local so this package has no
// dependency on the delivery stack.
var (
	errConflict = errors.New("username already in lobby")
	errFull     = errors.New("lobby is full")

	ErrAtCapacity    = errors.New("at capacity")
	ErrTooManyActive = errors.New("too many active games")
	ErrNotFound      = errors.New("lobby not found")
)

// IsConflict reports whether err is Lobby.Join's duplicate-username error.
func IsConflict(err error) bool { return errors.Is(err, errConflict) }

// IsFull reports whether err is Lobby.Join's capacity error.
func IsFull(err error) bool { return errors.Is(err, errFull) }
