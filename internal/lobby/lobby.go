// Package lobby implements the waiting-room and process-wide registry
// described in spec.md §4.6, grounded on the teacher's
// internal/repository/game_repository.go (map + mutex + uuid + zap
// registry) generalized with the per-record locking spec.md §5
// requires.
package lobby

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Size bounds how many players a Lobby will accept.
type Size struct {
	Min int
	Max int
}

// DefaultSize is used when a caller does not specify bounds: Acquire
// plays with 2 to 6 players.
var DefaultSize = Size{Min: 2, Max: 6}

// Lobby is the waiting room: players, host (always Players[0]),
// readiness, and expiry, per spec.md §4.6.
type Lobby struct {
	ID             string
	Size           Size
	Players        []string
	Expired        bool
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// NewLobby creates a lobby hosted by host. Its ID is a 16-hex-digit
// token: a UUID with the dashes removed, trimmed to 16 characters.
func NewLobby(size Size, host string, now time.Time) *Lobby {
	return &Lobby{
		ID:             strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Size:           size,
		Players:        []string{host},
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

// Status is the per-caller snapshot spec.md §4.6 defines.
type Status struct {
	Players           []string
	IsFull            bool
	HasExpired        bool
	IsPossibleToStart bool
	Host              string
	Self              string
}

func (l *Lobby) hasPlayer(username string) bool {
	for _, p := range l.Players {
		if p == username {
			return true
		}
	}
	return false
}

// Join enforces username uniqueness and the lobby's max size.
func (l *Lobby) Join(username string, now time.Time) error {
	if l.hasPlayer(username) {
		return errConflict
	}
	if len(l.Players) >= l.Size.Max {
		return errFull
	}
	l.Players = append(l.Players, username)
	l.LastActivityAt = now
	return nil
}

// Leave removes username. The host does not migrate explicitly — if
// the host leaves, the next player becomes host simply by now being
// index 0.
func (l *Lobby) Leave(username string, now time.Time) {
	for i, p := range l.Players {
		if p == username {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			break
		}
	}
	l.LastActivityAt = now
}

// Expire one-way flags the lobby so it no longer appears in listings.
// Join does not check the flag: an expired lobby with room left still
// accepts joins.
func (l *Lobby) Expire(now time.Time) {
	l.Expired = true
	l.LastActivityAt = now
}

// Status builds the snapshot for forUser.
func (l *Lobby) Status(forUser string) Status {
	host := ""
	if len(l.Players) > 0 {
		host = l.Players[0]
	}
	self := ""
	if l.hasPlayer(forUser) {
		self = forUser
	}
	return Status{
		Players:           append([]string{}, l.Players...),
		IsFull:            len(l.Players) >= l.Size.Max,
		HasExpired:        l.Expired,
		IsPossibleToStart: len(l.Players) >= l.Size.Min,
		Host:              host,
		Self:              self,
	}
}

// Summary is the row shape the /list endpoint returns.
type Summary struct {
	ID          string
	Host        string
	PlayerCount int
	MaxPlayers  int
	IsFull      bool
	CreatedAt   time.Time
}

func (l *Lobby) Summary() Summary {
	host := ""
	if len(l.Players) > 0 {
		host = l.Players[0]
	}
	return Summary{
		ID:          l.ID,
		Host:        host,
		PlayerCount: len(l.Players),
		MaxPlayers:  l.Size.Max,
		IsFull:      len(l.Players) >= l.Size.Max,
		CreatedAt:   l.CreatedAt,
	}
}

// SortSummariesByCreatedDesc matches listLobbies()'s ordering
// requirement from spec.md §4.6.
func SortSummariesByCreatedDesc(s []Summary) {
	sort.Slice(s, func(i, j int) bool { return s[i].CreatedAt.After(s[j].CreatedAt) })
}
