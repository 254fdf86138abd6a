package lobby

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"acquire-server/internal/boardgame"
	"acquire-server/internal/config"
	"acquire-server/internal/logger"
)

// Clock is injected so tests can control time deterministically,
// mirroring the boardgame package's injected ShuffleFunc.
type Clock func() time.Time

// Record is the unit of mutual exclusion spec.md §5 requires: every
// mutation of a Lobby or its Game serializes on this record's Mutex.
// Grounded on the teacher's per-entity locking in
// internal/repository/game_repository.go, generalized to a per-record
// (rather than per-repository) lock.
type Record struct {
	mu sync.Mutex

	ID             string
	Lobby          *Lobby
	Game           *boardgame.Game
	GameFinishedAt *time.Time

	// GameLastActivityAt is stamped on every successful in-game
	// mutation, independent of Lobby.LastActivityAt (which Join/Leave/
	// Expire own). shouldReap's GameIdleTimeout rule measures against
	// this field so an actively-played game is never reaped merely
	// because its lobby expired a while ago.
	GameLastActivityAt *time.Time
}

// Lock acquires the record's mutex for the duration of a mutation.
func (r *Record) Lock() { r.mu.Lock() }

// Unlock releases the record's mutex.
func (r *Record) Unlock() { r.mu.Unlock() }

// TryLock attempts to acquire the record's mutex without blocking;
// the reaper uses this so it never stalls gameplay (spec.md §5).
func (r *Record) TryLock() bool { return r.mu.TryLock() }

// Manager is the process-wide registry from spec.md §4.6: capacity
// caps, an injected clock, and a background reaper. Grounded on the
// teacher's GameRepositoryImpl (map + sync.RWMutex + zap), split here
// into a registry-level lock plus independent per-record locks per
// spec.md §5.
type Manager struct {
	mu       sync.RWMutex
	records  map[string]*Record
	cfg      config.Config
	clock    Clock
	log      *zap.Logger
}

// NewManager returns an empty registry governed by cfg's capacity caps
// and timeouts. clock defaults to time.Now when nil.
func NewManager(cfg config.Config, clock Clock) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		records: make(map[string]*Record),
		cfg:     cfg,
		clock:   clock,
		log:     logger.Get(),
	}
}

func (m *Manager) countNonExpiredLobbies() int {
	n := 0
	for _, r := range m.records {
		if !r.Lobby.Expired {
			n++
		}
	}
	return n
}

func (m *Manager) countActiveGames() int {
	n := 0
	for _, r := range m.records {
		if r.Game != nil && r.GameFinishedAt == nil {
			n++
		}
	}
	return n
}

// CreateLobby registers a new lobby hosted by host, failing with
// ErrAtCapacity if MAX_LOBBIES non-expired lobbies already exist.
func (m *Manager) CreateLobby(host string, size Size) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.countNonExpiredLobbies() >= m.cfg.MaxLobbies {
		return nil, ErrAtCapacity
	}
	l := NewLobby(size, host, m.clock())
	rec := &Record{ID: l.ID, Lobby: l}
	m.records[l.ID] = rec
	m.log.Info("lobby created", zap.String("lobby_id", l.ID), zap.String("host", host))
	return rec, nil
}

// Get returns the record for id, if any.
func (m *Manager) Get(id string) (*Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	return r, ok
}

// AttachGame installs g on the record for lobbyID, failing with
// ErrTooManyActive if MAX_ACTIVE_GAMES non-finished games already
// exist.
func (m *Manager) AttachGame(lobbyID string, g *boardgame.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[lobbyID]
	if !ok {
		return ErrNotFound
	}
	if m.countActiveGames() >= m.cfg.MaxActiveGames {
		return ErrTooManyActive
	}
	rec.Game = g
	now := m.clock()
	rec.GameLastActivityAt = &now
	return nil
}

// TouchGameActivity stamps lobbyID's GameLastActivityAt with the
// current time. Called after every successful in-game mutation so the
// reaper's GameIdleTimeout rule reflects actual play, not merely when
// the game was started.
func (m *Manager) TouchGameActivity(lobbyID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[lobbyID]; ok {
		now := m.clock()
		rec.GameLastActivityAt = &now
	}
}

// MarkFinished records when lobbyID's game ended, so the reaper can
// apply FINISHED_GAME_RETENTION.
func (m *Manager) MarkFinished(lobbyID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[lobbyID]; ok {
		now := m.clock()
		rec.GameFinishedAt = &now
	}
}

// ListLobbies returns every non-expired lobby sorted by createdAt
// descending, per spec.md §4.6.
func (m *Manager) ListLobbies() []Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Summary, 0, len(m.records))
	for _, r := range m.records {
		r.Lock()
		if !r.Lobby.Expired {
			out = append(out, r.Lobby.Summary())
		}
		r.Unlock()
	}
	SortSummariesByCreatedDesc(out)
	return out
}

func (m *Manager) remove(id string) {
	delete(m.records, id)
}

// Reap runs one pass of the background reaper's deletion rules
// (spec.md §4.6). It holds the registry lock only to snapshot IDs and
// to delete; per-record state is inspected under a try-lock so the
// reaper never stalls an in-flight gameplay mutation (spec.md §5).
func (m *Manager) Reap() {
	now := m.clock()

	m.mu.Lock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	toDelete := make([]string, 0)
	for _, id := range ids {
		m.mu.RLock()
		rec, ok := m.records[id]
		m.mu.RUnlock()
		if !ok {
			continue
		}
		if !rec.TryLock() {
			continue
		}
		del := m.shouldReap(rec, now)
		rec.Unlock()
		if del {
			toDelete = append(toDelete, id)
		}
	}

	if len(toDelete) == 0 {
		return
	}
	m.mu.Lock()
	for _, id := range toDelete {
		m.remove(id)
	}
	m.mu.Unlock()
	m.log.Info("reaper deleted lobbies", zap.Int("count", len(toDelete)))
}

// shouldReap evaluates the four deletion rules from spec.md §4.6.
// Caller must hold rec's lock.
func (m *Manager) shouldReap(rec *Record, now time.Time) bool {
	l := rec.Lobby

	if len(l.Players) == 0 {
		return true
	}
	if !l.Expired && now.Sub(l.LastActivityAt) > m.cfg.LobbyIdleTimeout {
		return true
	}
	if rec.GameFinishedAt != nil && now.Sub(*rec.GameFinishedAt) > m.cfg.FinishedGameRetention {
		return true
	}
	if l.Expired && rec.Game != nil && rec.GameLastActivityAt != nil && now.Sub(*rec.GameLastActivityAt) > m.cfg.GameIdleTimeout {
		return true
	}
	return false
}

// Run starts the background reaper loop; it returns when ctx is
// cancelled, mirroring the teacher's context-cancellation-driven
// websocket Hub.Run loop (internal/delivery/websocket/hub.go).
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()
	m.log.Info("lobby reaper started", zap.Duration("interval", m.cfg.CleanupInterval))
	for {
		select {
		case <-ctx.Done():
			m.log.Info("lobby reaper stopping")
			return
		case <-ticker.C:
			m.Reap()
		}
	}
}
