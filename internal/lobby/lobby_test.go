package lobby_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acquire-server/internal/lobby"
)

func TestNewLobby_SeedsHostAsSolePlayer(t *testing.T) {
	now := time.Now()
	l := lobby.NewLobby(lobby.DefaultSize, "alice", now)

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, []string{"alice"}, l.Players)
	assert.False(t, l.Expired)
	assert.Equal(t, now, l.CreatedAt)
}

func TestLobby_Join_RejectsDuplicateUsername(t *testing.T) {
	l := lobby.NewLobby(lobby.DefaultSize, "alice", time.Now())

	err := l.Join("alice", time.Now())

	assert.True(t, lobby.IsConflict(err))
}

func TestLobby_Join_RejectsOverCapacity(t *testing.T) {
	l := lobby.NewLobby(lobby.Size{Min: 2, Max: 2}, "alice", time.Now())
	require.NoError(t, l.Join("bob", time.Now()))

	err := l.Join("carol", time.Now())

	assert.True(t, lobby.IsFull(err))
}

func TestLobby_Join_BumpsLastActivity(t *testing.T) {
	start := time.Now()
	l := lobby.NewLobby(lobby.DefaultSize, "alice", start)

	later := start.Add(time.Minute)
	require.NoError(t, l.Join("bob", later))

	assert.Equal(t, later, l.LastActivityAt)
}

func TestLobby_Leave_NextPlayerBecomesHostByIndex(t *testing.T) {
	l := lobby.NewLobby(lobby.DefaultSize, "alice", time.Now())
	require.NoError(t, l.Join("bob", time.Now()))

	l.Leave("alice", time.Now())

	assert.Equal(t, []string{"bob"}, l.Players)
	assert.Equal(t, "bob", l.Status("").Host)
}

func TestLobby_Leave_UnknownUsernameIsNoop(t *testing.T) {
	l := lobby.NewLobby(lobby.DefaultSize, "alice", time.Now())

	l.Leave("nobody", time.Now())

	assert.Equal(t, []string{"alice"}, l.Players)
}

func TestLobby_Expire_FlagsOneWay(t *testing.T) {
	l := lobby.NewLobby(lobby.DefaultSize, "alice", time.Now())

	l.Expire(time.Now())

	assert.True(t, l.Expired)
	assert.True(t, l.Status("").HasExpired)
}

func TestLobby_Status_ReportsFullnessAndStartability(t *testing.T) {
	l := lobby.NewLobby(lobby.Size{Min: 2, Max: 2}, "alice", time.Now())

	status := l.Status("alice")
	assert.False(t, status.IsFull)
	assert.False(t, status.IsPossibleToStart)
	assert.Equal(t, "alice", status.Host)
	assert.Equal(t, "alice", status.Self)

	require.NoError(t, l.Join("bob", time.Now()))
	status = l.Status("carol")
	assert.True(t, status.IsFull)
	assert.True(t, status.IsPossibleToStart)
	assert.Empty(t, status.Self)
}

func TestLobby_Summary_ReflectsHostAndCapacity(t *testing.T) {
	l := lobby.NewLobby(lobby.Size{Min: 2, Max: 4}, "alice", time.Now())
	require.NoError(t, l.Join("bob", time.Now()))

	s := l.Summary()

	assert.Equal(t, "alice", s.Host)
	assert.Equal(t, 2, s.PlayerCount)
	assert.Equal(t, 4, s.MaxPlayers)
	assert.False(t, s.IsFull)
}

func TestSortSummariesByCreatedDesc_NewestFirst(t *testing.T) {
	base := time.Now()
	older := lobby.Summary{ID: "a", CreatedAt: base}
	newer := lobby.Summary{ID: "b", CreatedAt: base.Add(time.Hour)}
	summaries := []lobby.Summary{older, newer}

	lobby.SortSummariesByCreatedDesc(summaries)

	assert.Equal(t, "b", summaries[0].ID)
	assert.Equal(t, "a", summaries[1].ID)
}
