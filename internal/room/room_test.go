package room

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/pkg"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRoom_Join(t *testing.T) {
	t.Run("First joiner takes PlayerA and the room keeps waiting", func(t *testing.T) {
		// Given: a fresh pvp room
		newRoom := newRoom("AB23CD", entity.PvPType, "", time.Now())

		// When: the first connection joins
		mark, state, err := newRoom.Join("conn-1")

		// Then: it seats as PlayerA and the game has not started
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerA, mark)
		assert.Equal(t, entity.StatusWaiting, state.Status)
		assert.True(t, state.Players.PlayerA.Connected)
		assert.False(t, state.Players.PlayerB.Connected)
	})

	t.Run("Second joiner takes PlayerB and the game starts", func(t *testing.T) {
		// Given: a pvp room with one seated player
		newRoom := newRoom("AB23CD", entity.PvPType, "", time.Now())
		_, _, err := newRoom.Join("conn-1")
		require.NoError(t, err)

		// When: the second connection joins
		mark, state, err := newRoom.Join("conn-2")

		// Then: it seats as PlayerB, the game is playing and PlayerA opens
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerB, mark)
		assert.Equal(t, entity.StatusPlaying, state.Status)
		assert.Equal(t, entity.PlayerA, state.Turn)
	})

	t.Run("Third joiner is rejected with ErrRoomFull", func(t *testing.T) {
		// Given: a pvp room with both seats taken
		newRoom := newRoom("AB23CD", entity.PvPType, "", time.Now())
		_, _, err := newRoom.Join("conn-1")
		require.NoError(t, err)
		_, _, err = newRoom.Join("conn-2")
		require.NoError(t, err)

		// When: a third connection joins
		_, _, err = newRoom.Join("conn-3")

		// Then: the room is full
		assert.ErrorIs(t, err, apperror.ErrRoomFull)
	})

	t.Run("Bot room starts as soon as the human is seated", func(t *testing.T) {
		// Given: a fresh bot room
		newRoom := newRoom("AB23CD", entity.WithBotType, "medium", time.Now())

		// When: the human joins
		mark, state, err := newRoom.Join("conn-1")

		// Then: the human is PlayerA, the bot seat counts as connected and play begins
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerA, mark)
		assert.Equal(t, entity.StatusPlaying, state.Status)
		assert.True(t, state.Players.PlayerB.Connected)
	})

	t.Run("Second human cannot join a bot room", func(t *testing.T) {
		newRoom := newRoom("AB23CD", entity.WithBotType, "medium", time.Now())
		_, _, err := newRoom.Join("conn-1")
		require.NoError(t, err)

		_, _, err = newRoom.Join("conn-2")

		assert.ErrorIs(t, err, apperror.ErrRoomFull)
	})
}

func TestRoom_Leave(t *testing.T) {
	t.Run("Mid-game leave keeps the game playing", func(t *testing.T) {
		// Given: a pvp room in play
		newRoom := newRoom("AB23CD", entity.PvPType, "", time.Now())
		_, _, err := newRoom.Join("conn-1")
		require.NoError(t, err)
		_, _, err = newRoom.Join("conn-2")
		require.NoError(t, err)

		// When: PlayerB's connection leaves
		state, ok := newRoom.Leave("conn-2")

		// Then: the seat is vacated but the game keeps its status and turn
		assert.True(t, ok)
		assert.Equal(t, entity.StatusPlaying, state.Status)
		assert.Equal(t, entity.PlayerA, state.Turn)
		assert.False(t, state.Players.PlayerB.Connected)
	})

	t.Run("Leaving a room you are not in is a no-op", func(t *testing.T) {
		newRoom := newRoom("AB23CD", entity.PvPType, "", time.Now())

		_, ok := newRoom.Leave("stranger")

		assert.False(t, ok)
	})

	t.Run("A rejoiner takes the vacated seat", func(t *testing.T) {
		// Given: a room in play whose PlayerA seat was vacated
		newRoom := newRoom("AB23CD", entity.PvPType, "", time.Now())
		_, _, err := newRoom.Join("conn-1")
		require.NoError(t, err)
		_, _, err = newRoom.Join("conn-2")
		require.NoError(t, err)
		_, ok := newRoom.Leave("conn-1")
		require.True(t, ok)

		// When: a new connection joins
		mark, state, err := newRoom.Join("conn-3")

		// Then: it seats as PlayerA and the game is untouched
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerA, mark)
		assert.Equal(t, entity.StatusPlaying, state.Status)
	})
}

func TestRoom_ApplyMove(t *testing.T) {
	t.Run("Member move lands and the turn flips", func(t *testing.T) {
		// Given: a pvp room in play
		newRoom := newRoom("AB23CD", entity.PvPType, "", time.Now())
		_, _, err := newRoom.Join("conn-1")
		require.NoError(t, err)
		_, _, err = newRoom.Join("conn-2")
		require.NoError(t, err)

		// When: PlayerA drops into column 3
		state, err := newRoom.ApplyMove("conn-1", 3)

		// Then: the mark lands at the bottom and PlayerB is next
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerA, state.Board[5][3])
		assert.Equal(t, entity.PlayerB, state.Turn)
	})

	t.Run("Non-member move is rejected with ErrNotInRoom", func(t *testing.T) {
		newRoom := newRoom("AB23CD", entity.PvPType, "", time.Now())
		_, _, err := newRoom.Join("conn-1")
		require.NoError(t, err)

		_, err = newRoom.ApplyMove("stranger", 3)

		assert.ErrorIs(t, err, apperror.ErrNotInRoom)
	})

	t.Run("Out-of-turn move surfaces ErrNotYourTurn", func(t *testing.T) {
		newRoom := newRoom("AB23CD", entity.PvPType, "", time.Now())
		_, _, err := newRoom.Join("conn-1")
		require.NoError(t, err)
		_, _, err = newRoom.Join("conn-2")
		require.NoError(t, err)

		_, err = newRoom.ApplyMove("conn-2", 3)

		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})
}

func TestRoom_BotTurnPending(t *testing.T) {
	t.Run("Pending after the human moves in a bot room", func(t *testing.T) {
		// Given: a bot room where the human has just moved
		newRoom := newRoom("AB23CD", entity.WithBotType, "easy", time.Now())
		_, _, err := newRoom.Join("conn-1")
		require.NoError(t, err)
		_, err = newRoom.ApplyMove("conn-1", 3)
		require.NoError(t, err)

		assert.True(t, newRoom.BotTurnPending())
	})

	t.Run("Not pending in a pvp room", func(t *testing.T) {
		newRoom := newRoom("AB23CD", entity.PvPType, "", time.Now())
		_, _, err := newRoom.Join("conn-1")
		require.NoError(t, err)
		_, _, err = newRoom.Join("conn-2")
		require.NoError(t, err)
		_, err = newRoom.ApplyMove("conn-1", 3)
		require.NoError(t, err)

		assert.False(t, newRoom.BotTurnPending())
	})
}

func TestRegistry_Create(t *testing.T) {
	t.Run("Creates a room addressable by its code", func(t *testing.T) {
		// Given: an empty registry
		registry := NewRegistry(testLogger(), time.Minute)

		// When: a room is created
		created, err := registry.Create(entity.PvPType, "")
		require.NoError(t, err)

		// Then: the code has the expected shape and the room is retrievable
		assert.Len(t, created.Code, pkg.RoomCodeLength)
		assert.NotContains(t, created.Code, "O")
		assert.NotContains(t, created.Code, "0")
		assert.NotContains(t, created.Code, "I")
		assert.NotContains(t, created.Code, "1")

		found, err := registry.Get(created.Code)
		require.NoError(t, err)
		assert.Same(t, created, found)
	})

	t.Run("Codes are unique across many rooms", func(t *testing.T) {
		registry := NewRegistry(testLogger(), time.Minute)

		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			created, err := registry.Create(entity.PvPType, "")
			require.NoError(t, err)
			assert.False(t, seen[created.Code])
			seen[created.Code] = true
		}

		assert.Equal(t, 100, registry.Len())
	})
}

func TestRegistry_Get(t *testing.T) {
	t.Run("Unknown code returns ErrRoomNotFound", func(t *testing.T) {
		registry := NewRegistry(testLogger(), time.Minute)

		_, err := registry.Get("ZZZZZZ")

		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}

func TestRegistry_Sweep(t *testing.T) {
	t.Run("Removes only empty rooms idle past the TTL", func(t *testing.T) {
		// Given: one stale empty room, one fresh empty room and one occupied stale room
		registry := NewRegistry(testLogger(), time.Minute)

		stale, err := registry.Create(entity.PvPType, "")
		require.NoError(t, err)
		stale.lastActiveAt = time.Now().Add(-2 * time.Minute)

		fresh, err := registry.Create(entity.PvPType, "")
		require.NoError(t, err)

		occupied, err := registry.Create(entity.PvPType, "")
		require.NoError(t, err)
		_, _, err = occupied.Join("conn-1")
		require.NoError(t, err)
		occupied.lastActiveAt = time.Now().Add(-2 * time.Minute)

		// When: the registry sweeps
		removed := registry.Sweep()

		// Then: only the stale empty room is gone
		assert.Equal(t, 1, removed)
		assert.Equal(t, 2, registry.Len())

		_, err = registry.Get(stale.Code)
		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)

		_, err = registry.Get(fresh.Code)
		assert.NoError(t, err)

		_, err = registry.Get(occupied.Code)
		assert.NoError(t, err)
	})

	t.Run("StartSweep stops when the context is canceled", func(t *testing.T) {
		registry := NewRegistry(testLogger(), time.Millisecond)

		stale, err := registry.Create(entity.PvPType, "")
		require.NoError(t, err)
		stale.lastActiveAt = time.Now().Add(-time.Minute)

		ctx, cancel := context.WithCancel(context.Background())
		registry.StartSweep(ctx, 5*time.Millisecond)

		assert.Eventually(t, func() bool {
			return registry.Len() == 0
		}, time.Second, 5*time.Millisecond)

		cancel()
	})
}
