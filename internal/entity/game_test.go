package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

func TestGame_Start(t *testing.T) {
	t.Run("Waiting game starts with PlayerA to move", func(t *testing.T) {
		// Given: a freshly created game
		game := NewGame(PvPType)
		require.True(t, game.IsWaiting())

		// When: the game starts
		game.Start()

		// Then: it is playing and PlayerA opens
		assert.True(t, game.IsPlaying())
		assert.Equal(t, PlayerA, game.Turn)
	})

	t.Run("Start is a no-op once the game is underway", func(t *testing.T) {
		// Given: a playing game where PlayerB is to move
		game := NewGame(PvPType)
		game.Start()
		_, err := game.ApplyMove(PlayerA, 0)
		require.NoError(t, err)

		// When: Start is called again
		game.Start()

		// Then: the turn is untouched
		assert.Equal(t, PlayerB, game.Turn)
	})
}

func TestGame_ApplyMove(t *testing.T) {
	t.Run("Returns ErrGameNotStarted before both players are present", func(t *testing.T) {
		// Given: a waiting game
		game := NewGame(PvPType)

		// When: a move is applied
		_, err := game.ApplyMove(PlayerA, 0)

		// Then: it should be rejected and the board unchanged
		assert.ErrorIs(t, err, apperror.ErrGameNotStarted)
		assert.Equal(t, Board{}, game.Board)
	})

	t.Run("Returns ErrNotYourTurn when the wrong player moves", func(t *testing.T) {
		// Given: a playing game with PlayerA to move
		game := NewGame(PvPType)
		game.Start()

		// When: PlayerB moves out of turn
		_, err := game.ApplyMove(PlayerB, 0)

		// Then: it should be rejected and the board unchanged
		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, Board{}, game.Board)
	})

	t.Run("Returns ErrInvalidColumn without flipping the turn", func(t *testing.T) {
		game := NewGame(PvPType)
		game.Start()

		_, err := game.ApplyMove(PlayerA, 7)

		assert.ErrorIs(t, err, apperror.ErrInvalidColumn)
		assert.Equal(t, PlayerA, game.Turn)
	})

	t.Run("Legal move lands, records last move and flips the turn", func(t *testing.T) {
		// Given: a playing game
		game := NewGame(PvPType)
		game.Start()

		// When: PlayerA drops into column 3
		row, err := game.ApplyMove(PlayerA, 3)

		// Then: the mark lands at the bottom, last move is recorded, PlayerB is next
		require.NoError(t, err)
		assert.Equal(t, 5, row)
		assert.Equal(t, &Move{Column: 3, Row: 5, Player: PlayerA}, game.LastMove)
		assert.Equal(t, PlayerB, game.Turn)
	})

	t.Run("Cell count always equals the number of applied moves", func(t *testing.T) {
		// Given: a playing game and a sequence of legal moves
		game := NewGame(PvPType)
		game.Start()
		columns := []int{3, 3, 2, 4, 1, 6, 5}

		// When: the moves are applied alternately
		for i, column := range columns {
			mark := PlayerA
			if i%2 == 1 {
				mark = PlayerB
			}
			_, err := game.ApplyMove(mark, column)
			require.NoError(t, err)
		}

		// Then: exactly that many cells are occupied
		filled := 0
		for row := 0; row < Rows; row++ {
			for column := 0; column < Columns; column++ {
				if game.Board[row][column] != EmptyCell {
					filled++
				}
			}
		}
		assert.Equal(t, len(columns), filled)
	})

	t.Run("Winning move finishes the game and keeps the turn", func(t *testing.T) {
		// Given: a game where PlayerA has three across the bottom row
		game := NewGame(PvPType)
		game.Start()
		moves := []struct {
			mark   string
			column int
		}{
			{PlayerA, 0}, {PlayerB, 0},
			{PlayerA, 1}, {PlayerB, 1},
			{PlayerA, 2}, {PlayerB, 2},
		}
		for _, m := range moves {
			_, err := game.ApplyMove(m.mark, m.column)
			require.NoError(t, err)
		}

		// When: PlayerA completes the line
		_, err := game.ApplyMove(PlayerA, 3)

		// Then: the game is won by PlayerA and no further move is accepted
		require.NoError(t, err)
		assert.Equal(t, StatusWon, game.Status)
		assert.Equal(t, PlayerA, game.Winner)
		assert.Equal(t, PlayerA, game.Turn)
		assert.True(t, game.IsFinished())

		_, err = game.ApplyMove(PlayerB, 3)
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Filling the last cell without a line is a draw", func(t *testing.T) {
		// Given: a playing game one move away from a full drawn board
		game := NewGame(PvPType)
		game.Start()
		game.Board = drawnBoard()
		game.Board[0][6] = EmptyCell

		// When: PlayerA fills the last cell
		row, err := game.ApplyMove(PlayerA, 6)

		// Then: the game is a draw with no winner
		require.NoError(t, err)
		assert.Equal(t, 0, row)
		assert.Equal(t, StatusDraw, game.Status)
		assert.Empty(t, game.Winner)
	})

	t.Run("Replaying the same sequence yields an identical game", func(t *testing.T) {
		// Given: one legal move sequence
		columns := []int{3, 2, 3, 2, 4, 6, 5}

		play := func() *Game {
			game := NewGame(PvPType)
			game.Start()
			for i, column := range columns {
				mark := PlayerA
				if i%2 == 1 {
					mark = PlayerB
				}
				_, err := game.ApplyMove(mark, column)
				require.NoError(t, err)
			}
			return game
		}

		// When: it is played twice from scratch
		first := play()
		second := play()

		// Then: the resulting games are identical
		assert.Equal(t, first, second)
	})
}

func TestGame_SerializationRoundTrip(t *testing.T) {
	// Given: a game with a few moves applied
	game := NewGame(PvPType)
	game.Start()
	for i, column := range []int{3, 3, 2, 1} {
		mark := PlayerA
		if i%2 == 1 {
			mark = PlayerB
		}
		_, err := game.ApplyMove(mark, column)
		require.NoError(t, err)
	}

	// When: the game is serialized and deserialized
	data, err := json.Marshal(game)
	require.NoError(t, err)

	var decoded Game
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Then: the cell layout and bookkeeping are identical
	assert.Equal(t, game.Board, decoded.Board)
	assert.Equal(t, game.Status, decoded.Status)
	assert.Equal(t, game.Turn, decoded.Turn)
	assert.Equal(t, game.LastMove, decoded.LastMove)
}
