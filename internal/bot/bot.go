package bot

import (
	"math"
	"math/rand"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const (
	LevelEasy   = "easy"
	LevelMedium = "medium"
	LevelHard   = "hard"
)

const (
	// searchDepth - plies of lookahead for the hard level.
	searchDepth = 4

	// winScore - terminal score for a forced win; remaining depth is added
	// so the search prefers faster wins and slower losses.
	winScore = 100000

	centerColumn = entity.Columns / 2
)

// Engine - the computer opponent. The random source is injected so easy and
// medium play can be made deterministic in tests.
type Engine struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game moves, not secrets
	}

	return &Engine{rng: rng}
}

// PickColumn - chooses a column for mark on the given board at the given
// level. The board is never mutated; candidate moves are simulated on copies.
func (that *Engine) PickColumn(board *entity.Board, mark, level string) (int, error) {
	open := board.OpenColumns()
	if len(open) == 0 {
		return -1, apperror.ErrNoAvailableMoves
	}

	switch level {
	case LevelHard:
		if column, ok := immediateWin(board, mark); ok {
			return column, nil
		}

		if column, ok := immediateWin(board, entity.OtherPlayer(mark)); ok {
			return column, nil
		}

		if column, ok := bestColumn(board, mark); ok {
			return column, nil
		}

		return open[that.rng.Intn(len(open))], nil
	case LevelMedium:
		if column, ok := immediateWin(board, mark); ok {
			return column, nil
		}

		if column, ok := immediateWin(board, entity.OtherPlayer(mark)); ok {
			return column, nil
		}

		return open[that.rng.Intn(len(open))], nil
	default: // LevelEasy
		return open[that.rng.Intn(len(open))], nil
	}
}

// immediateWin - returns the first column where dropping mark wins at once.
func immediateWin(board *entity.Board, mark string) (int, bool) {
	for column := 0; column < entity.Columns; column++ {
		next := *board

		row, err := next.Place(column, mark)
		if err != nil {
			continue
		}

		if next.HasWinAt(row, column) {
			return column, true
		}
	}

	return -1, false
}

// bestColumn - runs the bounded minimax over every legal root move. Ties
// resolve to the first best column in natural order.
func bestColumn(board *entity.Board, mark string) (int, bool) {
	bestScore := math.MinInt
	best := -1

	for column := 0; column < entity.Columns; column++ {
		next := *board

		row, err := next.Place(column, mark)
		if err != nil {
			continue
		}

		var score int
		switch {
		case next.HasWinAt(row, column):
			score = winScore + searchDepth
		case next.IsFull():
			score = 0
		default:
			score = minimax(&next, searchDepth-1, math.MinInt+1, math.MaxInt-1, false, mark)
		}

		if score > bestScore {
			bestScore = score
			best = column
		}
	}

	if best < 0 {
		return -1, false
	}

	return best, true
}

// minimax - depth-limited zero-sum search with alpha-beta pruning. Scores
// are always from the point of view of mark.
func minimax(board *entity.Board, depth, alpha, beta int, maximizing bool, mark string) int {
	if depth == 0 {
		return Evaluate(board, mark)
	}

	moved := false

	if maximizing {
		best := math.MinInt

		for column := 0; column < entity.Columns; column++ {
			next := *board

			row, err := next.Place(column, mark)
			if err != nil {
				continue
			}
			moved = true

			var score int
			switch {
			case next.HasWinAt(row, column):
				score = winScore + depth
			case next.IsFull():
				score = 0
			default:
				score = minimax(&next, depth-1, alpha, beta, false, mark)
			}

			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if alpha >= beta {
				break
			}
		}

		if !moved {
			return Evaluate(board, mark)
		}

		return best
	}

	opponent := entity.OtherPlayer(mark)
	best := math.MaxInt

	for column := 0; column < entity.Columns; column++ {
		next := *board

		row, err := next.Place(column, opponent)
		if err != nil {
			continue
		}
		moved = true

		var score int
		switch {
		case next.HasWinAt(row, column):
			score = -(winScore + depth)
		case next.IsFull():
			score = 0
		default:
			score = minimax(&next, depth-1, alpha, beta, true, mark)
		}

		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if alpha >= beta {
			break
		}
	}

	if !moved {
		return Evaluate(board, mark)
	}

	return best
}

// Evaluate - heuristic value of the board for mark: every window of four
// cells along each axis is scored, plus a bonus per own mark in the center
// column. Deliberately asymmetric: only an opponent's open three is
// penalized, and only own center play is rewarded.
func Evaluate(board *entity.Board, mark string) int {
	opponent := entity.OtherPlayer(mark)
	score := 0

	for row := 0; row < entity.Rows; row++ {
		if board[row][centerColumn] == mark {
			score += 3
		}
	}

	for _, axis := range axes {
		for row := 0; row < entity.Rows; row++ {
			for column := 0; column < entity.Columns; column++ {
				endRow := row + axis[0]*(entity.ConnectLength-1)
				endCol := column + axis[1]*(entity.ConnectLength-1)
				if endRow < 0 || endRow >= entity.Rows || endCol < 0 || endCol >= entity.Columns {
					continue
				}

				score += scoreWindow(board, row, column, axis[0], axis[1], mark, opponent)
			}
		}
	}

	return score
}

var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{1, -1}, // diagonal down-left
}

func scoreWindow(board *entity.Board, row, column, deltaRow, deltaCol int, mark, opponent string) int {
	var own, foe, empty int

	for i := 0; i < entity.ConnectLength; i++ {
		switch board[row+deltaRow*i][column+deltaCol*i] {
		case mark:
			own++
		case opponent:
			foe++
		default:
			empty++
		}
	}

	switch {
	case own == 4:
		return 100
	case own == 3 && empty == 1:
		return 5
	case own == 2 && empty == 2:
		return 2
	case foe == 3 && empty == 1:
		return -4
	}

	return 0
}
