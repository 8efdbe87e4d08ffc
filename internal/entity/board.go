package entity

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

const (
	Rows    = 6
	Columns = 7

	// ConnectLength - how many marks in a row win the game.
	ConnectLength = 4

	PlayerA = "A"
	PlayerB = "B"

	EmptyCell = ""
)

// axes - the four directions a winning line can run along.
var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{1, -1}, // diagonal down-left
}

// Board - 6x7 grid, row 0 is the top. A dropped mark always lands in the
// lowest empty cell of its column.
type Board [Rows][Columns]string

// OtherPlayer - returns the opposing mark.
func OtherPlayer(mark string) string {
	if mark == PlayerA {
		return PlayerB
	}

	return PlayerA
}

// LowestOpenRow - returns the row a mark dropped into column would land in.
func (that *Board) LowestOpenRow(column int) (int, error) {
	if column < 0 || column >= Columns {
		return -1, fmt.Errorf("%w: column %d", apperror.ErrInvalidColumn, column)
	}

	for row := Rows - 1; row >= 0; row-- {
		if that[row][column] == EmptyCell {
			return row, nil
		}
	}

	return -1, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
}

// Place - drops a mark into column and returns the row it landed in.
func (that *Board) Place(column int, mark string) (int, error) {
	row, err := that.LowestOpenRow(column)
	if err != nil {
		return -1, err
	}

	that[row][column] = mark

	return row, nil
}

// HasWinAt - reports whether the mark at (row, column) completes a line of
// ConnectLength. Only the cell of the most recent placement needs checking:
// every other line on the board was already checked after its own last cell.
func (that *Board) HasWinAt(row, column int) bool {
	mark := that[row][column]
	if mark == EmptyCell {
		return false
	}

	for _, axis := range axes {
		run := 1
		run += that.countRun(row, column, axis[0], axis[1], mark)
		run += that.countRun(row, column, -axis[0], -axis[1], mark)

		if run >= ConnectLength {
			return true
		}
	}

	return false
}

// IsFull - reports whether no column can take another mark. The top row is
// the last to fill, so it alone decides.
func (that *Board) IsFull() bool {
	for column := 0; column < Columns; column++ {
		if that[0][column] == EmptyCell {
			return false
		}
	}

	return true
}

// OpenColumns - returns the columns that can still take a mark, in order.
func (that *Board) OpenColumns() []int {
	open := make([]int, 0, Columns)
	for column := 0; column < Columns; column++ {
		if that[0][column] == EmptyCell {
			open = append(open, column)
		}
	}

	return open
}

func (that *Board) countRun(row, column, deltaRow, deltaCol int, mark string) int {
	count := 0

	for r, c := row+deltaRow, column+deltaCol; r >= 0 && r < Rows && c >= 0 && c < Columns; r, c = r+deltaRow, c+deltaCol {
		if that[r][c] != mark {
			break
		}
		count++
	}

	return count
}
