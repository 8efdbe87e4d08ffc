package entity

import (
	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

const (
	StatusWaiting = "waiting"
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

const (
	PvPType     = "pvp"
	WithBotType = "bot"
)

// Move - the most recent placement on the board.
type Move struct {
	Column int    `json:"column"`
	Row    int    `json:"row"`
	Player string `json:"player"`
}

type Game struct {
	Board    Board  `json:"board"`
	Status   string `json:"status"`
	Turn     string `json:"turn,omitempty"`
	Winner   string `json:"winner,omitempty"`
	LastMove *Move  `json:"last_move,omitempty"`
	Type     string `json:"type,omitempty"`
	BotLevel string `json:"bot_level,omitempty"`
}

func NewGame(gameType string) *Game {
	return &Game{
		Status: StatusWaiting,
		Type:   gameType,
	}
}

// Start - moves a waiting game into play. PlayerA always opens.
func (that *Game) Start() {
	if that.Status != StatusWaiting {
		return
	}

	that.Status = StatusPlaying
	that.Turn = PlayerA
}

// ApplyMove - drops the player's mark into column and advances the game.
// It is the only way a game's board changes. Returns the row the mark
// landed in.
func (that *Game) ApplyMove(player string, column int) (int, error) {
	switch that.Status {
	case StatusPlaying:
	case StatusWaiting:
		return -1, apperror.ErrGameNotStarted
	default:
		return -1, apperror.ErrGameFinished
	}

	if player != that.Turn {
		return -1, apperror.ErrNotYourTurn
	}

	row, err := that.Board.Place(column, player)
	if err != nil {
		return -1, err
	}

	that.LastMove = &Move{Column: column, Row: row, Player: player}

	switch {
	case that.Board.HasWinAt(row, column):
		that.Status = StatusWon
		that.Winner = player
	case that.Board.IsFull():
		that.Status = StatusDraw
	default:
		that.Turn = OtherPlayer(player)
	}

	return row, nil
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}
