package websocket

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

func TestErrorCodeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"Room not found", apperror.ErrRoomNotFound, CodeRoomNotFound},
		{"Room full", apperror.ErrRoomFull, CodeRoomFull},
		{"Already in room", apperror.ErrAlreadyInRoom, CodeAlreadyInRoom},
		{"Not in room", apperror.ErrNotInRoom, CodeNotInRoom},
		{"Not your turn", apperror.ErrNotYourTurn, CodeInvalidMove},
		{"Invalid column", apperror.ErrInvalidColumn, CodeInvalidMove},
		{"Column full", apperror.ErrColumnFull, CodeInvalidMove},
		{"Game not started", apperror.ErrGameNotStarted, CodeInvalidMove},
		{"Game finished", apperror.ErrGameFinished, CodeInvalidMove},
		{"Wrapped sentinel keeps its code", fmt.Errorf("failed to join room: %w", apperror.ErrRoomFull), CodeRoomFull},
		{"Unknown error is a server fault, not a client one", errors.New("entropy source failed"), CodeInternalError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, errorCodeFor(tc.err))
		})
	}
}
