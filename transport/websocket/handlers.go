package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/bot"
)

func (that *Server) handleCreateRoom(ctx context.Context, cl *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleCreateRoom", "connID", cl.id)

	if cl.roomCode != "" {
		return that.sendError(cl, "", CodeAlreadyInRoom, "already in room "+cl.roomCode)
	}

	var req CreateRoomRequest
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return that.sendError(cl, "", CodeInvalidMessage, "malformed create_room payload")
		}
	}

	switch req.Difficulty {
	case "", bot.LevelEasy, bot.LevelMedium, bot.LevelHard:
	default:
		return that.sendError(cl, "", CodeInvalidMessage, "unknown difficulty: "+req.Difficulty)
	}

	code, mark, state, err := that.uRoom.CreateRoom(ctx, cl.id, cl.sessionID, req.VsBot, req.Difficulty)
	if err != nil {
		log.Error("failed to create room", "error", err)
		return that.sendError(cl, "", errorCodeFor(err), "failed to create room")
	}

	cl.roomCode = code
	cl.mark = mark

	if err = that.sendTo(cl, ActionRoomCreated, RoomCreatedPayload{RoomCode: code, You: You{PlayerID: mark}}); err != nil {
		return err
	}

	that.broadcastState(code, state)

	log.Info("room created", "code", code)

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, cl *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleJoinRoom", "connID", cl.id)

	var req JoinRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return that.sendError(cl, "", CodeInvalidMessage, "malformed join_room payload")
	}

	if !roomCodePattern.MatchString(req.RoomCode) {
		return that.sendError(cl, "", CodeInvalidMessage, "malformed room code")
	}

	if cl.roomCode != "" {
		return that.sendError(cl, req.RoomCode, CodeAlreadyInRoom, "already in room "+cl.roomCode)
	}

	mark, state, err := that.uRoom.JoinRoom(ctx, cl.id, cl.sessionID, req.RoomCode)
	if err != nil {
		return that.sendError(cl, req.RoomCode, errorCodeFor(err), "failed to join room")
	}

	cl.roomCode = req.RoomCode
	cl.mark = mark

	joined := RoomJoinedPayload{RoomCode: req.RoomCode, You: You{PlayerID: mark}, State: state}
	if err = that.sendTo(cl, ActionRoomJoined, joined); err != nil {
		return err
	}

	that.broadcastState(req.RoomCode, state)

	log.Info("player joined room", "code", req.RoomCode, "mark", mark)

	return nil
}

func (that *Server) handleMakeMove(ctx context.Context, cl *client, payload json.RawMessage) error {
	var req MakeMoveRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return that.sendError(cl, "", CodeInvalidMessage, "malformed make_move payload")
	}

	if req.Column == nil {
		return that.sendError(cl, req.RoomCode, CodeInvalidMessage, "column is required")
	}

	if cl.roomCode == "" || cl.roomCode != req.RoomCode {
		return that.sendError(cl, req.RoomCode, CodeNotInRoom, "not a member of this room")
	}

	state, botPending, err := that.uRoom.MakeMove(ctx, cl.id, req.RoomCode, *req.Column)
	if err != nil {
		// errors reach the mover only; nothing changed, nothing to broadcast
		return that.sendError(cl, req.RoomCode, errorCodeFor(err), err.Error())
	}

	that.broadcastState(req.RoomCode, state)

	if botPending {
		that.scheduleBotMove(req.RoomCode)
	}

	return nil
}

func (that *Server) handleLeave(ctx context.Context, cl *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleLeave", "connID", cl.id)

	var req LeaveRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return that.sendError(cl, "", CodeInvalidMessage, "malformed leave payload")
	}

	// leaving a room you are not in is a no-op
	if cl.roomCode == "" || cl.roomCode != req.RoomCode {
		return nil
	}

	state, ok := that.uRoom.LeaveRoom(ctx, cl.id, cl.sessionID, req.RoomCode)

	cl.roomCode = ""
	cl.mark = ""

	if ok {
		that.broadcastState(req.RoomCode, state)
	}

	log.Info("player left room", "code", req.RoomCode)

	return nil
}

// scheduleBotMove - the computer's reply fires after a short pacing delay;
// validity is re-checked inside ApplyBotMove at fire time, so a reply that
// went stale is silently dropped.
func (that *Server) scheduleBotMove(code string) {
	time.AfterFunc(that.botDelay, func() {
		if state, ok := that.uRoom.ApplyBotMove(context.Background(), code); ok {
			that.broadcastState(code, state)
		}
	})
}

func errorCodeFor(err error) string {
	switch {
	case errors.Is(err, apperror.ErrRoomNotFound):
		return CodeRoomNotFound
	case errors.Is(err, apperror.ErrRoomFull):
		return CodeRoomFull
	case errors.Is(err, apperror.ErrAlreadyInRoom):
		return CodeAlreadyInRoom
	case errors.Is(err, apperror.ErrNotInRoom):
		return CodeNotInRoom
	case errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrInvalidColumn),
		errors.Is(err, apperror.ErrColumnFull),
		errors.Is(err, apperror.ErrGameNotStarted),
		errors.Is(err, apperror.ErrGameFinished):
		return CodeInvalidMove
	default:
		// INVALID_MESSAGE is reserved for parse and schema failures, which
		// never reach this mapping
		return CodeInternalError
	}
}
