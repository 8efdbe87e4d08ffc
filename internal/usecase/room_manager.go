package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/room"
)

type sessionRepo interface {
	Save(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type botEngine interface {
	PickColumn(board *entity.Board, mark, level string) (int, error)
}

// RoomManager - orchestrates the room registry, the computer opponent and
// the session store. The transport layer talks only to this type.
type RoomManager struct {
	logger   *slog.Logger
	registry *room.Registry
	bot      botEngine
	sessions sessionRepo
}

func NewRoomManager(logger *slog.Logger, registry *room.Registry, bot botEngine, sessions sessionRepo) *RoomManager {
	return &RoomManager{
		logger:   logger.With("component", "room_manager"),
		registry: registry,
		bot:      bot,
		sessions: sessions,
	}
}

// CreateRoom - creates a room and seats the creating connection as PlayerA.
// A bot room seats the computer as PlayerB and begins at once.
func (that *RoomManager) CreateRoom(ctx context.Context, connID, sessionID string, vsBot bool, botLevel string) (string, string, room.State, error) {
	gameType := entity.PvPType
	if vsBot {
		gameType = entity.WithBotType
		if botLevel == "" {
			botLevel = "medium"
		}
	}

	newRoom, err := that.registry.Create(gameType, botLevel)
	if err != nil {
		return "", "", room.State{}, fmt.Errorf("failed to create room: %w", err)
	}

	mark, state, err := newRoom.Join(connID)
	if err != nil {
		that.registry.Remove(newRoom.Code)
		return "", "", room.State{}, fmt.Errorf("failed to join created room: %w", err)
	}

	that.saveSession(ctx, sessionID, newRoom.Code, mark)

	return newRoom.Code, mark, state, nil
}

// JoinRoom - attaches a connection to an existing room under the next free
// seat.
func (that *RoomManager) JoinRoom(ctx context.Context, connID, sessionID, code string) (string, room.State, error) {
	existingRoom, err := that.registry.Get(code)
	if err != nil {
		return "", room.State{}, fmt.Errorf("failed to get room: %w", err)
	}

	mark, state, err := existingRoom.Join(connID)
	if err != nil {
		return "", room.State{}, fmt.Errorf("failed to join room: %w", err)
	}

	that.saveSession(ctx, sessionID, code, mark)

	return mark, state, nil
}

// MakeMove - applies a member's move. The second return value reports
// whether the computer seat is now due to reply.
func (that *RoomManager) MakeMove(_ context.Context, connID, code string, column int) (room.State, bool, error) {
	existingRoom, err := that.registry.Get(code)
	if err != nil {
		return room.State{}, false, fmt.Errorf("failed to get room: %w", err)
	}

	state, err := existingRoom.ApplyMove(connID, column)
	if err != nil {
		return room.State{}, false, fmt.Errorf("failed to make move: %w", err)
	}

	return state, existingRoom.BotTurnPending(), nil
}

// ApplyBotMove - plays the computer's reply in a bot room. The move is
// scheduled with a delay, so turn and status are revalidated here at fire
// time; a stale move is discarded, not an error.
func (that *RoomManager) ApplyBotMove(_ context.Context, code string) (room.State, bool) {
	log := that.logger.With("method", "ApplyBotMove", "code", code)

	existingRoom, err := that.registry.Get(code)
	if err != nil {
		return room.State{}, false
	}

	state, err := existingRoom.Update(func(game *entity.Game) error {
		if !game.IsWithBot() || !game.IsPlaying() || game.Turn != entity.PlayerB {
			return apperror.ErrNotYourTurn
		}

		column, pickErr := that.bot.PickColumn(&game.Board, entity.PlayerB, game.BotLevel)
		if pickErr != nil {
			return fmt.Errorf("bot failed to pick column: %w", pickErr)
		}

		if _, moveErr := game.ApplyMove(entity.PlayerB, column); moveErr != nil {
			return fmt.Errorf("bot failed to make move: %w", moveErr)
		}

		return nil
	})
	if errors.Is(err, apperror.ErrNotYourTurn) {
		// the game moved on while the reply was pending
		return room.State{}, false
	}

	if err != nil {
		log.Error("bot move failed", "error", err)
		return room.State{}, false
	}

	return state, true
}

// LeaveRoom - detaches a connection on an explicit leave and forgets its
// session.
func (that *RoomManager) LeaveRoom(ctx context.Context, connID, sessionID, code string) (room.State, bool) {
	existingRoom, err := that.registry.Get(code)
	if err != nil {
		return room.State{}, false
	}

	state, removed := existingRoom.Leave(connID)
	if !removed {
		return room.State{}, false
	}

	that.deleteSession(ctx, sessionID)

	return state, true
}

// Disconnect - detaches a connection that dropped without leaving. The
// session record is kept so a reconnect can replay the room's state.
func (that *RoomManager) Disconnect(_ context.Context, connID, code string) (room.State, bool) {
	existingRoom, err := that.registry.Get(code)
	if err != nil {
		return room.State{}, false
	}

	return existingRoom.Leave(connID)
}

// ReplayState - best-effort: if the session was last seen in a room that is
// still alive, return that room's current state.
func (that *RoomManager) ReplayState(ctx context.Context, sessionID string) (string, room.State, bool) {
	session, err := that.sessions.GetByID(ctx, sessionID)
	if err != nil || session.RoomCode == "" {
		return "", room.State{}, false
	}

	existingRoom, err := that.registry.Get(session.RoomCode)
	if err != nil {
		return "", room.State{}, false
	}

	return session.RoomCode, existingRoom.Snapshot(), true
}

// MemberIDs - connection ids attached to a room; empty if the room is gone.
func (that *RoomManager) MemberIDs(code string) []string {
	existingRoom, err := that.registry.Get(code)
	if err != nil {
		return nil
	}

	return existingRoom.MemberIDs()
}

// IsMember - reports whether connID is attached to the room behind code.
func (that *RoomManager) IsMember(connID, code string) bool {
	existingRoom, err := that.registry.Get(code)
	if err != nil {
		return false
	}

	return existingRoom.IsMember(connID)
}

func (that *RoomManager) saveSession(ctx context.Context, sessionID, code, mark string) {
	log := that.logger.With("method", "saveSession", "session", sessionID)

	session := &entity.Session{ID: sessionID, RoomCode: code, Mark: mark}
	if err := that.sessions.Save(ctx, session); err != nil {
		log.Error("failed to save session", "error", err)
	}
}

func (that *RoomManager) deleteSession(ctx context.Context, sessionID string) {
	log := that.logger.With("method", "deleteSession", "session", sessionID)

	if err := that.sessions.DeleteByID(ctx, sessionID); err != nil {
		log.Error("failed to delete session", "error", err)
	}
}
