package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/room"
)

type roomCreator interface {
	Create(gameType, botLevel string) (*room.Room, error)
}

type handlers struct {
	logger *slog.Logger
	rooms  roomCreator
}

func newHandlers(logger *slog.Logger, rooms roomCreator) *handlers {
	return &handlers{
		logger: logger,
		rooms:  rooms,
	}
}

func (that *handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// CreateRoom - convenience endpoint: returns a fresh room code without
// seating the caller. The caller joins over the websocket afterwards.
func (that *handlers) CreateRoom(w http.ResponseWriter, _ *http.Request) {
	log := that.logger.With("method", "CreateRoom")

	newRoom, err := that.rooms.Create(entity.PvPType, "")
	if err != nil {
		log.Error("failed to create room", "error", err)
		http.Error(w, "failed to create room", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(struct {
		RoomCode string `json:"room_code"`
	}{RoomCode: newRoom.Code})
}
