package websocket

import (
	"encoding/json"
	"regexp"

	"github.com/rocketscienceinc/connectfour-backend/internal/room"
)

// Message - every frame on the wire, both directions: an action
// discriminator plus an action-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// inbound actions
const (
	ActionCreateRoom = "create_room"
	ActionJoinRoom   = "join_room"
	ActionMakeMove   = "make_move"
	ActionLeave      = "leave"
)

// outbound actions
const (
	ActionRoomCreated = "room_created"
	ActionRoomJoined  = "room_joined"
	ActionState       = "state"
	ActionError       = "error"
)

// error codes
const (
	CodeRoomNotFound   = "ROOM_NOT_FOUND"
	CodeAlreadyInRoom  = "ALREADY_IN_ROOM"
	CodeRoomFull       = "ROOM_FULL"
	CodeNotInRoom      = "NOT_IN_ROOM"
	CodeInvalidMove    = "INVALID_MOVE"
	CodeInvalidMessage = "INVALID_MESSAGE"

	// CodeInternalError - a server-side fault; never the client's doing.
	CodeInternalError = "INTERNAL_ERROR"
)

// roomCodePattern - uppercase letters and digits minus the visually
// ambiguous ones; generated codes are 6 chars but the schema accepts 4-12.
var roomCodePattern = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{4,12}$`)

type CreateRoomRequest struct {
	VsBot      bool   `json:"vs_bot,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type JoinRoomRequest struct {
	RoomCode string `json:"room_code"`
}

type MakeMoveRequest struct {
	RoomCode string `json:"room_code"`
	Column   *int   `json:"column"`
}

type LeaveRequest struct {
	RoomCode string `json:"room_code"`
}

type You struct {
	PlayerID string `json:"player_id"`
}

type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
	You      You    `json:"you"`
}

type RoomJoinedPayload struct {
	RoomCode string     `json:"room_code"`
	You      You        `json:"you"`
	State    room.State `json:"state"`
}

type StatePayload struct {
	RoomCode string     `json:"room_code"`
	State    room.State `json:"state"`
}

type ErrorPayload struct {
	RoomCode string `json:"room_code,omitempty"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}
