package entity

// Session - the durable part of a client identity: which room the session
// last occupied and under which mark. Used for best-effort state replay
// when the same session reconnects.
type Session struct {
	ID       string `json:"id"`
	RoomCode string `json:"room_code,omitempty"`
	Mark     string `json:"mark,omitempty"`
}
