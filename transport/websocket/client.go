package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
)

const sendBufferSize = 16

// client - one live connection. roomCode and mark are only touched from the
// connection's own read loop, so they need no lock; everyone else reaches
// the client through its send channel. sendMu guards the channel's lifetime:
// a broadcast may race the connection's own disconnect, and a send must
// never hit a closed channel.
type client struct {
	id        string
	sessionID string
	conn      *websocket.Conn

	sendMu sync.Mutex
	send   chan []byte
	closed bool

	roomCode string
	mark     string
}

func newClient(id, sessionID string, conn *websocket.Conn) *client {
	return &client{
		id:        id,
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
	}
}

// writePump - the single writer for the connection; runs until the send
// channel closes.
func (that *client) writePump() {
	defer that.conn.Close()

	for payload := range that.send {
		if err := that.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}

	_ = that.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// enqueue - fire-and-forget delivery: a slow consumer loses the frame
// rather than blocking the room, and a closed connection drops it outright.
func (that *client) enqueue(payload []byte) {
	that.sendMu.Lock()
	defer that.sendMu.Unlock()

	if that.closed {
		return
	}

	select {
	case that.send <- payload:
	default:
	}
}

// closeSend - shuts the send channel exactly once; enqueue calls arriving
// afterwards become no-ops.
func (that *client) closeSend() {
	that.sendMu.Lock()
	defer that.sendMu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	close(that.send)
}
