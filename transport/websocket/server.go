package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connectfour-backend/internal/pkg"
	"github.com/rocketscienceinc/connectfour-backend/internal/room"
)

const sessionCookieName = "player_session"

type uRoom interface {
	CreateRoom(ctx context.Context, connID, sessionID string, vsBot bool, botLevel string) (string, string, room.State, error)
	JoinRoom(ctx context.Context, connID, sessionID, code string) (string, room.State, error)
	MakeMove(ctx context.Context, connID, code string, column int) (room.State, bool, error)
	ApplyBotMove(ctx context.Context, code string) (room.State, bool)
	LeaveRoom(ctx context.Context, connID, sessionID, code string) (room.State, bool)
	Disconnect(ctx context.Context, connID, code string) (room.State, bool)
	ReplayState(ctx context.Context, sessionID string) (string, room.State, bool)
	MemberIDs(code string) []string
}

type Server struct {
	logger *slog.Logger
	uRoom  uRoom

	botDelay time.Duration
	upgrader websocket.Upgrader

	clientsMutex sync.RWMutex
	clients      map[string]*client

	handlers map[string]func(ctx context.Context, cl *client, payload json.RawMessage) error
}

func New(logger *slog.Logger, uRoom uRoom, botDelay time.Duration) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		uRoom:    uRoom,
		botDelay: botDelay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		clients:  make(map[string]*client),
		handlers: make(map[string]func(context.Context, *client, json.RawMessage) error),
	}

	server.handlers[ActionCreateRoom] = server.handleCreateRoom
	server.handlers[ActionJoinRoom] = server.handleJoinRoom
	server.handlers[ActionMakeMove] = server.handleMakeMove
	server.handlers[ActionLeave] = server.handleLeave

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.ServeWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeWS - upgrades the connection and services it until it closes.
func (that *Server) ServeWS(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeWS")

	sessionID, header := that.sessionFor(req)

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	cl := newClient(pkg.GenerateConnectionID(), sessionID, conn)

	that.clientsMutex.Lock()
	that.clients[cl.id] = cl
	that.clientsMutex.Unlock()

	go cl.writePump()

	log.Info("connection established", "connID", cl.id)

	// best-effort replay for a returning session
	if code, state, ok := that.uRoom.ReplayState(ctx, cl.sessionID); ok {
		_ = that.sendTo(cl, ActionState, StatePayload{RoomCode: code, State: state})
	}

	that.readLoop(ctx, cl)
}

// readLoop - processes inbound messages one at a time until the connection
// drops; its exit is the single disconnect cleanup path.
func (that *Server) readLoop(ctx context.Context, cl *client) {
	log := that.logger.With("method", "readLoop", "connID", cl.id)

	defer that.disconnect(ctx, cl)

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			_ = that.sendError(cl, "", CodeInvalidMessage, "malformed message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			_ = that.sendError(cl, "", CodeInvalidMessage, "unknown action: "+message.Action)
			continue
		}

		if err = handler(ctx, cl, message.Payload); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) disconnect(ctx context.Context, cl *client) {
	log := that.logger.With("method", "disconnect", "connID", cl.id)

	that.clientsMutex.Lock()
	delete(that.clients, cl.id)
	that.clientsMutex.Unlock()

	cl.closeSend()

	if cl.roomCode != "" {
		if state, ok := that.uRoom.Disconnect(ctx, cl.id, cl.roomCode); ok {
			that.broadcastState(cl.roomCode, state)
		}
	}

	log.Info("connection closed")
}

// sessionFor - reads the session cookie, or mints one and sets it in the
// handshake response.
func (that *Server) sessionFor(req *http.Request) (string, http.Header) {
	if cookie, err := req.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	sessionID := pkg.GenerateNewSessionID()
	cookie := &http.Cookie{
		Name:    sessionCookieName,
		Value:   sessionID,
		Path:    "/ws",
		Expires: time.Now().Add(24 * time.Hour),
	}

	header := http.Header{}
	header.Set("Set-Cookie", cookie.String())

	return sessionID, header
}

func (that *Server) sendTo(cl *client, action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	data, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	cl.enqueue(data)

	return nil
}

func (that *Server) sendError(cl *client, roomCode, code, message string) error {
	return that.sendTo(cl, ActionError, ErrorPayload{RoomCode: roomCode, Code: code, Message: message})
}

// broadcastState - sends a full state snapshot to every member of the room.
// Delivery is fire-and-forget per recipient: one dead client never stops
// the others from hearing about a move that already happened.
func (that *Server) broadcastState(code string, state room.State) {
	payload := StatePayload{RoomCode: code, State: state}

	for _, id := range that.uRoom.MemberIDs(code) {
		that.clientsMutex.RLock()
		member, ok := that.clients[id]
		that.clientsMutex.RUnlock()

		if !ok {
			continue
		}

		_ = that.sendTo(member, ActionState, payload)
	}
}
