package room

import (
	"sync"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// Client - one live connection attached to a room. The mark is assigned at
// most once per connection and never reassigned while the membership lasts.
type Client struct {
	ConnID string
	Mark   string
}

// SeatInfo - whether a seat currently has a live connection behind it.
type SeatInfo struct {
	Connected bool `json:"connected"`
}

type Presence struct {
	PlayerA SeatInfo `json:"A"`
	PlayerB SeatInfo `json:"B"`
}

// State - a full game-state snapshot as broadcast to clients. Always a
// complete copy, never a diff.
type State struct {
	Board    entity.Board `json:"board"`
	Status   string       `json:"status"`
	Turn     string       `json:"turn,omitempty"`
	Winner   string       `json:"winner,omitempty"`
	LastMove *entity.Move `json:"last_move,omitempty"`
	Players  Presence     `json:"players"`
}

// Room - one match: a single authoritative game plus the connections
// attached to it. All access to the game goes through the room's mutex, so
// two moves on the same game can never interleave.
type Room struct {
	Code string

	mu           sync.Mutex
	game         *entity.Game
	members      map[string]*Client
	createdAt    time.Time
	lastActiveAt time.Time
}

func newRoom(code, gameType, botLevel string, now time.Time) *Room {
	game := entity.NewGame(gameType)
	game.BotLevel = botLevel

	return &Room{
		Code:         code,
		game:         game,
		members:      make(map[string]*Client),
		createdAt:    now,
		lastActiveAt: now,
	}
}

// Join - attaches a connection and assigns the next free seat: PlayerA if
// free, else PlayerB. In a bot room PlayerB belongs to the computer.
func (that *Room) Join(connID string) (string, State, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var mark string
	switch {
	case !that.seatConnected(entity.PlayerA):
		mark = entity.PlayerA
	case !that.seatConnected(entity.PlayerB):
		mark = entity.PlayerB
	default:
		return "", State{}, apperror.ErrRoomFull
	}

	that.members[connID] = &Client{ConnID: connID, Mark: mark}
	that.touch()
	that.recomputePresence()

	return mark, that.snapshot(), nil
}

// Leave - detaches a connection if it is a member. A game in play stays in
// play even with a vacated seat.
func (that *Room) Leave(connID string) (State, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.members[connID]; !ok {
		return State{}, false
	}

	delete(that.members, connID)
	that.touch()
	that.recomputePresence()

	return that.snapshot(), true
}

// ApplyMove - applies a move on behalf of the member behind connID.
func (that *Room) ApplyMove(connID string, column int) (State, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	member, ok := that.members[connID]
	if !ok {
		return State{}, apperror.ErrNotInRoom
	}

	if _, err := that.game.ApplyMove(member.Mark, column); err != nil {
		return State{}, err
	}

	that.touch()

	return that.snapshot(), nil
}

// Update - runs fn with exclusive access to the game and returns the
// resulting snapshot. Used for bot moves, which must revalidate turn and
// status at the moment they fire.
func (that *Room) Update(fn func(game *entity.Game) error) (State, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := fn(that.game); err != nil {
		return State{}, err
	}

	that.touch()

	return that.snapshot(), nil
}

// Snapshot - the current state of the room's game.
func (that *Room) Snapshot() State {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

// MemberIDs - connection ids of everyone attached to the room.
func (that *Room) MemberIDs() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	ids := make([]string, 0, len(that.members))
	for id := range that.members {
		ids = append(ids, id)
	}

	return ids
}

// IsMember - reports whether connID is attached to the room.
func (that *Room) IsMember(connID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, ok := that.members[connID]

	return ok
}

// BotTurnPending - reports whether the room's computer seat is due to move.
func (that *Room) BotTurnPending() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.IsWithBot() && that.game.IsPlaying() && that.game.Turn == entity.PlayerB
}

func (that *Room) expired(now time.Time, ttl time.Duration) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.members) == 0 && now.Sub(that.lastActiveAt) > ttl
}

// recomputePresence - called after every membership change. Once both seats
// are connected a waiting game begins; a mid-game disconnect changes nothing
// but the connected flags.
func (that *Room) recomputePresence() {
	if that.game.IsWaiting() && that.seatConnected(entity.PlayerA) && that.seatConnected(entity.PlayerB) {
		that.game.Start()
	}
}

func (that *Room) seatConnected(mark string) bool {
	if mark == entity.PlayerB && that.game.IsWithBot() {
		return true
	}

	for _, member := range that.members {
		if member.Mark == mark {
			return true
		}
	}

	return false
}

func (that *Room) snapshot() State {
	return State{
		Board:    that.game.Board,
		Status:   that.game.Status,
		Turn:     that.game.Turn,
		Winner:   that.game.Winner,
		LastMove: that.game.LastMove,
		Players: Presence{
			PlayerA: SeatInfo{Connected: that.seatConnected(entity.PlayerA)},
			PlayerB: SeatInfo{Connected: that.seatConnected(entity.PlayerB)},
		},
	}
}

func (that *Room) touch() {
	that.lastActiveAt = time.Now()
}
