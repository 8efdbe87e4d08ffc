package room

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/pkg"
)

// Registry - the authoritative store of live rooms, addressed by room code.
// It owns every Room; nothing outside the registry creates or deletes one.
type Registry struct {
	logger *slog.Logger
	ttl    time.Duration

	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry(logger *slog.Logger, ttl time.Duration) *Registry {
	return &Registry{
		logger: logger.With("component", "registry"),
		ttl:    ttl,
		rooms:  make(map[string]*Room),
	}
}

// Create - generates a fresh unique code and registers an empty waiting room
// under it.
func (that *Registry) Create(gameType, botLevel string) (*Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var code string
	for {
		generated, err := pkg.GenerateRoomCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room code: %w", err)
		}

		if _, taken := that.rooms[generated]; !taken {
			code = generated
			break
		}
	}

	newRoom := newRoom(code, gameType, botLevel, time.Now())
	that.rooms[code] = newRoom

	that.logger.Info("room created", "code", code, "type", gameType)

	return newRoom, nil
}

// Get - looks a room up by code.
func (that *Registry) Get(code string) (*Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	existingRoom, ok := that.rooms[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, code)
	}

	return existingRoom, nil
}

// Remove - deletes a room by code.
func (that *Registry) Remove(code string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, code)
}

// Len - number of live rooms.
func (that *Registry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

// StartSweep - removes abandoned rooms on a fixed interval until ctx is done.
func (that *Registry) StartSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				that.Sweep()
			}
		}
	}()
}

// Sweep - removes every room with zero attached clients that has been idle
// past the TTL. A room with a connected client is never swept, however old.
// Returns the number of rooms removed.
func (that *Registry) Sweep() int {
	now := time.Now()

	that.mu.Lock()
	defer that.mu.Unlock()

	removed := 0
	for code, staleRoom := range that.rooms {
		if staleRoom.expired(now, that.ttl) {
			delete(that.rooms, code)
			removed++
		}
	}

	if removed > 0 {
		that.logger.Info("swept abandoned rooms", "removed", removed)
	}

	return removed
}
