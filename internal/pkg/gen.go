package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// roomCodeAlphabet - uppercase letters and digits minus the visually
// ambiguous ones (I, O, 0, 1).
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const RoomCodeLength = 6

// GenerateRoomCode - returns a fresh short code for addressing a room.
func GenerateRoomCode() (string, error) {
	code := make([]byte, RoomCodeLength)

	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}

		code[i] = roomCodeAlphabet[num.Int64()]
	}

	return string(code), nil
}

// GenerateNewSessionID - returns an opaque identifier for a client session.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// GenerateConnectionID - returns an opaque identifier for a live connection.
func GenerateConnectionID() string {
	return uuid.NewString()
}
