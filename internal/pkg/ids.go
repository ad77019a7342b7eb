package pkg

import "github.com/google/uuid"

// GenerateGameID - returns a new random game id.
func GenerateGameID() string {
	return uuid.NewString()
}

// GenerateNewSessionID - returns a new random session id, used as the player id.
func GenerateNewSessionID() string {
	return uuid.NewString()
}
