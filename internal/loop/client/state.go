package client

import (
	"time"

	"github.com/tomz197/pong/internal/input"
)

// GameState represents the current game phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active match
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-connection state (input, pointer, screens).
// Each client has its own instance, managed by the Client.
type ClientState struct {
	Input     input.Input
	GameState GameState // This client's game phase
	Running   bool      // Client loop running

	PointerY    float64 // Pointer target in field units
	pointerSent float64 // Last value handed to the server
	pointerDone bool    // pointerSent is valid

	PlayerScore   int
	OpponentScore int

	bannerText  string  // Point banner shown over the field
	bannerTimer float64 // Seconds the banner stays up

	delta         time.Duration // Frame delta time (client-side)
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state

	prevGameState GameState
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState(fieldHeight float64) *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
		PointerY:  fieldHeight / 2,
	}
}
