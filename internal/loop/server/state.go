package server

import (
	"sync/atomic"

	"github.com/tomz197/pong/internal/match"
)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to client (points, shutdown)

	// Owned by the server loop.
	match   *match.Match
	playing bool

	snapshot atomic.Pointer[MatchSnapshot]
}

// Snapshot returns the latest published view of this client's match.
func (h *ClientHandle) Snapshot() *MatchSnapshot {
	return h.snapshot.Load()
}

// MatchSnapshot is an immutable copy of one match for rendering.
type MatchSnapshot struct {
	Tick    uint64
	Field   match.Field
	State   match.State
	Playing bool
	Players int // Connected clients on this server
}

// ClientInput is a pointer update from a specific client, in field units.
type ClientInput struct {
	ClientID int
	PointerY float64
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type          ClientEventType
	Side          match.Side // For point events
	PlayerScore   int
	OpponentScore int
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventPointScored ClientEventType = iota
	EventServerShutdown
)

func (t ClientEventType) String() string {
	switch t {
	case EventPointScored:
		return "point"
	case EventServerShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}
