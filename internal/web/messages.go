package web

import "github.com/tomz197/pong/internal/match"

// Message types on the websocket.
const (
	TypeFrame    = "frame"
	TypePoint    = "point"
	TypeShutdown = "shutdown"
	TypePointer  = "pointer"
	TypeStart    = "start"
)

// FrameMessage carries one snapshot of the client's match.
type FrameMessage struct {
	Type    string      `json:"type"`
	Tick    uint64      `json:"tick"`
	Field   match.Field `json:"field"`
	State   match.State `json:"state"`
	Playing bool        `json:"playing"`
	Players int         `json:"players"`
}

// PointMessage announces which side scored.
type PointMessage struct {
	Type string `json:"type"`
	Side string `json:"side"`
}

// ShutdownMessage tells the browser the server is going away.
type ShutdownMessage struct {
	Type string `json:"type"`
}

// InputMessage is what the browser sends: a pointer position in field
// units, or a request to start a match.
type InputMessage struct {
	Type string  `json:"type"`
	Y    float64 `json:"y"`
}
