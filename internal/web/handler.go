// Package web serves the browser frontend: the canvas page, a websocket
// carrying frames and pointer positions, and a health probe.
package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tomz197/pong/internal/logging"
	"github.com/tomz197/pong/internal/loop/config"
	"github.com/tomz197/pong/internal/loop/server"
)

// Options configures the HTTP routes.
type Options struct {
	Page    string // HTML served at /
	SSHHost string // Substituted for {{.SSHHost}} in Page
	Log     *zap.SugaredLogger
}

// NewMux returns the routes of the web frontend: / for the page, /ws for
// the game socket and /healthz for probes.
func NewMux(gs server.GameServer, opts Options) *http.ServeMux {
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	page := strings.ReplaceAll(opts.Page, "{{.SSHHost}}", opts.SSHHost)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})
	mux.Handle("/ws", NewHandler(gs, log))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"players": gs.Players(),
		})
	})
	return mux
}

// Handler upgrades requests to websockets and attaches each one to its own
// match on the game server.
type Handler struct {
	gs       server.GameServer
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler for gs.
func NewHandler(gs server.GameServer, log *zap.SugaredLogger) *Handler {
	return &Handler{
		gs:  gs,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The page and the socket are served together; any origin may play.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles one browser connection until it closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "browser"
	}
	handle := h.gs.RegisterClient(name)
	log := h.log.With("client", handle.ID, "username", name, "remote", r.RemoteAddr)
	log.Infow("browser connected")

	c := newConn(ws)
	stop := make(chan struct{})
	go c.writePump()
	go h.pushFrames(c, handle, stop, log)

	h.readPump(c, handle, log)

	close(stop)
	h.gs.UnregisterClient(handle.ID)
	log.Infow("browser disconnected")
}

// readPump applies browser input until the socket fails.
func (h *Handler) readPump(c *conn, handle *server.ClientHandle, log *zap.SugaredLogger) {
	c.ws.SetReadLimit(readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debugw("websocket read failed", "error", err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))

		var in InputMessage
		if err := json.Unmarshal(payload, &in); err != nil {
			log.Debugw("malformed input", "error", err)
			continue
		}
		switch in.Type {
		case TypePointer:
			h.gs.SendPointer(handle.ID, in.Y)
		case TypeStart:
			h.gs.StartMatch(handle.ID)
		}
	}
}

// pushFrames sends a frame whenever the match advanced and forwards server
// events. It closes the send queue when it returns, which ends the writer.
func (h *Handler) pushFrames(c *conn, handle *server.ClientHandle, stop <-chan struct{}, log *zap.SugaredLogger) {
	defer close(c.send)

	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()

	var lastTick uint64
	first := true
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-handle.EventsCh:
			if !ok {
				return
			}
			switch ev.Type {
			case server.EventPointScored:
				c.enqueue(mustJSON(PointMessage{Type: TypePoint, Side: ev.Side.String()}))
			case server.EventServerShutdown:
				log.Infow("sending shutdown to browser")
				c.enqueue(mustJSON(ShutdownMessage{Type: TypeShutdown}))
				return
			}
		case <-ticker.C:
			snap := handle.Snapshot()
			if snap == nil || (!first && snap.Tick == lastTick) {
				continue
			}
			first = false
			lastTick = snap.Tick
			c.enqueue(mustJSON(FrameMessage{
				Type:    TypeFrame,
				Tick:    snap.Tick,
				Field:   snap.Field,
				State:   snap.State,
				Playing: snap.Playing,
				Players: snap.Players,
			}))
		}
	}
}

// mustJSON marshals messages built from plain numeric and string fields,
// which cannot fail.
func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
