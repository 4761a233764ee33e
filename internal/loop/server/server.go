package server

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	envconfig "github.com/tomz197/pong/internal/config"
	"github.com/tomz197/pong/internal/logging"
	"github.com/tomz197/pong/internal/loop/config"
	"github.com/tomz197/pong/internal/match"
)

// GameServer is the interface clients use to communicate with the game server.
// Decouples the Client from the concrete Server implementation, enabling
// testing and network frontends.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	StartMatch(clientID int)
	SendPointer(clientID int, y float64)
	GetSnapshot(clientID int) *MatchSnapshot
	Players() int
}

// Options configures a Server.
type Options struct {
	Field  match.Field
	Tuning match.Tuning
	Seed   int64 // 0 picks a time based seed
	Log    *zap.SugaredLogger
}

// DefaultOptions returns the standard field and tuning with a time based seed.
func DefaultOptions() Options {
	return Options{
		Field:  match.DefaultField(),
		Tuning: match.DefaultTuning(),
	}
}

// OptionsFromEnv returns DefaultOptions with the seed taken from PONG_SEED.
func OptionsFromEnv(log *zap.SugaredLogger) (Options, error) {
	opts := DefaultOptions()
	opts.Log = log
	seed, err := envconfig.GetEnvInt("PONG_SEED", 0)
	if err != nil {
		return opts, err
	}
	opts.Seed = seed
	return opts, nil
}

// Server owns one match per connected client and advances every playing
// match once per tick.
type Server struct {
	field  match.Field
	tuning match.Tuning
	seed   int64
	log    *zap.SugaredLogger

	clients      map[int]*ClientHandle
	nextClientID int
	tick         uint64
	inputChan    chan ClientInput
	unregisterCh chan int
	mu           sync.RWMutex
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// NewServer creates a new game server. It fails when the field is invalid.
func NewServer(opts Options) (*Server, error) {
	if err := opts.Field.Validate(); err != nil {
		return nil, fmt.Errorf("server field: %w", err)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}
	return &Server{
		field:        opts.Field,
		tuning:       opts.Tuning,
		seed:         opts.Seed,
		log:          opts.Log,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		inputChan:    make(chan ClientInput, 256),
		unregisterCh: make(chan int, 16),
	}, nil
}

// Field returns the geometry shared by every match on this server.
func (s *Server) Field() match.Field {
	return s.field
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	s.log.Infow("game server running", "tick_rate", config.ServerTickRate)
	for {
		select {
		case <-ctx.Done():
			s.log.Infow("game server stopped", "ticks", s.tick)
			return
		default:
		}

		frameStart := time.Now()

		s.step()

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// step runs one server tick.
func (s *Server) step() {
	s.processUnregistrations()
	s.collectInputs()
	s.advanceMatches()
	s.publishSnapshots()
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	s.log.Infow("notifying clients of shutdown", "clients", len(s.clients))
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.log.Warnw("shutdown timeout reached", "clients", s.Players())
			return
		case <-ticker.C:
			if s.Players() == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns
// its handle. The client is known to the server as soon as this returns, so
// StartMatch and SendPointer apply right away. Its match does not advance
// until StartMatch.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextClientID
	s.nextClientID++

	// The field was validated by NewServer, so New cannot fail here.
	m, _ := match.New(s.field, s.tuning, rand.New(rand.NewSource(s.seed+int64(id))))

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
		match:    m,
	}
	handle.snapshot.Store(&MatchSnapshot{
		Tick:    s.tick,
		Field:   s.field,
		State:   m.State,
		Players: len(s.clients) + 1,
	})
	s.clients[id] = handle

	s.log.Infow("client registered", "client", id, "username", username)
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// StartMatch puts the client's match back in its opening state and starts
// advancing it.
func (s *Server) StartMatch(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	handle.match.Reset()
	handle.playing = true
	s.log.Infow("match started", "client", clientID, "username", handle.Username)
}

// SendPointer sends a pointer position from a client to the server.
func (s *Server) SendPointer(clientID int, y float64) {
	select {
	case s.inputChan <- ClientInput{ClientID: clientID, PointerY: y}:
	default:
		// Input channel full, drop input
	}
}

// GetSnapshot returns the latest snapshot of a client's match, or nil for
// an unknown client.
func (s *Server) GetSnapshot(clientID int) *MatchSnapshot {
	s.mu.RLock()
	handle, ok := s.clients[clientID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return handle.Snapshot()
}

// Players returns the number of connected clients.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// processUnregistrations removes clients that asked to leave.
func (s *Server) processUnregistrations() {
	for {
		select {
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.log.Infow("client unregistered",
					"client", clientID,
					"player_score", handle.match.State.PlayerScore,
					"opponent_score", handle.match.State.OpponentScore,
				)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// collectInputs applies all pending pointer updates. The latest update of a
// client wins.
func (s *Server) collectInputs() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case ci := <-s.inputChan:
			if handle, ok := s.clients[ci.ClientID]; ok {
				handle.match.MovePlayer(ci.PointerY)
			}
		default:
			return
		}
	}
}

// advanceMatches steps every playing match once and reports points.
func (s *Server) advanceMatches() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	for _, handle := range s.clients {
		if !handle.playing {
			continue
		}
		res := handle.match.Advance()
		if res.Scored == match.SideNone {
			continue
		}

		st := handle.match.State
		s.log.Debugw("point scored",
			"client", handle.ID,
			"side", res.Scored.String(),
			"player_score", st.PlayerScore,
			"opponent_score", st.OpponentScore,
		)
		select {
		case handle.EventsCh <- ClientEvent{
			Type:          EventPointScored,
			Side:          res.Scored,
			PlayerScore:   st.PlayerScore,
			OpponentScore: st.OpponentScore,
		}:
		default:
		}
	}
}

// publishSnapshots stores an immutable snapshot for every client.
func (s *Server) publishSnapshots() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := len(s.clients)
	for _, handle := range s.clients {
		handle.snapshot.Store(&MatchSnapshot{
			Tick:    s.tick,
			Field:   s.field,
			State:   handle.match.State,
			Playing: handle.playing,
			Players: players,
		})
	}
}
