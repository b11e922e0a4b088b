package simulator

import (
	"fmt"
	"io"
	"sync"
	"time"

	anetserver "github.com/andrei-cloud/anet/server"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// logAdapter routes anet's own log lines through zerolog, matching every
// other component's logging.
type logAdapter struct{}

func (logAdapter) Print(v ...any)                 { log.Info().Msg(fmt.Sprint(v...)) }
func (logAdapter) Printf(format string, v ...any)  { log.Info().Msgf(format, v...) }
func (logAdapter) Infof(format string, v ...any)   { log.Info().Msgf(format, v...) }
func (logAdapter) Warnf(format string, v ...any)   { log.Warn().Msgf(format, v...) }
func (logAdapter) Errorf(format string, v ...any)  { log.Error().Msgf(format, v...) }

// Server exposes one or more simulated eMRTD chips over TCP, each connection
// getting its own independent BAC/secure-messaging state machine.
type Server struct {
	address string
	doc     *Document
	rng     io.Reader
	srv     *anetserver.Server

	mu    sync.Mutex
	conns map[string]*chipConn
}

// NewServer starts listening on address, serving doc to every connecting
// reader. Pass a deterministic rng in tests; nil uses crypto/rand.Reader.
func NewServer(address string, doc *Document, rng io.Reader) (*Server, error) {
	s := &Server{
		address: address,
		doc:     doc,
		rng:     rng,
		conns:   make(map[string]*chipConn),
	}

	cfg := &anetserver.ServerConfig{
		MaxConns:        16,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     0 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		Logger:          logAdapter{},
	}

	handler := anetserver.HandlerFunc(s.handle)
	srv, err := anetserver.NewServer(address, handler, cfg)
	if err != nil {
		return nil, fmt.Errorf("simulator: server setup failed: %w", err)
	}
	s.srv = srv

	return s, nil
}

// Start begins accepting connections; it blocks until Stop is called.
func (s *Server) Start() error {
	log.Info().Str("address", s.address).Msg("simulator: chip listening")

	return s.srv.Start()
}

// Stop gracefully shuts the listener down.
func (s *Server) Stop() error {
	return s.srv.Stop()
}

func (s *Server) handle(conn *anetserver.ServerConn, data []byte) ([]byte, error) {
	client := conn.Conn.RemoteAddr().String()

	c := s.connFor(client)

	requestID := uuid.NewString()
	log.Debug().
		Str("client", client).
		Str("request_id", requestID).
		Hex("command", data).
		Msg("simulator: received command APDU")

	resp := c.handle(data)

	log.Debug().
		Str("client", client).
		Str("request_id", requestID).
		Hex("response", resp).
		Msg("simulator: sending response APDU")

	return resp, nil
}

func (s *Server) connFor(client string) *chipConn {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conns[client]
	if !ok {
		c = newChipConn(s.doc, s.rng)
		s.conns[client] = c
	}

	return c
}
