package netserver

import (
	"net"
	"sync"

	"github.com/rs/zerolog/log"
)

// RequestHandler processes one request body from a connected peer and
// returns the response body to send back. A nil return with a
// non-nil error means no response is sent (the original
// single_shot_server.h's "handler declines to respond" path).
type RequestHandler func(peer net.Addr, request []byte) (response []byte, err error)

// Server is a single-shot-per-connection TCP server: each accepted
// connection yields exactly one request and exactly one response
// before the connection is closed, mirroring
// pplme::net::SingleShotServer's one-thread(goroutine)-per-connection
// model.
type Server struct {
	handler RequestHandler

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
}

// NewServer builds a Server that will invoke handler once per accepted
// connection.
func NewServer(handler RequestHandler) *Server {
	return &Server{handler: handler}
}

// Start binds addr and begins accepting connections in the background.
// Returns once listening has started; call Shutdown to stop.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	log.Info().Str("component", "netserver").Str("addr", ln.Addr().String()).Msg("listening for connections")

	s.wg.Add(1)
	go s.acceptLoop(ln)
	return nil
}

// Addr returns the server's bound local address. Useful when Start was
// called with a ":0" port.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			// Accept only fails this way once Shutdown has closed the
			// listener; that is the expected way out of this loop.
			return
		}
		s.wg.Add(1)
		go s.service(conn)
	}
}

func (s *Server) service(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	peer := conn.RemoteAddr()
	log.Debug().Str("component", "netserver").Str("peer", peer.String()).Msg("connection accepted")

	request, err := readMessage(conn)
	if err != nil {
		log.Info().Str("component", "netserver").Str("peer", peer.String()).Err(err).Msg("failed to receive request")
		return
	}

	response, err := s.handler(peer, request)
	if err != nil {
		log.Warn().Str("component", "netserver").Str("peer", peer.String()).Err(err).Msg("request handler declined to respond")
		return
	}

	if err := writeMessage(conn, response); err != nil {
		log.Info().Str("component", "netserver").Str("peer", peer.String()).Err(err).Msg("failed to send response")
	}
}

// Shutdown stops accepting new connections and waits for in-flight
// connections to finish being serviced, mirroring
// SingleShotServer::Shutdown's join-all-connection-threads behavior.
func (s *Server) Shutdown() {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return
	}
	log.Info().Str("component", "netserver").Msg("initiating shutdown")
	_ = ln.Close()
	s.wg.Wait()
	log.Info().Str("component", "netserver").Msg("shutdown complete")
}
