// Package server serves the files under a root directory over a minimal
// HTTP/1.1 dialect: one request line per connection, one response, then close.
package server

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/net/netutil"

	"github.com/f4ah6o/sfs-go/internal/config"
	"github.com/f4ah6o/sfs-go/internal/protocol"
)

// Server is a static file server. It is immutable after New and safe to use
// from every connection goroutine.
type Server struct {
	cfg    config.Config
	root   string // absolute, symlinks resolved
	logger *log.Logger
}

// New validates cfg and returns a Server rooted at cfg.Directory.
// It fails with ErrInvalidDirectory if the directory does not exist or is
// not a directory. A nil logger means log.Default().
func New(cfg config.Config, logger *log.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDirectory, cfg.Directory, err)
	}
	root, err = filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDirectory, cfg.Directory)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDirectory, cfg.Directory)
	}

	if logger == nil {
		logger = log.Default()
	}

	return &Server{
		cfg:    cfg,
		root:   root,
		logger: logger,
	}, nil
}

// Root returns the absolute directory being served.
func (s *Server) Root() string {
	return s.root
}

// Addr returns the address ListenAndServe binds.
func (s *Server) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", s.cfg.Port)
}

// ListenAndServe binds the configured port on every IPv4 interface and serves
// until the process exits. A bind failure is returned at once.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp4", s.Addr())
	if err != nil {
		return ioError("listen", err)
	}
	defer ln.Close()
	return s.Serve(ln)
}

// Serve accepts connections on ln, handling each on its own goroutine.
// Accept errors are logged and skipped. Serve returns nil once ln is closed.
func (s *Server) Serve(ln net.Listener) error {
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}

	var delay time.Duration // how long to sleep on accept failure
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			delay = nextAcceptDelay(delay)
			s.logger.Printf("Could not accept connection: %v; retrying in %v", err, delay)
			time.Sleep(delay)
			continue
		}
		delay = 0
		go s.serveConn(conn)
	}
}

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// nextAcceptDelay doubles the previous delay, starting at minAcceptDelay
// and capped at maxAcceptDelay.
func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	return min(prev*2, maxAcceptDelay)
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("Panic while handling %s: %v", remoteAddr(conn), r)
		}
	}()
	s.handle(conn)
}

func (s *Server) logAccess(conn net.Conn, req *protocol.Request, status protocol.Status) {
	if !s.cfg.AccessLog {
		return
	}
	if req == nil {
		s.logger.Printf("%s - - %d", remoteAddr(conn), status.Code())
		return
	}
	s.logger.Printf("%s %s %q %d", remoteAddr(conn), req.Method, req.Resource, status.Code())
}
