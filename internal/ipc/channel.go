package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
)

// Channel carries messages to whoever owns the display sessions.
type Channel interface {
	Send(ctx context.Context, msg Message) error
}

// Handler consumes one validated message.
type Handler func(Message) error

// Loopback delivers messages in-process to a handler.
type Loopback struct {
	handler Handler
}

func NewLoopback(handler Handler) *Loopback {
	return &Loopback{handler: handler}
}

func (l *Loopback) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return l.handler(msg)
}

type reply struct {
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

// Client sends messages to a Server over a unix socket, one connection per
// message.
type Client struct {
	path   string
	dialer net.Dialer
}

func NewClient(socketPath string) *Client {
	return &Client{path: socketPath}
}

func (c *Client) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	conn, err := c.dialer.DialContext(ctx, "unix", c.path)
	if err != nil {
		return fmt.Errorf("ipc: dial %s: %w", c.path, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return fmt.Errorf("ipc: send %s: %w", msg.Kind, err)
	}
	var resp reply
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return fmt.Errorf("ipc: read reply: %w", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("ipc: remote rejected %s: %s", msg.Kind, resp.Error)
	}
	return nil
}

// Server accepts JSON-line messages on a unix socket and hands each one to
// its handler.
type Server struct {
	listener net.Listener
	handler  Handler

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// Listen binds the socket. A stale socket file left by a crashed instance is
// replaced only when nothing answers on it.
func Listen(socketPath string, handler Handler) (*Server, error) {
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		if !staleSocket(socketPath) {
			return nil, fmt.Errorf("ipc: listen %s: %w", socketPath, err)
		}
		ln, err = net.Listen("unix", socketPath)
		if err != nil {
			return nil, fmt.Errorf("ipc: listen %s: %w", socketPath, err)
		}
	}
	return &Server{listener: ln, handler: handler}, nil
}

func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Serve runs the accept loop until Close is called.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("ipc: accept: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(conn)
		}()
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	enc := json.NewEncoder(conn)
	for scanner.Scan() {
		var msg Message
		resp := reply{OK: true}
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			resp = reply{Error: err.Error()}
		} else if err := msg.Validate(); err != nil {
			resp = reply{Error: err.Error()}
		} else if err := s.handler(msg); err != nil {
			resp = reply{Error: err.Error()}
		}
		if resp.Error != "" {
			logf("rejected message: %s", resp.Error)
		}
		if err := enc.Encode(resp); err != nil {
			return
		}
	}
}

// Close stops accepting and waits for open connections to finish.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	err := s.listener.Close()
	s.wg.Wait()
	return err
}
