package source

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/teranos/simwire/errors"
	"github.com/teranos/simwire/logger"
)

const (
	wsHandshakeTimeout = 10 * time.Second
	wsPingInterval     = 30 * time.Second
	wsReadDeadline     = 90 * time.Second
)

// WebsocketSource subscribes to a serial-over-websocket endpoint and
// accumulates received frames into a transcript. Read returns the whole
// transcript, satisfying the full-visible-text contract; the connection
// reader runs on its own goroutine so a poll tick never blocks on the
// network.
type WebsocketSource struct {
	conn *websocket.Conn
	log  *zap.SugaredLogger

	mu         sync.Mutex
	transcript strings.Builder
	readErr    error
	closed     bool

	done chan struct{}
}

// NewWebsocket dials the endpoint and starts accumulating frames.
func NewWebsocket(ctx context.Context, url string) (*WebsocketSource, error) {
	dialer := websocket.Dialer{HandshakeTimeout: wsHandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to serial websocket %s", url)
	}

	s := &WebsocketSource{
		conn: conn,
		log:  logger.ComponentLogger("source.websocket"),
		done: make(chan struct{}),
	}

	_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	})

	go s.readLoop()
	go s.pingLoop()

	s.log.Infow("serial websocket connected", "url", url)
	return s, nil
}

func (s *WebsocketSource) readLoop() {
	defer close(s.done)
	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			if !s.closed {
				s.readErr = errors.Wrap(err, "serial websocket read failed")
			}
			s.mu.Unlock()
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(wsReadDeadline))

		s.mu.Lock()
		s.transcript.Write(frame)
		s.mu.Unlock()
	}
}

func (s *WebsocketSource) pingLoop() {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(wsHandshakeTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// Read returns the accumulated transcript. Once the connection drops, every
// Read reports the read error so the bridge sees failed ticks rather than a
// transcript frozen in place.
func (s *WebsocketSource) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return "", s.readErr
	}
	return s.transcript.String(), nil
}

// Close tears down the connection.
func (s *WebsocketSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	deadline := time.Now().Add(time.Second)
	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		deadline)
	err := s.conn.Close()

	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
	}
	return err
}
