package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsHandshakeTimeout = 10 * time.Second
	wsReadTimeout      = 15 * time.Second
	wsReadLimit        = 1 << 20
)

// The ws provider expects a capture agent that pushes one JSON array of
// fragment strings per observation.
func (s *Source) fragmentsWS(ctx context.Context) ([]string, error) {
	conn, err := s.agentConn(ctx)
	if err != nil {
		return nil, err
	}

	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("read capture batch: %w", err)
	}

	var fragments []string
	if err := json.Unmarshal(payload, &fragments); err != nil {
		return nil, fmt.Errorf("decode capture batch: %w", err)
	}
	return fragments, nil
}

func (s *Source) agentConn(ctx context.Context) (*websocket.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return s.conn, nil
	}
	if s.wsURL == "" {
		return nil, errors.New("ws capture requires an agent url")
	}

	dialer := websocket.Dialer{HandshakeTimeout: wsHandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, s.wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial capture agent: %w", err)
	}
	conn.SetReadLimit(wsReadLimit)
	s.conn = conn
	s.log.Info().Str("url", s.wsURL).Msg("connected capture agent")
	return conn, nil
}
