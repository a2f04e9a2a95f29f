package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"statuswatch/internal/models"
)

const (
	streamPushInterval = 15 * time.Second
	streamWriteTimeout = 5 * time.Second
)

var streamUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(strings.TrimSpace(r.Host))
		originHost := strings.ToLower(strings.TrimSpace(u.Host))
		return host == originHost
	},
}

func (s *Server) handleStatusWS(w http.ResponseWriter, r *http.Request) {
	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.serveStatusStream(conn)
}

// serveStatusStream pushes the current sample immediately and then on every
// tick until the client goes away. Reads are drained only to detect close.
func (s *Server) serveStatusStream(conn *websocket.Conn) {
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sample, err := s.latestOrCompute(ctx); err == nil {
		if err := writeStreamPayload(conn, sample); err != nil {
			return
		}
	}

	ticker := time.NewTicker(streamPushInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ticker.C:
			sample, err := s.latestOrCompute(ctx)
			if err != nil {
				continue
			}
			if err := writeStreamPayload(conn, sample); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func writeStreamPayload(conn *websocket.Conn, sample models.StatusSample) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(sample)
}
