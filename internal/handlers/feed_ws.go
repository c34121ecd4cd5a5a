package handlers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/services"
	"github.com/gorilla/websocket"
)

const (
	feedPongWait   = 90 * time.Second
	feedPingPeriod = 30 * time.Second
	feedWriteWait  = 10 * time.Second
)

// allowedOrigins limits which browser origins may open the admin feed.
var allowedOrigins []string

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkFeedOrigin,
}

// checkFeedOrigin accepts non-browser clients (no Origin header) and the
// configured frontend origins.
func checkFeedOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	for _, a := range allowedOrigins {
		if strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

// feedConn serializes writes from the hub and the ping loop.
type feedConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *feedConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
	return c.conn.WriteJSON(v)
}

func (c *feedConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(feedWriteWait))
}

func (c *feedConn) Close() error { return c.conn.Close() }

// AdminRequestFeed streams request.created and request.updated events to a
// signed-in admin. RequireAdmin runs first; browsers pass the session token
// as ?token= because they cannot set headers on WebSocket upgrades.
func AdminRequestFeed(w http.ResponseWriter, r *http.Request) {
	ws, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn := &feedConn{conn: ws}
	hub := services.AdminFeed()
	hub.Register(conn)
	defer func() {
		hub.Unregister(conn)
		conn.Close()
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(feedPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.ping(); err != nil {
					return
				}
			}
		}
	}()

	// The feed is server-to-client only; reads just keep the deadline fresh
	// and detect disconnects.
	ws.SetReadLimit(4 * 1024)
	_ = ws.SetReadDeadline(time.Now().Add(feedPongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(feedPongWait))
	})
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
