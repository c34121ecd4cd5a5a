package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/database"
)

const (
	// RequestEventsChannel is the Redis channel carrying request events.
	RequestEventsChannel = "requests:events"

	EventRequestCreated = "request.created"
	EventRequestUpdated = "request.updated"
)

// RequestEvent is the payload broadcast over Redis and WebSocket to admins.
type RequestEvent struct {
	Type      string    `json:"type"`
	RequestID string    `json:"request_id"`
	ClientID  string    `json:"client_id"`
	Status    string    `json:"status"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// FeedConn is the minimal interface a WebSocket connection must satisfy.
// Implementations serialize their own writes: the hub may call WriteJSON
// while the connection's ping loop is writing.
type FeedConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// EventHub fans request events out to the admin connections of this instance.
type EventHub struct {
	mu    sync.RWMutex
	conns map[FeedConn]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{conns: make(map[FeedConn]struct{})}
}

var (
	adminFeed         = NewEventHub()
	subscriberStarted sync.Once
)

// AdminFeed returns the process-wide hub used by the admin WebSocket.
func AdminFeed() *EventHub { return adminFeed }

func (h *EventHub) Register(c FeedConn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *EventHub) Unregister(c FeedConn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

func (h *EventHub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast writes event to every registered connection in parallel. A
// failed write drops that connection.
func (h *EventHub) Broadcast(event RequestEvent) {
	h.mu.RLock()
	targets := make([]FeedConn, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	var wg sync.WaitGroup
	for _, c := range targets {
		wg.Add(1)
		go func(c FeedConn) {
			defer wg.Done()
			if err := c.WriteJSON(event); err != nil {
				log.Printf("error writing request event to websocket: %v", err)
				h.Unregister(c)
				_ = c.Close()
			}
		}(c)
	}
	wg.Wait()
}

// PublishRequestEvent publishes an event to Redis for every instance's hub.
func PublishRequestEvent(ctx context.Context, event RequestEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return database.RedisClient.Publish(ctx, RequestEventsChannel, data).Err()
}

// StartRequestEventSubscriber ensures a single shared Redis listener per instance.
func StartRequestEventSubscriber(ctx context.Context) {
	subscriberStarted.Do(func() {
		go runRequestEventSubscriber(ctx, adminFeed)
	})
}

func runRequestEventSubscriber(ctx context.Context, hub *EventHub) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; request event subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.Subscribe(ctx, RequestEventsChannel)
			defer pubsub.Close()

			log.Printf("✅ Request event subscriber started (channel: %s)", RequestEventsChannel)

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event RequestEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal request event: %v", err)
					continue
				}

				hub.Broadcast(event)
			}
		}()
	}
}
