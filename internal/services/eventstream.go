/**
 * @description
 * EventStreamService fans out every observable bus event to connected
 * WebSocket clients as JSON, adapted from the donor's
 * price_stream_hub.go Redis-channel broadcaster: the same
 * subscriber-map-plus-non-blocking-send shape, but the upstream feed is
 * the in-process eventbus.Bus rather than Redis pub/sub, and each
 * subscriber is a live *websocket.Conn instead of an SSE byte channel.
 * Uses gofiber/websocket/v2 (a fasthttp/websocket wrapper, the gorilla
 * sibling that interoperates with the fiber router) since connections are
 * accepted through the fiber app's fasthttp transport, which plain
 * gorilla/websocket cannot serve directly.
 *
 * Every broadcast event is also mirrored to a Redis channel when a client
 * is configured, so a second API replica (or an external dashboard) can
 * observe the same stream without holding a direct WebSocket connection
 * to this process — the multi-consumer role PriceStreamHub served for
 * SSE clients in the donor.
 *
 * Each connection is assigned a uuid client id at Register time, the
 * teacher's convention for identifying things that aren't a domain model
 * row (see the teacher's UUID primary keys), here repurposed for an
 * ephemeral WebSocket connection rather than a persisted record.
 *
 * @dependencies
 * - github.com/gofiber/websocket/v2
 * - github.com/google/uuid
 * - github.com/redis/go-redis/v9 (optional mirror)
 * - internal/eventbus
 */

package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/redis/go-redis/v9"
)

// redisMirrorChannel is the Redis pub/sub channel every broadcast event is
// mirrored to, when a Redis client is configured.
const redisMirrorChannel = "observer:events"

// broadcastTypes lists every event type forwarded to WebSocket clients.
var broadcastTypes = []eventbus.EventType{
	eventbus.EventInventoryUpdate,
	eventbus.EventMapStarted,
	eventbus.EventMapFinished,
	eventbus.EventMapStats,
	eventbus.EventMapRecord,
	eventbus.EventMarketTransaction,
	eventbus.EventStatsUpdate,
	eventbus.EventSessionStarted,
	eventbus.EventSessionFinished,
	eventbus.EventSessionSnapshot,
	eventbus.EventSessionRestore,
	eventbus.EventPlayerJoin,
	eventbus.EventMarketAction,
	eventbus.EventLevelProgress,
	eventbus.EventNotification,
	eventbus.EventItemDataChanged,
	eventbus.EventPing,
	eventbus.EventS12Gameplay,
}

type wireMessage struct {
	Type    eventbus.EventType `json:"type"`
	Payload interface{}        `json:"payload"`
}

// EventStreamService owns the set of live WebSocket clients and relays bus
// events to all of them.
type EventStreamService struct {
	Base

	redis *redis.Client

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

// NewEventStreamService constructs the service. redisClient may be nil; no
// mirroring happens in that case.
func NewEventStreamService(base Base, redisClient *redis.Client) *EventStreamService {
	return &EventStreamService{Base: base, redis: redisClient, clients: make(map[*websocket.Conn]chan []byte)}
}

func (s *EventStreamService) Descriptor() Descriptor {
	return Descriptor{Name: "eventstream", Version: "1.0.0"}
}

func (s *EventStreamService) Start(ctx context.Context) error {
	for _, t := range broadcastTypes {
		t := t
		s.Bus.Subscribe(t, func(_ context.Context, evt eventbus.Event) {
			s.broadcast(t, evt)
		})
	}
	return nil
}

func (s *EventStreamService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, ch := range s.clients {
		close(ch)
		conn.Close()
	}
	s.clients = make(map[*websocket.Conn]chan []byte)
	return nil
}

// Register adds conn to the broadcast set, starts its write pump and runs
// conn's read loop, returning once that loop exits.
func (s *EventStreamService) Register(ctx context.Context, conn *websocket.Conn) {
	ch := make(chan []byte, 256)
	clientID := uuid.NewString()

	s.mu.Lock()
	s.clients[conn] = ch
	s.mu.Unlock()

	s.Bus.Publish(ctx, events.WebSocketEvent{Status: events.WebSocketConnected, ClientID: clientID})

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		s.Bus.Publish(ctx, events.WebSocketEvent{Status: events.WebSocketDisconnected, ClientID: clientID})
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	done := make(chan struct{})
	go s.writePump(conn, ch, done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			close(done)
			return
		}
	}
}

func (s *EventStreamService) writePump(conn *websocket.Conn, ch chan []byte, done chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *EventStreamService) broadcast(t eventbus.EventType, evt eventbus.Event) {
	payload, err := json.Marshal(wireMessage{Type: t, Payload: evt})
	if err != nil {
		s.Log.Error("marshal event %s: %v", t, err)
		return
	}

	if s.redis != nil {
		if err := s.redis.Publish(context.Background(), redisMirrorChannel, payload).Err(); err != nil {
			s.Log.Warn("redis mirror publish failed: %v", err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.clients {
		select {
		case ch <- payload:
		default:
			// Slow consumer: drop the oldest queued frame to stay responsive.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- payload:
			default:
			}
		}
	}
}
