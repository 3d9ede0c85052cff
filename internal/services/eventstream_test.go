package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/events"
	"github.com/redis/go-redis/v9"
)

func TestEventStreamServiceMirrorsBroadcastEventsToRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("starting miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	bus := eventbus.New()
	svc := NewEventStreamService(NewBase(nil, bus, "eventstream"), redisClient)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Stop(context.Background())

	sub := redisClient.Subscribe(context.Background(), redisMirrorChannel)
	defer sub.Close()
	// Block until the subscription is actually registered with miniredis.
	if _, err := sub.Receive(context.Background()); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	bus.Publish(context.Background(), events.NotificationEvent{Title: "test", Content: "mirrored"})

	select {
	case msg := <-sub.Channel():
		var wm wireMessage
		if err := json.Unmarshal([]byte(msg.Payload), &wm); err != nil {
			t.Fatalf("unmarshal mirrored payload: %v", err)
		}
		if wm.Type != eventbus.EventNotification {
			t.Fatalf("unexpected mirrored event type: %v", wm.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the Redis mirror publish")
	}
}

func TestEventStreamServiceWithoutRedisDoesNotPanic(t *testing.T) {
	bus := eventbus.New()
	svc := NewEventStreamService(NewBase(nil, bus, "eventstream"), nil)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Stop(context.Background())

	bus.Publish(context.Background(), events.NotificationEvent{Title: "test", Content: "no mirror"})
}

func TestEventStreamServiceStopClosesWithNoClients(t *testing.T) {
	bus := eventbus.New()
	svc := NewEventStreamService(NewBase(nil, bus, "eventstream"), nil)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
