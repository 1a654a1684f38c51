// Package events is a small in-process pub/sub bus. The config watcher
// publishes reloads on it and runtime components subscribe.
package events

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// TopicConfigReloaded carries the freshly loaded *config.Config as payload.
const TopicConfigReloaded = "config.reloaded"

// Event represents a published message on the event bus.
type Event struct {
	Topic     string            `json:"topic"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   any               `json:"payload,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Handler processes an incoming event.
type Handler func(context.Context, Event)

// Publisher exposes the ability to publish events to the hub.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any, metadata map[string]string)
}

// Hub dispatches events synchronously in subscription order.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string][]subscription
	nextID int64
}

type subscription struct {
	id      int64
	handler Handler
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string][]subscription)}
}

// Subscribe registers handler for topic and returns an unsubscribe func.
func (h *Hub) Subscribe(topic string, handler Handler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.subs[topic] = append(h.subs[topic], subscription{id: id, handler: handler})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		list := h.subs[topic]
		for i, s := range list {
			if s.id == id {
				h.subs[topic] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(h.subs[topic]) == 0 {
			delete(h.subs, topic)
		}
	}
}

// Publish calls every subscriber of topic. A panicking subscriber is logged
// and does not stop the others.
func (h *Hub) Publish(ctx context.Context, topic string, payload any, metadata map[string]string) {
	event := Event{
		Topic:     topic,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
		Metadata:  metadata,
	}

	h.mu.RLock()
	list := append([]subscription(nil), h.subs[topic]...)
	h.mu.RUnlock()

	for _, s := range list {
		dispatch(ctx, s.handler, event)
	}
}

func dispatch(ctx context.Context, handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"topic": event.Topic,
				"error": r,
				"stack": string(debug.Stack()),
			}).Error("event handler panicked")
		}
	}()
	handler(ctx, event)
}
