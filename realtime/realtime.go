package realtime

import (
	"log"
	"sync"

	"api/models"

	"github.com/google/uuid"
)

// EventType names a transition kind that clients can subscribe to
type EventType string

const (
	EventSubmitted     EventType = "submitted"
	EventCompleted     EventType = "completed"
	EventRejected      EventType = "rejected"
	EventPointsAwarded EventType = "points_awarded"
)

// AllEventTypes lists every event a client may subscribe to
var AllEventTypes = []EventType{EventSubmitted, EventCompleted, EventRejected, EventPointsAwarded}

// Event is the minimal transition descriptor pushed to subscribers. It is a
// trigger to re-fetch the authoritative record, never a substitute for it.
type Event struct {
	ID          string               `json:"id"`
	Type        EventType            `json:"type"`
	AttemptID   string               `json:"attempt_id"`
	UserID      string               `json:"user_id"`
	ChallengeID string               `json:"challenge_id"`
	Status      models.AttemptStatus `json:"status"`
	Points      int                  `json:"points,omitempty"`
}

// SubmittedEvent describes an attempt entering pending_verification
func SubmittedEvent(a *models.ChallengeAttempt) Event {
	return newEvent(EventSubmitted, a, 0)
}

// CompletedEvent describes an attempt reaching the completed state
func CompletedEvent(a *models.ChallengeAttempt) Event {
	return newEvent(EventCompleted, a, 0)
}

// RejectedEvent describes an attempt reaching the rejected state
func RejectedEvent(a *models.ChallengeAttempt) Event {
	return newEvent(EventRejected, a, 0)
}

// PointsAwardedEvent carries the integer amount granted with a completion
func PointsAwardedEvent(a *models.ChallengeAttempt, points int) Event {
	return newEvent(EventPointsAwarded, a, points)
}

func newEvent(t EventType, a *models.ChallengeAttempt, points int) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		AttemptID:   a.ID,
		UserID:      a.UserID,
		ChallengeID: a.ChallengeID,
		Status:      a.Status,
		Points:      points,
	}
}

// Subscriber is the write side of a connected client. *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub is a per-process subscription registry keyed by event type. Delivery is
// best-effort and at-most-once per subscriber per event; a failed write drops
// the subscriber.
type Hub struct {
	mu          sync.Mutex
	subscribers map[EventType]map[Subscriber]bool
	broadcast   chan Event
	done        chan struct{}
}

// NewHub creates a hub and starts its broadcast loop
func NewHub() *Hub {
	h := &Hub{
		subscribers: make(map[EventType]map[Subscriber]bool),
		broadcast:   make(chan Event, 64),
		done:        make(chan struct{}),
	}
	go h.run()
	return h
}

// Attach subscribes a client to the given event types
func (h *Hub) Attach(sub Subscriber, events ...EventType) {
	h.mu.Lock()
	for _, event := range events {
		if h.subscribers[event] == nil {
			h.subscribers[event] = make(map[Subscriber]bool)
		}
		h.subscribers[event][sub] = true
	}
	h.mu.Unlock()
}

// Detach removes a client from every event type it was subscribed to
func (h *Hub) Detach(sub Subscriber) {
	h.mu.Lock()
	for event, subs := range h.subscribers {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subscribers, event)
		}
	}
	h.mu.Unlock()
}

// Publish queues an event for delivery to its subscribers
func (h *Hub) Publish(event Event) {
	select {
	case h.broadcast <- event:
	case <-h.done:
	}
}

// Close stops the broadcast loop
func (h *Hub) Close() {
	close(h.done)
}

func (h *Hub) run() {
	for {
		select {
		case event := <-h.broadcast:
			h.deliver(event)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) deliver(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subscribers[event.Type] {
		if err := sub.WriteJSON(event); err != nil {
			log.Printf("WebSocket write error: %v", err)
			sub.Close()
			for _, subs := range h.subscribers {
				delete(subs, sub)
			}
		}
	}
}
