package realtime

import (
	"encoding/json"
	"sync"

	"unibase/internal/logger"
	"unibase/internal/models"
)

// sendBuffer bounds how far a subscriber may lag before it is dropped.
const sendBuffer = 256

// Subscriber is one live realtime connection, bound to the room of the
// owner that authenticated it. Frames arrive on Send until the hub closes
// the channel.
type Subscriber struct {
	OwnerID string
	Send    chan []byte
}

// Hub fans ChangeEvents out to the subscribers in the mutating owner's
// room. Publish never blocks and never reports failure to the caller: a
// subscriber whose buffer is full is dropped rather than allowed to stall
// the publisher, and missed events are gone for good.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Subscriber]bool),
	}
}

func (h *Hub) Subscribe(ownerID string) *Subscriber {
	sub := &Subscriber{
		OwnerID: ownerID,
		Send:    make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.rooms[ownerID] == nil {
		h.rooms[ownerID] = make(map[*Subscriber]bool)
	}
	h.rooms[ownerID][sub] = true
	h.mu.Unlock()

	return sub
}

// Unsubscribe removes the subscriber and closes its Send channel. Safe to
// call more than once.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[sub.OwnerID]
	if !ok {
		return
	}
	if _, ok := room[sub]; !ok {
		return
	}

	delete(room, sub)
	close(sub.Send)

	if len(room) == 0 {
		delete(h.rooms, sub.OwnerID)
	}
}

// Publish delivers the event to every subscriber in the target owner's
// room. Called from a single request goroutine per mutation sequence, which
// preserves per-subscriber ordering.
func (h *Hub) Publish(ev models.ChangeEvent) {
	frame, err := json.Marshal(ev)
	if err != nil {
		logger.Sugar.Errorw("change event marshal failed", "error", err)
		return
	}

	// Sends happen under the read lock: Unsubscribe closes Send only under
	// the write lock, so no channel can close mid-send. Each send is still
	// non-blocking via select/default.
	h.mu.RLock()
	var stale []*Subscriber
	for sub := range h.rooms[ev.OwnerID] {
		select {
		case sub.Send <- frame:
		default:
			stale = append(stale, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range stale {
		logger.Sugar.Warnw("dropping slow realtime subscriber", "owner", sub.OwnerID)
		h.Unsubscribe(sub)
	}
}

// RoomSize reports how many subscribers an owner currently has.
func (h *Hub) RoomSize(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[ownerID])
}
