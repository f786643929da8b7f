package realtime

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// PresenceTopic is the shared channel used solely to track which users are
// currently connected
const PresenceTopic = "online-users"

// Presence and feed event names
const (
	EventSync   = "sync"
	EventJoin   = "join"
	EventLeave  = "leave"
	EventTrack  = "track"
	EventInsert = "insert"
)

// Event is the JSON frame exchanged on realtime channels
type Event struct {
	Event   string      `json:"event"`
	Topic   string      `json:"topic,omitempty"`
	Key     string      `json:"key,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Subscription is a handle on a topic feed. Events arrive on C until
// Unsubscribe is called; if the subscriber falls behind, events are dropped
// rather than blocking the publisher.
type Subscription struct {
	topic string
	C     chan Event
}

// Hub fans realtime events out to subscribers. It carries two kinds of
// traffic: topic feeds consumed through channel subscriptions (one per
// conversation), and the shared presence channel, where each member holds a
// websocket connection keyed by user id.
type Hub struct {
	mu       sync.Mutex
	subs     map[string]map[*Subscription]struct{}
	presence map[string][]*websocket.Conn
	tracker  *Tracker
}

// NewHub returns an empty hub
func NewHub() *Hub {
	return &Hub{
		subs:     make(map[string]map[*Subscription]struct{}),
		presence: make(map[string][]*websocket.Conn),
		tracker:  NewTracker(),
	}
}

// Tracker exposes the presence set
func (h *Hub) Tracker() *Tracker {
	return h.tracker
}

// Subscribe opens a feed on the given topic
func (h *Hub) Subscribe(topic string) *Subscription {
	sub := &Subscription{topic: topic, C: make(chan Event, 64)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*Subscription]struct{})
	}
	h.subs[topic][sub] = struct{}{}
	return sub
}

// Unsubscribe tears a feed down and closes its channel
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subs[sub.topic]; ok {
		if _, ok := subs[sub]; ok {
			delete(subs, sub)
			close(sub.C)
			if len(subs) == 0 {
				delete(h.subs, sub.topic)
			}
		}
	}
}

// Publish delivers an event to every subscriber of the topic. Slow
// subscribers drop events instead of blocking the caller.
func (h *Hub) Publish(topic string, ev Event) {
	ev.Topic = topic
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[topic] {
		select {
		case sub.C <- ev:
		default:
			zap.S().Warnw("dropping realtime event for slow subscriber",
				"topic", topic,
				"event", ev.Event,
			)
		}
	}
}

// JoinPresence registers a connection on the presence channel and sends it
// the authoritative sync snapshot. The user does not count as online until
// it announces itself with a track event. The snapshot write happens under
// the hub lock; every write to a presence connection goes through that lock,
// so joins never race a broadcast on the same conn.
func (h *Hub) JoinPresence(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.presence[userID] = append(h.presence[userID], conn)

	err := conn.WriteJSON(Event{Event: EventSync, Topic: PresenceTopic, Payload: h.tracker.Online()})
	if err != nil {
		zap.S().Errorw("failed to send presence snapshot", "userId", userID, "error", err)
	}
}

// TrackPresence marks the user online and broadcasts a join event to the
// channel. Duplicate track calls are idempotent: the join is only broadcast
// the first time the user comes online, even when tracks race each other.
func (h *Hub) TrackPresence(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tracker.IsOnline(userID) {
		return
	}
	h.tracker.ApplyJoin(userID)
	h.broadcastPresenceLocked(Event{Event: EventJoin, Topic: PresenceTopic, Key: userID})
}

// LeavePresence removes a connection from the presence channel. When the
// user's last connection goes away, the user is marked offline and a leave
// event is broadcast.
func (h *Hub) LeavePresence(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.presence[userID]
	for i, c := range conns {
		if c == conn {
			conns = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(conns) == 0 {
		delete(h.presence, userID)
		if h.tracker.IsOnline(userID) {
			h.tracker.ApplyLeave(userID)
			h.broadcastPresenceLocked(Event{Event: EventLeave, Topic: PresenceTopic, Key: userID})
		}
	} else {
		h.presence[userID] = conns
	}
}

// broadcastPresenceLocked writes an event to every presence connection. The
// caller must hold h.mu.
func (h *Hub) broadcastPresenceLocked(ev Event) {
	for userID, conns := range h.presence {
		for i := 0; i < len(conns); i++ {
			if err := conns[i].WriteJSON(ev); err != nil {
				zap.S().Warnw("dropping dead presence connection", "userId", userID, "error", err)
				conns[i].Close()
				conns = append(conns[:i], conns[i+1:]...)
				i--
			}
		}
		if len(conns) == 0 {
			delete(h.presence, userID)
		} else {
			h.presence[userID] = conns
		}
	}
}
