package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// EventsChannel is the redis pub/sub channel the websocket layer fans out.
const EventsChannel = "realtime_events"

// Event is the wire shape published to the websocket layer. UserIDs scopes
// delivery; an empty list broadcasts to every connected client (used for
// invalidation events).
type Event struct {
	Event   string      `json:"event"`
	UserIDs []string    `json:"user_ids,omitempty"`
	MatchID int         `json:"match_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Notifier pushes realtime events through redis to connected clients.
// Delivery is at-least-once for connected clients and best-effort
// otherwise; a reconnecting client re-fetches state over REST.
type Notifier struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

func (n *Notifier) publish(ctx context.Context, ev Event) {
	if n == nil || n.rdb == nil {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[NOTIFY] Failed to marshal event %s: %v", ev.Event, err)
		return
	}
	if err := n.rdb.Publish(ctx, EventsChannel, b).Err(); err != nil {
		log.Printf("[NOTIFY] Failed to publish event %s: %v", ev.Event, err)
	}
}

// SendToUsers delivers an event to the given users' connected clients.
func (n *Notifier) SendToUsers(ctx context.Context, userIDs []string, event string, data interface{}) {
	n.publish(ctx, Event{Event: event, UserIDs: userIDs, Data: data})
}

// SendToMatch delivers an event to every client in a match room.
func (n *Notifier) SendToMatch(ctx context.Context, matchID int, event string, data interface{}) {
	n.publish(ctx, Event{Event: event, MatchID: matchID, Data: data})
}

// Invalidate tells clients which query keys are stale after a state change.
func (n *Notifier) Invalidate(ctx context.Context, queryKeys ...[]interface{}) {
	n.publish(ctx, Event{Event: "data-invalidated", Data: map[string]interface{}{
		"queryKeys": queryKeys,
	}})
}
