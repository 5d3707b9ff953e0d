package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pickduel/backend/internal/notify"
	"github.com/redis/go-redis/v9"
)

// StartEventSubscriber subscribes to the realtime events channel and fans
// incoming events out to connected clients. Workers publish through
// notify.Notifier; this is the only consumer.
func StartEventSubscriber(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, notify.EventsChannel)
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] realtime event subscriber started")
		for msg := range ch {
			var ev notify.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}

			out := map[string]interface{}{
				"type": ev.Event,
				"data": ev.Data,
			}

			switch {
			case len(ev.UserIDs) > 0:
				for _, userID := range ev.UserIDs {
					GameHub.SendToUser(userID, out)
				}
			case ev.MatchID != 0:
				GameHub.BroadcastToMatch(ev.MatchID, out)
			default:
				// No scoping: invalidation-style broadcast.
				GameHub.BroadcastAll(out)
			}
		}
	}()
}
