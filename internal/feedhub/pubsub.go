package feedhub

import (
	"context"
	"encoding/json"
	"log"

	"dispatchgo/backend/internal/models"
)

// startPubSubListener starts a goroutine relaying reports from the store's
// pub/sub channel into the hub's broadcast channel.
func (m *Manager) startPubSubListener() {
	go func() {
		ctx := context.Background()
		pubsub := m.Storage.SubscribeReports(ctx)
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var r models.Report
			if err := json.Unmarshal([]byte(msg.Payload), &r); err != nil {
				log.Printf("ERROR: Failed to decode feed payload: %v", err)
				continue
			}
			m.BroadcastCh <- r
		}
	}()
}
