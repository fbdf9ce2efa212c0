// Package feedhub fans newly classified reports out to connected dashboard
// clients. Reports arrive over the store's pub/sub channel, so every
// instance of the service sees submissions handled by any other instance.
package feedhub

import (
	"log"

	"dispatchgo/backend/internal/models"
	"dispatchgo/backend/internal/storage"
)

// Manager owns the set of connected feed clients. All access to the client
// map happens inside Run, so no locking is needed.
type Manager struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	BroadcastCh  chan models.Report

	Storage storage.Storage
}

// NewManager creates a new feed hub.
func NewManager(s storage.Storage) *Manager {
	return &Manager{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan models.Report),
		Storage:      s,
	}
}

// Run is the hub's main dispatch loop.
func (m *Manager) Run() {
	if m.Storage != nil {
		m.startPubSubListener()
	}

	for {
		select {
		case client := <-m.RegisterCh:
			m.Clients[client.GetID()] = client
			log.Printf("Feed client %s connected (%d total)", client.GetID(), len(m.Clients))

		case client := <-m.UnregisterCh:
			if _, ok := m.Clients[client.GetID()]; ok {
				delete(m.Clients, client.GetID())
				client.Close()
				log.Printf("Feed client %s disconnected (%d total)", client.GetID(), len(m.Clients))
			}

		case r := <-m.BroadcastCh:
			m.broadcast(r)
		}
	}
}

func (m *Manager) broadcast(r models.Report) {
	for id, client := range m.Clients {
		select {
		case client.GetSendChannel() <- r:
		default:
			// A client that cannot keep up is dropped rather than
			// allowed to stall the feed for everyone else.
			delete(m.Clients, id)
			client.Close()
			log.Printf("Feed client %s too slow, dropped", id)
		}
	}
}
