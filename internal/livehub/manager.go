// Package livehub розсилає події скарг підключеним адмін-дашбордам.
// Події надходять через Redis Pub/Sub, тож кілька інстансів сервера
// бачать один потік. Доставка best-effort: повільний клієнт відкидається.
package livehub

import (
	"encoding/json"
	"log"

	"civicgo/backend/internal/models"
)

// EventSource — джерело подій для хаба (Redis Pub/Sub у продакшені).
type EventSource interface {
	Events() <-chan []byte
}

// Manager тримає всіх активних клієнтів і цикл розсилки.
type Manager struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client

	source  EventSource
	eventCh chan models.ComplaintEvent
}

func NewManager(source EventSource) *Manager {
	return &Manager{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		source:       source,
		eventCh:      make(chan models.ComplaintEvent),
	}
}

// Run — головний цикл хаба. Запускається в окремій goroutine;
// весь доступ до Clients відбувається лише звідси.
func (m *Manager) Run() {
	m.startSourceListener()

	for {
		select {
		case client := <-m.RegisterCh:
			m.Clients[client.GetID()] = client
			log.Printf("INFO: Live feed client %s connected (%d total)", client.GetID(), len(m.Clients))

		case client := <-m.UnregisterCh:
			if _, ok := m.Clients[client.GetID()]; ok {
				delete(m.Clients, client.GetID())
				client.Close()
				log.Printf("INFO: Live feed client %s disconnected (%d total)", client.GetID(), len(m.Clients))
			}

		case ev := <-m.eventCh:
			for id, client := range m.Clients {
				select {
				case client.GetSendChannel() <- ev:
				default:
					// Клієнт не встигає читати — відкидаємо
					delete(m.Clients, id)
					client.Close()
					log.Printf("WARN: Dropped slow live feed client %s", id)
				}
			}
		}
	}
}

// startSourceListener читає сирі повідомлення з джерела (Redis)
// та декодує їх у події для циклу розсилки.
func (m *Manager) startSourceListener() {
	if m.source == nil {
		return // без джерела хаб обслуговує лише явні Publish (тести)
	}

	go func() {
		for payload := range m.source.Events() {
			var ev models.ComplaintEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				log.Printf("ERROR: Failed to decode complaint event: %v", err)
				continue
			}
			m.eventCh <- ev
		}
	}()
}

// Publish вкидає подію напряму в цикл розсилки (минаючи Redis).
func (m *Manager) Publish(ev models.ComplaintEvent) {
	m.eventCh <- ev
}
