package models

import "time"

// Типи подій живої стрічки для адмін-дашборду.
const (
	EventComplaintCreated = "complaint_created"
	EventStatusChanged    = "status_changed"
)

// ComplaintEvent — повідомлення, яке публікується в Redis Pub/Sub
// та розсилається WebSocket-клієнтам. Доставка best-effort.
type ComplaintEvent struct {
	Type        string          `json:"type"`
	ComplaintID uint            `json:"complaintId"`
	Status      ComplaintStatus `json:"status"`
	Title       string          `json:"title"`
	City        string          `json:"city,omitempty"`
	Latitude    *float64        `json:"latitude,omitempty"`
	Longitude   *float64        `json:"longitude,omitempty"`
	At          time.Time       `json:"at"`
}
