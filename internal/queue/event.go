// Package queue defines message payloads exchanged over the message broker.
package queue

// EventTicket is one booked seat inside a ReservationCreatedEvent.
type EventTicket struct {
	ShowSessionID uint64 `json:"show_session"`
	Row           uint32 `json:"row"`
	Seat          uint32 `json:"seat"`
}

// ReservationCreatedEvent is published after a reservation commits.
// It carries enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID uint64        `json:"reservation_id"`
	UserID        uint64        `json:"user_id"`
	Tickets       []EventTicket `json:"tickets"`
	CreatedAt     string        `json:"created_at"`
}
