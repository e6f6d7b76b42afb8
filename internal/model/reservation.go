package model

import "time"

// Reservation records one user's checkout event.  It owns a non-empty
// set of tickets created together in a single transaction; cancelling
// the reservation removes all of them via cascade.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the reservation.
//  CreatedAt – when the reservation was committed.
type Reservation struct {
	ID        uint64    // reservations.id
	UserID    uint64    // reservations.user_id
	CreatedAt time.Time // reservations.created_at
}

// Ticket is the atomic sellable unit: a (row, seat) coordinate in a
// specific session, owned by exactly one reservation.  The tuple
// (show_session_id, row, seat) is globally unique; the database
// constraint on it is the sole guard against double booking.
//
// Tickets are only ever created as part of a reservation and are
// never updated afterwards.
//
// Fields:
//  ID            – primary key identifier.
//  Row           – 1-based row coordinate.
//  Seat          – 1-based seat coordinate within the row.
//  ShowSessionID – session the seat is booked for.
//  ReservationID – owning reservation.
type Ticket struct {
	ID            uint64 // tickets.id
	Row           uint32 // tickets.row_num
	Seat          uint32 // tickets.seat_num
	ShowSessionID uint64 // tickets.show_session_id
	ReservationID uint64 // tickets.reservation_id
}
