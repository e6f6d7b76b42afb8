package model

import "time"

// Session binds a show to a dome at a specific time.  It is the unit
// tickets are sold against: one dome hosts many sessions and a show
// may run many times.  Deleting a session cascades to its tickets.
//
// Fields:
//  ID        – primary key identifier.
//  ShowID    – show being screened.
//  DomeID    – dome hosting the screening.
//  ShowTime  – when the session starts.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Session struct {
	ID        uint64    // show_sessions.id
	ShowID    uint64    // show_sessions.show_id
	DomeID    uint64    // show_sessions.dome_id
	ShowTime  time.Time // show_sessions.show_time
	CreatedAt time.Time // show_sessions.created_at
	UpdatedAt time.Time // show_sessions.updated_at
}
