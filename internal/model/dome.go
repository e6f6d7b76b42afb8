package model

import "time"

// Dome represents a planetarium dome with a fixed seating grid.
// The grid is defined by the number of rows and the number of seats
// in each row; every ticket coordinate must fall inside it.  This
// struct corresponds to a row in the `domes` table.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – human readable dome name.
//  Rows       – number of seating rows.
//  SeatsInRow – number of seats per row.
//  CreatedAt  – timestamp when the dome was created.
//  UpdatedAt  – timestamp of last update.
type Dome struct {
	ID         uint64    // domes.id
	Name       string    // domes.name
	Rows       uint32    // domes.seat_rows
	SeatsInRow uint32    // domes.seats_in_row
	CreatedAt  time.Time // domes.created_at
	UpdatedAt  time.Time // domes.updated_at
}

// Capacity returns the total number of seats in the dome.  It is a
// derived attribute (rows * seats_in_row) and is never stored.
func (d Dome) Capacity() uint32 {
	return d.Rows * d.SeatsInRow
}
