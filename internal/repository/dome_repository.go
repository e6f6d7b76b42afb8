// Package repository contains data access logic for the planetarium
// catalog and booking tables. This file defines persistence for domes.
// A dome's seating grid (seat_rows x seats_in_row) bounds every ticket
// coordinate sold for sessions hosted in it.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrDomeNotFound indicates that a dome was not located in the DB.
var ErrDomeNotFound = errors.New("dome not found")

// DomeRepo manages persistence for planetarium domes.
type DomeRepo struct {
	db *sql.DB
}

// NewDomeRepo constructs a DomeRepo with the given DB handle.
func NewDomeRepo(db *sql.DB) *DomeRepo {
	return &DomeRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *DomeRepo) DB() *sql.DB {
	return r.db
}

// Dome mirrors the domes table.  Capacity is derived and never stored.
type Dome struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Rows       uint32 `json:"rows"`
	SeatsInRow uint32 `json:"seats_in_row"`
	Capacity   uint32 `json:"capacity"`
}

// Create inserts a new dome and assigns the generated ID and derived
// capacity back to the struct.
func (r *DomeRepo) Create(ctx context.Context, d *Dome) error {
	const q = `INSERT INTO domes (name, seat_rows, seats_in_row) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, d.Name, d.Rows, d.SeatsInRow)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	d.Capacity = d.Rows * d.SeatsInRow
	return nil
}

// GetByID retrieves a dome by its ID.  It returns ErrDomeNotFound
// when there is no matching row.
func (r *DomeRepo) GetByID(ctx context.Context, id uint64) (*Dome, error) {
	const q = `SELECT id, name, seat_rows, seats_in_row FROM domes WHERE id = ?`
	var d Dome
	err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.Name, &d.Rows, &d.SeatsInRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDomeNotFound
		}
		return nil, err
	}
	d.Capacity = d.Rows * d.SeatsInRow
	return &d, nil
}

// List returns all domes ordered case-insensitively by name.
func (r *DomeRepo) List(ctx context.Context) ([]Dome, error) {
	const q = `SELECT id, name, seat_rows, seats_in_row FROM domes ORDER BY LOWER(name)`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Dome, 0)
	for rows.Next() {
		var d Dome
		if err := rows.Scan(&d.ID, &d.Name, &d.Rows, &d.SeatsInRow); err != nil {
			return nil, err
		}
		d.Capacity = d.Rows * d.SeatsInRow
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HasSessions reports whether any session references the dome.
func (r *DomeRepo) HasSessions(ctx context.Context, id uint64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM show_sessions WHERE dome_id = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Update applies the provided non-nil fields to a dome.  Shrinking
// either grid dimension is refused with ErrDomeInUse while sessions
// reference the dome, because existing tickets could end up outside
// the grid.  Growing a dimension is always allowed.
func (r *DomeRepo) Update(ctx context.Context, id uint64, name *string, seatRows, seatsInRow *uint32) (*Dome, error) {
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	newRows := cur.Rows
	newSeats := cur.SeatsInRow
	if seatRows != nil {
		newRows = *seatRows
	}
	if seatsInRow != nil {
		newSeats = *seatsInRow
	}
	if newRows < cur.Rows || newSeats < cur.SeatsInRow {
		used, err := r.HasSessions(ctx, id)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, ErrDomeInUse
		}
	}
	newName := cur.Name
	if name != nil && *name != "" {
		newName = *name
	}
	const q = `UPDATE domes SET name = ?, seat_rows = ?, seats_in_row = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, newName, newRows, newSeats, id); err != nil {
		return nil, err
	}
	return &Dome{ID: id, Name: newName, Rows: newRows, SeatsInRow: newSeats, Capacity: newRows * newSeats}, nil
}

// Delete removes a dome.  Sessions hosted in the dome and their
// tickets are removed by cascade.  Returns ErrDomeNotFound when no
// row was deleted.
func (r *DomeRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM domes WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDomeNotFound
	}
	return nil
}
