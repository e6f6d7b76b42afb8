// This file implements the reservation transaction: a batch of seat
// requests committed as a single all-or-nothing unit.  Coordinates
// are validated against the dome grid before any insert, but the
// composite unique key on tickets is the only guard against two
// concurrent requests claiming the same seat — the code never
// pre-checks seat availability and then inserts, because that would
// be a check-then-act race.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BastovOleksandr/planetarium-service/internal/model"
)

// ErrReservationNotFound indicates that a reservation was not located in the DB.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides creation, listing and cancellation of
// reservations and their tickets.  All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying sql.DB.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// TicketRequest is one requested seat: a session plus a (row, seat)
// coordinate.  Row and seat are signed so that zero and negative
// values reach the range validator instead of failing JSON binding.
type TicketRequest struct {
	SessionID uint64 `json:"show_session"`
	Row       int64  `json:"row"`
	Seat      int64  `json:"seat"`
}

// TicketRecord is a persisted ticket as returned to clients.
type TicketRecord struct {
	ID        uint64 `json:"id"`
	Row       uint32 `json:"row"`
	Seat      uint32 `json:"seat"`
	SessionID uint64 `json:"show_session"`
}

// CreatedReservation is the result of a successful reservation
// transaction: the reservation row plus its tickets ordered by
// (row, seat).
type CreatedReservation struct {
	ID        uint64         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Tickets   []TicketRecord `json:"tickets"`
}

// TicketErrors carries the collected field errors for one entry of a
// reservation request, identified by its position in the batch.
type TicketErrors struct {
	Index  int                    `json:"index"`
	Fields model.ValidationErrors `json:"errors"`
}

// BatchValidationError aggregates validation failures across a whole
// ticket batch.  Per-ticket errors are collected, not short-circuited,
// so one response describes every problem.
type BatchValidationError struct {
	Tickets []TicketErrors
}

// Error implements the error interface.
func (e *BatchValidationError) Error() string {
	parts := make([]string, 0, len(e.Tickets))
	for _, t := range e.Tickets {
		parts = append(parts, fmt.Sprintf("ticket %d: %s", t.Index, t.Fields.Error()))
	}
	return "invalid ticket batch: " + strings.Join(parts, " | ")
}

// Create books a batch of seats for a user inside one transaction.
//
// The sequence is: reject empty batches before touching the database;
// resolve each referenced session's dome and range-check every
// coordinate, collecting all failures; insert the reservation row and
// then each ticket.  A duplicate-key rejection on any insert maps to
// SeatTakenError for the offending request and rolls back the whole
// batch, so the caller either gets every requested seat or none.
func (r *ReservationRepo) Create(ctx context.Context, userID uint64, reqs []TicketRequest) (*CreatedReservation, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Resolve each distinct session's dome once, then validate every
	// coordinate.  Failures are collected per ticket index.
	domes := make(map[uint64]model.Dome)
	batchErr := &BatchValidationError{}
	for i, req := range reqs {
		dome, ok := domes[req.SessionID]
		if !ok {
			dome, err = DomeForSessionTx(ctx, tx, req.SessionID)
			if err != nil {
				if errors.Is(err, ErrSessionNotFound) {
					batchErr.Tickets = append(batchErr.Tickets, TicketErrors{
						Index: i,
						Fields: model.ValidationErrors{{
							Field:   "show_session",
							Message: fmt.Sprintf("show session %d does not exist", req.SessionID),
						}},
					})
					continue
				}
				return nil, err
			}
			domes[req.SessionID] = dome
		}
		if fieldErrs := model.ValidateRowSeat(req.Row, req.Seat, dome); fieldErrs != nil {
			batchErr.Tickets = append(batchErr.Tickets, TicketErrors{Index: i, Fields: fieldErrs})
		}
	}
	if len(batchErr.Tickets) > 0 {
		return nil, batchErr
	}

	const insRes = `INSERT INTO reservations (user_id) VALUES (?)`
	res, err := tx.ExecContext(ctx, insRes, userID)
	if err != nil {
		return nil, err
	}
	resID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// Insert tickets one at a time so a constraint rejection can be
	// attributed to the request that caused it.
	const insTicket = `INSERT INTO tickets (row_num, seat_num, show_session_id, reservation_id) VALUES (?, ?, ?, ?)`
	created := &CreatedReservation{ID: uint64(resID), Tickets: make([]TicketRecord, 0, len(reqs))}
	for _, req := range reqs {
		tres, err := tx.ExecContext(ctx, insTicket, req.Row, req.Seat, req.SessionID, resID)
		if err != nil {
			if isDuplicateKey(err) {
				return nil, &SeatTakenError{
					SessionID: req.SessionID,
					Row:       uint32(req.Row),
					Seat:      uint32(req.Seat),
				}
			}
			return nil, err
		}
		tid, err := tres.LastInsertId()
		if err != nil {
			return nil, err
		}
		created.Tickets = append(created.Tickets, TicketRecord{
			ID:        uint64(tid),
			Row:       uint32(req.Row),
			Seat:      uint32(req.Seat),
			SessionID: req.SessionID,
		})
	}

	// Read back the DB-assigned creation timestamp before commit.
	const selCreated = `SELECT created_at FROM reservations WHERE id = ?`
	if err := tx.QueryRowContext(ctx, selCreated, resID).Scan(&created.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	sort.Slice(created.Tickets, func(i, j int) bool {
		if created.Tickets[i].Row != created.Tickets[j].Row {
			return created.Tickets[i].Row < created.Tickets[j].Row
		}
		return created.Tickets[i].Seat < created.Tickets[j].Seat
	})
	return created, nil
}

// ReservationTicket is a ticket as shown in reservation listings,
// including session context.
type ReservationTicket struct {
	ID        uint64 `json:"id"`
	Row       uint32 `json:"row"`
	Seat      uint32 `json:"seat"`
	SessionID uint64 `json:"show_session"`
	ShowTitle string `json:"show_title"`
	DomeName  string `json:"dome_name"`
	ShowTime  string `json:"show_time"`
}

// ReservationDetail is a reservation with its tickets resolved.
type ReservationDetail struct {
	ID        uint64              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Tickets   []ReservationTicket `json:"tickets"`
}

// ListByUser returns all reservations of a user, newest first, each
// with its tickets in (row, seat) order.  Tickets for every matched
// reservation are fetched in a single second query.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT id, created_at FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(&d.ID, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Tickets = []ReservationTicket{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	ticketQ := `SELECT t.reservation_id, t.id, t.row_num, t.seat_num, t.show_session_id,
	                   sh.title, d.name, ss.show_time
	            FROM tickets t
	            JOIN show_sessions ss ON ss.id = t.show_session_id
	            JOIN astronomy_shows sh ON sh.id = ss.show_id
	            JOIN domes d ON d.id = ss.dome_id
	            WHERE t.reservation_id IN (` + strings.Join(placeholders, ",") + `)
	            ORDER BY t.reservation_id, t.row_num, t.seat_num`
	trows, err := r.db.QueryContext(ctx, ticketQ, ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var resID uint64
		var t ReservationTicket
		var showTime time.Time
		if err := trows.Scan(&resID, &t.ID, &t.Row, &t.Seat, &t.SessionID, &t.ShowTitle, &t.DomeName, &showTime); err != nil {
			return nil, err
		}
		t.ShowTime = showTime.UTC().Format(time.RFC3339)
		if idx, ok := index[resID]; ok {
			details[idx].Tickets = append(details[idx].Tickets, t)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// GetByIDForUser returns one reservation belonging to the given user.
// It returns ErrReservationNotFound when the reservation does not
// exist and ErrForbidden when it belongs to a different user.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, reservationID, userID uint64) (*ReservationDetail, error) {
	var ownerID uint64
	var d ReservationDetail
	const q = `SELECT id, user_id, created_at FROM reservations WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, q, reservationID).Scan(&d.ID, &ownerID, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if ownerID != userID {
		return nil, ErrForbidden
	}
	d.Tickets = []ReservationTicket{}
	const ticketQ = `SELECT t.id, t.row_num, t.seat_num, t.show_session_id,
	                        sh.title, dm.name, ss.show_time
	                 FROM tickets t
	                 JOIN show_sessions ss ON ss.id = t.show_session_id
	                 JOIN astronomy_shows sh ON sh.id = ss.show_id
	                 JOIN domes dm ON dm.id = ss.dome_id
	                 WHERE t.reservation_id = ?
	                 ORDER BY t.row_num, t.seat_num`
	rows, err := r.db.QueryContext(ctx, ticketQ, d.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t ReservationTicket
		var showTime time.Time
		if err := rows.Scan(&t.ID, &t.Row, &t.Seat, &t.SessionID, &t.ShowTitle, &t.DomeName, &showTime); err != nil {
			return nil, err
		}
		t.ShowTime = showTime.UTC().Format(time.RFC3339)
		d.Tickets = append(d.Tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteForUser cancels a reservation owned by the given user.  The
// tickets are removed by cascade, which frees the seats for rebooking.
// Returns ErrReservationNotFound / ErrForbidden like GetByIDForUser.
func (r *ReservationRepo) DeleteForUser(ctx context.Context, reservationID, userID uint64) error {
	var ownerID uint64
	const q = `SELECT user_id FROM reservations WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, q, reservationID).Scan(&ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}
	const del = `DELETE FROM reservations WHERE id = ?`
	_, err := r.db.ExecContext(ctx, del, reservationID)
	return err
}
