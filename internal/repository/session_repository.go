// This file defines persistence for show sessions and the derived
// availability projection.  Availability is always computed by
// subtracting sold tickets from dome capacity inside SQL, never by
// mutating per-seat status rows, so reads see a consistent committed
// snapshot under the engine's default isolation level.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/BastovOleksandr/planetarium-service/internal/model"
)

// ErrSessionNotFound indicates that a show session was not located in the DB.
var ErrSessionNotFound = errors.New("show session not found")

// SessionRepo manages persistence for show sessions.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// DB exposes the underlying sql.DB for multi-repository transactions.
func (r *SessionRepo) DB() *sql.DB {
	return r.db
}

// SessionRow decorates a session with show and dome context plus the
// number of seats still available.  It is the list-endpoint shape.
type SessionRow struct {
	ID               uint64  `json:"id"`
	ShowTime         string  `json:"show_time"`
	ShowID           uint64  `json:"show_id"`
	ShowTitle        string  `json:"show_title"`
	ShowImage        *string `json:"show_image"`
	DomeID           uint64  `json:"dome_id"`
	DomeName         string  `json:"dome_name"`
	DomeCapacity     uint32  `json:"dome_capacity"`
	TicketsAvailable int64   `json:"tickets_available"`
}

// TakenPlace is a sold seat coordinate within a session.
type TakenPlace struct {
	Row  uint32 `json:"row"`
	Seat uint32 `json:"seat"`
}

// SessionDetail is the detail-endpoint shape: the session, its show
// with themes, the hosting dome, and every coordinate already sold.
type SessionDetail struct {
	ID          uint64       `json:"id"`
	ShowTime    string       `json:"show_time"`
	Show        ShowDetail   `json:"astronomy_show"`
	Dome        Dome         `json:"planetarium_dome"`
	TakenPlaces []TakenPlace `json:"taken_places"`
}

// SessionFilter narrows List results by show, dome, or calendar date
// (UTC, "2006-01-02").
type SessionFilter struct {
	ShowID uint64
	DomeID uint64
	Date   string
}

// Create inserts a session.  Dangling show or dome IDs surface as
// ErrShowNotFound / ErrDomeNotFound via the foreign keys.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `INSERT INTO show_sessions (show_id, dome_id, show_time) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.ShowID, s.DomeID, s.ShowTime.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		if isForeignKeyViolation(err) {
			if exists, e2 := rowExists(ctx, r.db, `SELECT EXISTS (SELECT 1 FROM astronomy_shows WHERE id = ?)`, s.ShowID); e2 == nil && !exists {
				return ErrShowNotFound
			}
			return ErrDomeNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// List returns sessions matching the filter, newest first, each
// decorated with dome capacity and tickets_available.  The projection
//
//	tickets_available = capacity - count(tickets of session)
//
// is computed in the same statement so a listing never mixes counts
// from different points in time.  Values are clamped at zero for
// display.
func (r *SessionRepo) List(ctx context.Context, f SessionFilter) ([]SessionRow, error) {
	where := []string{}
	args := []any{}
	if f.ShowID != 0 {
		where = append(where, "ss.show_id = ?")
		args = append(args, f.ShowID)
	}
	if f.DomeID != 0 {
		where = append(where, "ss.dome_id = ?")
		args = append(args, f.DomeID)
	}
	if f.Date != "" {
		where = append(where, "DATE(ss.show_time) = ?")
		args = append(args, f.Date)
	}
	query := `SELECT ss.id, ss.show_time,
	                 sh.id, sh.title, sh.image,
	                 d.id, d.name, d.seat_rows * d.seats_in_row,
	                 d.seat_rows * d.seats_in_row - COUNT(t.id)
	          FROM show_sessions ss
	          JOIN astronomy_shows sh ON sh.id = ss.show_id
	          JOIN domes d ON d.id = ss.dome_id
	          LEFT JOIN tickets t ON t.show_session_id = ss.id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` GROUP BY ss.id, ss.show_time, sh.id, sh.title, sh.image, d.id, d.name, d.seat_rows, d.seats_in_row
	           ORDER BY ss.show_time DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SessionRow, 0)
	for rows.Next() {
		var row SessionRow
		var showTime time.Time
		var img sql.NullString
		if err := rows.Scan(
			&row.ID, &showTime,
			&row.ShowID, &row.ShowTitle, &img,
			&row.DomeID, &row.DomeName, &row.DomeCapacity,
			&row.TicketsAvailable,
		); err != nil {
			return nil, err
		}
		if img.Valid {
			v := img.String
			row.ShowImage = &v
		}
		if row.TicketsAvailable < 0 {
			row.TicketsAvailable = 0
		}
		row.ShowTime = showTime.UTC().Format(time.RFC3339)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TicketsAvailable returns capacity minus sold tickets for a single
// session.  The raw difference is returned unclamped; see List for
// the display-side clamp.
func (r *SessionRepo) TicketsAvailable(ctx context.Context, sessionID uint64) (int64, error) {
	const q = `SELECT d.seat_rows * d.seats_in_row -
	                  (SELECT COUNT(*) FROM tickets t WHERE t.show_session_id = ss.id)
	           FROM show_sessions ss
	           JOIN domes d ON d.id = ss.dome_id
	           WHERE ss.id = ?`
	var n int64
	if err := r.db.QueryRowContext(ctx, q, sessionID).Scan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	return n, nil
}

// GetDetail returns one session with its show, dome, and the sold
// coordinates ordered by (row, seat).
func (r *SessionRepo) GetDetail(ctx context.Context, id uint64) (*SessionDetail, error) {
	const q = `SELECT ss.id, ss.show_time, ss.show_id,
	                  d.id, d.name, d.seat_rows, d.seats_in_row
	           FROM show_sessions ss
	           JOIN domes d ON d.id = ss.dome_id
	           WHERE ss.id = ?`
	var det SessionDetail
	var showTime time.Time
	var showID uint64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &showTime, &showID,
		&det.Dome.ID, &det.Dome.Name, &det.Dome.Rows, &det.Dome.SeatsInRow,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	det.ShowTime = showTime.UTC().Format(time.RFC3339)
	det.Dome.Capacity = det.Dome.Rows * det.Dome.SeatsInRow
	show, err := showDetailByID(ctx, r.db, showID)
	if err != nil {
		return nil, err
	}
	det.Show = *show
	det.TakenPlaces = []TakenPlace{}
	const seatQ = `SELECT row_num, seat_num FROM tickets
	               WHERE show_session_id = ?
	               ORDER BY row_num, seat_num`
	rows, err := r.db.QueryContext(ctx, seatQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p TakenPlace
		if err := rows.Scan(&p.Row, &p.Seat); err != nil {
			return nil, err
		}
		det.TakenPlaces = append(det.TakenPlaces, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// Update applies the provided non-nil fields to a session.
func (r *SessionRepo) Update(ctx context.Context, id uint64, showID, domeID *uint64, showTime *time.Time) error {
	var curShow, curDome uint64
	var curTime time.Time
	const sel = `SELECT show_id, dome_id, show_time FROM show_sessions WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, id).Scan(&curShow, &curDome, &curTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	if showID != nil {
		curShow = *showID
	}
	if domeID != nil {
		curDome = *domeID
	}
	if showTime != nil {
		curTime = *showTime
	}
	const upd = `UPDATE show_sessions SET show_id = ?, dome_id = ?, show_time = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, upd, curShow, curDome, curTime.UTC().Format("2006-01-02 15:04:05"), id); err != nil {
		if isForeignKeyViolation(err) {
			if exists, e2 := rowExists(ctx, r.db, `SELECT EXISTS (SELECT 1 FROM astronomy_shows WHERE id = ?)`, curShow); e2 == nil && !exists {
				return ErrShowNotFound
			}
			return ErrDomeNotFound
		}
		return err
	}
	return nil
}

// Delete removes a session.  Its tickets are removed by cascade.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM show_sessions WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DomeForSessionTx loads the dome hosting a session within the given
// transaction.  The reservation transaction uses it to validate seat
// coordinates against the grid before each insert attempt.
func DomeForSessionTx(ctx context.Context, tx *sql.Tx, sessionID uint64) (model.Dome, error) {
	const q = `SELECT d.id, d.name, d.seat_rows, d.seats_in_row
	           FROM show_sessions ss
	           JOIN domes d ON d.id = ss.dome_id
	           WHERE ss.id = ?`
	var d model.Dome
	err := tx.QueryRowContext(ctx, q, sessionID).Scan(&d.ID, &d.Name, &d.Rows, &d.SeatsInRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Dome{}, ErrSessionNotFound
		}
		return model.Dome{}, err
	}
	return d, nil
}

// rowExists runs an EXISTS-style query returning a single boolean.
func rowExists(ctx context.Context, db *sql.DB, query string, args ...any) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, query, args...).Scan(&exists)
	return exists, err
}

// showDetailByID loads one show with its themes.  Shared between the
// show and session repositories.
func showDetailByID(ctx context.Context, db *sql.DB, id uint64) (*ShowDetail, error) {
	repo := &ShowRepo{db: db}
	return repo.GetDetail(ctx, id)
}
