// Package repository defines error values that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while SeatTakenError signals that the composite unique key
// on tickets rejected an insert at commit time.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrDomeInUse is returned when an admin tries to shrink a dome's
// seating grid while sessions still reference it. Shrinking could
// leave sold tickets pointing at coordinates outside the grid, so
// the update is refused instead.
var ErrDomeInUse = errors.New("dome has scheduled sessions; seating grid cannot be reduced")

// ErrEmptyBatch is returned when a reservation request carries no
// ticket requests. It is raised before any transaction begins.
var ErrEmptyBatch = errors.New("reservation must contain at least one ticket")

// SeatTakenError reports that a ticket insert collided with an
// existing ticket for the same (session, row, seat) tuple. The
// database constraint is the final arbiter here; the colliding
// coordinate is carried so the client learns which request failed.
type SeatTakenError struct {
	SessionID uint64
	Row       uint32
	Seat      uint32
}

// Error implements the error interface.
func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat already taken: session %d, row %d, seat %d", e.SessionID, e.Row, e.Seat)
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry
// violation (error 1062), i.e. a unique constraint rejection.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// isForeignKeyViolation reports whether err is a MySQL foreign key
// failure (error 1452), e.g. linking a show to a theme that does not
// exist.
func isForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1452
}
