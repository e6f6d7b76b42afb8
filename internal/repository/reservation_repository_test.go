package repository

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
)

func TestReservationCreate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID, sessionID, _ := seedSession(t, db, 5, 10)
	repo := NewReservationRepo(db)
	sessions := NewSessionRepo(db)

	t.Run("empty batch rejected before any write", func(t *testing.T) {
		if _, err := repo.Create(ctx, userID, nil); !errors.Is(err, ErrEmptyBatch) {
			t.Fatalf("err = %v, want ErrEmptyBatch", err)
		}
	})

	t.Run("out of range coordinates collected per ticket", func(t *testing.T) {
		_, err := repo.Create(ctx, userID, []TicketRequest{
			{SessionID: sessionID, Row: 6, Seat: 11},
			{SessionID: sessionID, Row: 2, Seat: 3},
		})
		var batchErr *BatchValidationError
		if !errors.As(err, &batchErr) {
			t.Fatalf("err = %v, want BatchValidationError", err)
		}
		if len(batchErr.Tickets) != 1 || batchErr.Tickets[0].Index != 0 {
			t.Fatalf("unexpected ticket errors: %+v", batchErr.Tickets)
		}
		if got := len(batchErr.Tickets[0].Fields); got != 2 {
			t.Fatalf("expected both row and seat errors, got %d", got)
		}
		// Validation failures must not leave partial rows behind.
		if n := countRows(t, db, "tickets"); n != 0 {
			t.Fatalf("tickets table has %d rows after rejected batch", n)
		}
		if n := countRows(t, db, "reservations"); n != 0 {
			t.Fatalf("reservations table has %d rows after rejected batch", n)
		}
	})

	t.Run("unknown session reported as field error", func(t *testing.T) {
		_, err := repo.Create(ctx, userID, []TicketRequest{
			{SessionID: sessionID + 1000, Row: 1, Seat: 1},
		})
		var batchErr *BatchValidationError
		if !errors.As(err, &batchErr) {
			t.Fatalf("err = %v, want BatchValidationError", err)
		}
		if batchErr.Tickets[0].Fields[0].Field != "show_session" {
			t.Fatalf("field = %q, want show_session", batchErr.Tickets[0].Fields[0].Field)
		}
	})

	t.Run("successful batch reduces availability", func(t *testing.T) {
		before, err := sessions.TicketsAvailable(ctx, sessionID)
		if err != nil {
			t.Fatalf("TicketsAvailable: %v", err)
		}
		if before != 50 {
			t.Fatalf("availability = %d, want 50", before)
		}
		created, err := repo.Create(ctx, userID, []TicketRequest{
			{SessionID: sessionID, Row: 1, Seat: 1},
			{SessionID: sessionID, Row: 1, Seat: 2},
			{SessionID: sessionID, Row: 2, Seat: 1},
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if len(created.Tickets) != 3 {
			t.Fatalf("tickets = %d, want 3", len(created.Tickets))
		}
		if created.CreatedAt.IsZero() {
			t.Errorf("created_at not populated")
		}
		after, err := sessions.TicketsAvailable(ctx, sessionID)
		if err != nil {
			t.Fatalf("TicketsAvailable: %v", err)
		}
		if after != 47 {
			t.Fatalf("availability = %d, want 47", after)
		}
	})

	t.Run("duplicate seat rolls back the whole batch", func(t *testing.T) {
		before := countRows(t, db, "tickets")
		_, err := repo.Create(ctx, userID, []TicketRequest{
			{SessionID: sessionID, Row: 3, Seat: 3}, // free
			{SessionID: sessionID, Row: 1, Seat: 1}, // sold above
		})
		var seatErr *SeatTakenError
		if !errors.As(err, &seatErr) {
			t.Fatalf("err = %v, want SeatTakenError", err)
		}
		if seatErr.Row != 1 || seatErr.Seat != 1 || seatErr.SessionID != sessionID {
			t.Fatalf("wrong coordinate reported: %+v", seatErr)
		}
		// All or nothing: the free seat from the failed batch must not
		// have been kept.
		if after := countRows(t, db, "tickets"); after != before {
			t.Fatalf("tickets went from %d to %d across a failed batch", before, after)
		}
	})

	t.Run("duplicate within one batch also rolls back", func(t *testing.T) {
		before := countRows(t, db, "tickets")
		_, err := repo.Create(ctx, userID, []TicketRequest{
			{SessionID: sessionID, Row: 4, Seat: 4},
			{SessionID: sessionID, Row: 4, Seat: 4},
		})
		var seatErr *SeatTakenError
		if !errors.As(err, &seatErr) {
			t.Fatalf("err = %v, want SeatTakenError", err)
		}
		if after := countRows(t, db, "tickets"); after != before {
			t.Fatalf("tickets went from %d to %d across a failed batch", before, after)
		}
	})
}

// TestReservationCreateRace books the same seat from two goroutines.
// The unique key must let exactly one transaction commit.
func TestReservationCreateRace(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID, sessionID, _ := seedSession(t, db, 5, 10)
	repo := NewReservationRepo(db)

	const attempts = 2
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = repo.Create(ctx, userID, []TicketRequest{
				{SessionID: sessionID, Row: 2, Seat: 5},
			})
		}(i)
	}
	wg.Wait()

	var ok, taken int
	for _, err := range results {
		var seatErr *SeatTakenError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &seatErr):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || taken != 1 {
		t.Fatalf("got %d successes and %d conflicts, want exactly 1 of each", ok, taken)
	}
	if n := countRows(t, db, "tickets"); n != 1 {
		t.Fatalf("tickets = %d, want 1", n)
	}
}

func TestReservationListGetDelete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID, sessionID, _ := seedSession(t, db, 5, 10)
	repo := NewReservationRepo(db)
	sessions := NewSessionRepo(db)

	created, err := repo.Create(ctx, userID, []TicketRequest{
		{SessionID: sessionID, Row: 1, Seat: 2},
		{SessionID: sessionID, Row: 1, Seat: 1},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	t.Run("tickets ordered by row then seat", func(t *testing.T) {
		if created.Tickets[0].Seat != 1 || created.Tickets[1].Seat != 2 {
			t.Fatalf("unexpected ticket order: %+v", created.Tickets)
		}
	})

	t.Run("list by user", func(t *testing.T) {
		details, err := repo.ListByUser(ctx, userID)
		if err != nil {
			t.Fatalf("ListByUser: %v", err)
		}
		if len(details) != 1 || details[0].ID != created.ID {
			t.Fatalf("unexpected listing: %+v", details)
		}
		if len(details[0].Tickets) != 2 {
			t.Fatalf("tickets = %d, want 2", len(details[0].Tickets))
		}
		if details[0].Tickets[0].ShowTitle == "" || details[0].Tickets[0].DomeName == "" {
			t.Errorf("ticket context not resolved: %+v", details[0].Tickets[0])
		}
	})

	t.Run("other users cannot read it", func(t *testing.T) {
		if _, err := repo.GetByIDForUser(ctx, created.ID, userID+1); !errors.Is(err, ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("missing reservation", func(t *testing.T) {
		if _, err := repo.GetByIDForUser(ctx, created.ID+999, userID); !errors.Is(err, ErrReservationNotFound) {
			t.Fatalf("err = %v, want ErrReservationNotFound", err)
		}
	})

	t.Run("other users cannot cancel it", func(t *testing.T) {
		if err := repo.DeleteForUser(ctx, created.ID, userID+1); !errors.Is(err, ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("cancelling frees the seats", func(t *testing.T) {
		if err := repo.DeleteForUser(ctx, created.ID, userID); err != nil {
			t.Fatalf("DeleteForUser: %v", err)
		}
		avail, err := sessions.TicketsAvailable(ctx, sessionID)
		if err != nil {
			t.Fatalf("TicketsAvailable: %v", err)
		}
		if avail != 50 {
			t.Fatalf("availability = %d, want 50 after cancellation", avail)
		}
		// The freed seat can be booked again.
		if _, err := repo.Create(ctx, userID, []TicketRequest{
			{SessionID: sessionID, Row: 1, Seat: 1},
		}); err != nil {
			t.Fatalf("rebooking freed seat: %v", err)
		}
	})
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
