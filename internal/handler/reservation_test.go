package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"

	"github.com/BastovOleksandr/planetarium-service/internal/repository"
)

// lazyDB returns a *sql.DB that never connects.  The handler paths
// under test must reject the request before any query is issued.
func lazyDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("mysql", "nobody@tcp(127.0.0.1:1)/none")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newReservationHandler(t *testing.T) *ReservationHandler {
	db := lazyDB(t)
	return NewReservationHandler(repository.NewReservationRepo(db), repository.NewSessionRepo(db))
}

func postReservation(t *testing.T, h *ReservationHandler, body string, userID any) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	if err := h.CreateReservation(c); err != nil {
		t.Fatalf("CreateReservation returned error: %v", err)
	}
	return rec
}

func TestCreateReservationRequestValidation(t *testing.T) {
	h := newReservationHandler(t)

	t.Run("missing identity yields 401", func(t *testing.T) {
		rec := postReservation(t, h, `{"tickets":[{"show_session":1,"row":1,"seat":1}]}`, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("empty batch rejected before the database", func(t *testing.T) {
		rec := postReservation(t, h, `{"tickets":[]}`, uint64(7))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "at least one") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("missing tickets key rejected", func(t *testing.T) {
		rec := postReservation(t, h, `{}`, uint64(7))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		rec := postReservation(t, h, `{"tickets": "nope"}`, uint64(7))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}
