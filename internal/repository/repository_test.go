package repository

// Integration tests for the repositories. They need a throwaway MySQL
// database reachable via the PLANETARIUM_TEST_DSN environment
// variable, e.g.
//
//	PLANETARIUM_TEST_DSN="root@tcp(localhost:3306)/planetarium_test"
//
// Every table the tests touch is truncated between runs, so never
// point the DSN at a database holding real data. Without the variable
// the tests skip.

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/BastovOleksandr/planetarium-service/internal/database"
	"github.com/BastovOleksandr/planetarium-service/internal/model"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("PLANETARIUM_TEST_DSN")
	if dsn == "" {
		t.Skip("PLANETARIUM_TEST_DSN not set; skipping database integration tests")
	}
	if !strings.Contains(dsn, "parseTime") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "parseTime=true&loc=UTC"
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		t.Skipf("test database unreachable: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("migrate test database: %v", err)
	}
	cleanTables(t, db)
	t.Cleanup(func() { db.Close() })
	return db
}

func cleanTables(t *testing.T, db *sql.DB) {
	t.Helper()
	// Child tables first so foreign keys never block the delete.
	for _, table := range []string{
		"tickets", "reservations", "show_sessions", "show_theme_links",
		"astronomy_shows", "show_themes", "domes", "refresh_tokens", "users",
	} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("clean table %s: %v", table, err)
		}
	}
}

// seedSession creates a user, dome, theme, show, and one session, and
// returns the IDs needed by reservation tests.
func seedSession(t *testing.T, db *sql.DB, rows, seatsInRow uint32) (userID, sessionID uint64, dome model.Dome) {
	t.Helper()
	ctx := context.Background()

	res, err := db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, role) VALUES (?, ?, 'CUSTOMER')`,
		"stargazer@example.com", "x")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	uid, _ := res.LastInsertId()

	domeRepo := NewDomeRepo(db)
	d := &Dome{Name: "Test Dome", Rows: rows, SeatsInRow: seatsInRow}
	if err := domeRepo.Create(ctx, d); err != nil {
		t.Fatalf("seed dome: %v", err)
	}

	themeRepo := NewThemeRepo(db)
	theme := model.Theme{Name: "Deep Space"}
	if err := themeRepo.Create(ctx, &theme); err != nil {
		t.Fatalf("seed theme: %v", err)
	}

	showRepo := NewShowRepo(db)
	show := &model.Show{Title: "Edge of the Universe", Description: "A journey to the cosmic horizon."}
	if err := showRepo.Create(ctx, show, []uint64{theme.ID}); err != nil {
		t.Fatalf("seed show: %v", err)
	}

	sessionRepo := NewSessionRepo(db)
	s := &model.Session{ShowID: show.ID, DomeID: d.ID, ShowTime: time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)}
	if err := sessionRepo.Create(ctx, s); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	return uint64(uid), s.ID, model.Dome{ID: d.ID, Name: d.Name, Rows: rows, SeatsInRow: seatsInRow}
}
