package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BastovOleksandr/planetarium-service/internal/model"
)

func TestDomeRepo(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewDomeRepo(db)

	d := &Dome{Name: "Andromeda", Rows: 10, SeatsInRow: 12}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.ID == 0 {
		t.Fatal("Create did not populate ID")
	}
	if d.Capacity != 120 {
		t.Fatalf("capacity = %d, want 120", d.Capacity)
	}

	t.Run("grow is always allowed", func(t *testing.T) {
		rows := uint32(12)
		updated, err := repo.Update(ctx, d.ID, nil, &rows, nil)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if updated.Rows != 12 || updated.Capacity != 144 {
			t.Fatalf("unexpected dome after grow: %+v", updated)
		}
	})

	t.Run("shrink refused while sessions exist", func(t *testing.T) {
		themeRepo := NewThemeRepo(db)
		theme := model.Theme{Name: "Nebulae"}
		if err := themeRepo.Create(ctx, &theme); err != nil {
			t.Fatalf("seed theme: %v", err)
		}
		showRepo := NewShowRepo(db)
		show := &model.Show{Title: "Stellar Nurseries", Description: "Where stars are born."}
		if err := showRepo.Create(ctx, show, []uint64{theme.ID}); err != nil {
			t.Fatalf("seed show: %v", err)
		}
		sessionRepo := NewSessionRepo(db)
		s := &model.Session{ShowID: show.ID, DomeID: d.ID, ShowTime: time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)}
		if err := sessionRepo.Create(ctx, s); err != nil {
			t.Fatalf("seed session: %v", err)
		}

		small := uint32(3)
		if _, err := repo.Update(ctx, d.ID, nil, &small, nil); !errors.Is(err, ErrDomeInUse) {
			t.Fatalf("err = %v, want ErrDomeInUse", err)
		}
		// Growing the grid is still fine.
		big := uint32(20)
		if _, err := repo.Update(ctx, d.ID, nil, &big, nil); err != nil {
			t.Fatalf("grow with sessions: %v", err)
		}
	})

	t.Run("missing dome", func(t *testing.T) {
		if _, err := repo.GetByID(ctx, d.ID+999); !errors.Is(err, ErrDomeNotFound) {
			t.Fatalf("err = %v, want ErrDomeNotFound", err)
		}
	})
}

func TestThemeRepo(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewThemeRepo(db)

	for _, name := range []string{"black holes", "Astronauts", "Comets"} {
		theme := model.Theme{Name: name}
		if err := repo.Create(ctx, &theme); err != nil {
			t.Fatalf("Create %q: %v", name, err)
		}
	}

	t.Run("duplicate name rejected", func(t *testing.T) {
		theme := model.Theme{Name: "Comets"}
		if err := repo.Create(ctx, &theme); !errors.Is(err, ErrThemeExists) {
			t.Fatalf("err = %v, want ErrThemeExists", err)
		}
	})

	t.Run("list is case-insensitively ordered", func(t *testing.T) {
		themes, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		got := make([]string, 0, len(themes))
		for _, th := range themes {
			got = append(got, th.Name)
		}
		want := []string{"Astronauts", "black holes", "Comets"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order = %v, want %v", got, want)
			}
		}
	})
}

func TestShowRepo(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewShowRepo(db)
	themeRepo := NewThemeRepo(db)

	space := model.Theme{Name: "Deep Space"}
	kids := model.Theme{Name: "For Kids"}
	for _, th := range []*model.Theme{&space, &kids} {
		if err := themeRepo.Create(ctx, th); err != nil {
			t.Fatalf("seed theme: %v", err)
		}
	}

	edge := &model.Show{Title: "Edge of the Universe", Description: "The cosmic horizon."}
	if err := repo.Create(ctx, edge, []uint64{space.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rockets := &model.Show{Title: "Rockets for Beginners", Description: "Liftoff basics."}
	if err := repo.Create(ctx, rockets, []uint64{space.ID, kids.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	t.Run("unknown theme rejected", func(t *testing.T) {
		s := &model.Show{Title: "Ghost Show", Description: "Should not exist."}
		if err := repo.Create(ctx, s, []uint64{kids.ID + 999}); !errors.Is(err, ErrThemeNotFound) {
			t.Fatalf("err = %v, want ErrThemeNotFound", err)
		}
	})

	t.Run("detail resolves themes", func(t *testing.T) {
		detail, err := repo.GetDetail(ctx, rockets.ID)
		if err != nil {
			t.Fatalf("GetDetail: %v", err)
		}
		if len(detail.Themes) != 2 {
			t.Fatalf("themes = %d, want 2", len(detail.Themes))
		}
	})

	t.Run("filter by title substring", func(t *testing.T) {
		shows, err := repo.List(ctx, ShowFilter{Title: "universe"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(shows) != 1 || shows[0].ID != edge.ID {
			t.Fatalf("unexpected result: %+v", shows)
		}
	})

	t.Run("filter by theme", func(t *testing.T) {
		shows, err := repo.List(ctx, ShowFilter{ThemeIDs: []uint64{kids.ID}})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(shows) != 1 || shows[0].ID != rockets.ID {
			t.Fatalf("unexpected result: %+v", shows)
		}
	})

	t.Run("set image returns previous path", func(t *testing.T) {
		prev, err := repo.SetImage(ctx, edge.ID, "uploads/astronomy_shows/edge-1.jpg")
		if err != nil {
			t.Fatalf("SetImage: %v", err)
		}
		if prev != nil {
			t.Fatalf("previous = %v, want nil on first upload", *prev)
		}
		prev, err = repo.SetImage(ctx, edge.ID, "uploads/astronomy_shows/edge-2.jpg")
		if err != nil {
			t.Fatalf("SetImage: %v", err)
		}
		if prev == nil || *prev != "uploads/astronomy_shows/edge-1.jpg" {
			t.Fatalf("previous = %v, want the first path", prev)
		}
	})

	t.Run("replacing themes", func(t *testing.T) {
		themes := []uint64{kids.ID}
		if err := repo.Update(ctx, edge.ID, nil, nil, &themes); err != nil {
			t.Fatalf("Update: %v", err)
		}
		detail, err := repo.GetDetail(ctx, edge.ID)
		if err != nil {
			t.Fatalf("GetDetail: %v", err)
		}
		if len(detail.Themes) != 1 || detail.Themes[0].ID != kids.ID {
			t.Fatalf("themes not replaced: %+v", detail.Themes)
		}
	})
}

func TestSessionRepo(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID, sessionID, dome := seedSession(t, db, 4, 5)
	sessions := NewSessionRepo(db)
	reservations := NewReservationRepo(db)

	if _, err := reservations.Create(ctx, userID, []TicketRequest{
		{SessionID: sessionID, Row: 2, Seat: 1},
		{SessionID: sessionID, Row: 1, Seat: 3},
	}); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	t.Run("list carries availability", func(t *testing.T) {
		rows, err := sessions.List(ctx, SessionFilter{DomeID: dome.ID})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("sessions = %d, want 1", len(rows))
		}
		if rows[0].DomeCapacity != 20 {
			t.Errorf("capacity = %d, want 20", rows[0].DomeCapacity)
		}
		if rows[0].TicketsAvailable != 18 {
			t.Errorf("tickets_available = %d, want 18", rows[0].TicketsAvailable)
		}
	})

	t.Run("date filter", func(t *testing.T) {
		rows, err := sessions.List(ctx, SessionFilter{Date: "2026-09-12"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("sessions = %d, want 1", len(rows))
		}
		rows, err = sessions.List(ctx, SessionFilter{Date: "2026-09-13"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(rows) != 0 {
			t.Fatalf("sessions = %d, want 0 on the wrong date", len(rows))
		}
	})

	t.Run("detail lists taken places in order", func(t *testing.T) {
		detail, err := sessions.GetDetail(ctx, sessionID)
		if err != nil {
			t.Fatalf("GetDetail: %v", err)
		}
		if len(detail.TakenPlaces) != 2 {
			t.Fatalf("taken places = %d, want 2", len(detail.TakenPlaces))
		}
		if detail.TakenPlaces[0].Row != 1 || detail.TakenPlaces[1].Row != 2 {
			t.Fatalf("unexpected order: %+v", detail.TakenPlaces)
		}
		if detail.Dome.Capacity != 20 {
			t.Errorf("dome capacity = %d, want 20", detail.Dome.Capacity)
		}
	})

	t.Run("dangling show rejected", func(t *testing.T) {
		s := &model.Session{ShowID: 999999, DomeID: dome.ID, ShowTime: time.Now().UTC()}
		if err := sessions.Create(ctx, s); !errors.Is(err, ErrShowNotFound) {
			t.Fatalf("err = %v, want ErrShowNotFound", err)
		}
	})
}
