package model

import "testing"

func TestValidateRowSeat(t *testing.T) {
	dome := Dome{Name: "Orion", Rows: 5, SeatsInRow: 10}

	t.Run("valid coordinate returns nil", func(t *testing.T) {
		if errs := ValidateRowSeat(3, 7, dome); errs != nil {
			t.Fatalf("expected nil, got %v", errs)
		}
	})

	t.Run("boundary values are valid", func(t *testing.T) {
		for _, c := range [][2]int64{{1, 1}, {1, 10}, {5, 1}, {5, 10}} {
			if errs := ValidateRowSeat(c[0], c[1], dome); errs != nil {
				t.Fatalf("(%d, %d) should be valid, got %v", c[0], c[1], errs)
			}
		}
	})

	t.Run("row above range", func(t *testing.T) {
		errs := ValidateRowSeat(6, 7, dome)
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
		}
		if errs[0].Field != "row" {
			t.Errorf("field = %q, want %q", errs[0].Field, "row")
		}
		want := "row number must be in available range: (1, rows): (1, 5)"
		if errs[0].Message != want {
			t.Errorf("message = %q, want %q", errs[0].Message, want)
		}
	})

	t.Run("seat above range", func(t *testing.T) {
		errs := ValidateRowSeat(3, 11, dome)
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
		}
		if errs[0].Field != "seat" {
			t.Errorf("field = %q, want %q", errs[0].Field, "seat")
		}
		want := "seat number must be in available range: (1, seats_in_row): (1, 10)"
		if errs[0].Message != want {
			t.Errorf("message = %q, want %q", errs[0].Message, want)
		}
	})

	t.Run("zero and negative values are out of range", func(t *testing.T) {
		for _, c := range [][2]int64{{0, 5}, {-1, 5}, {3, 0}, {3, -2}} {
			if errs := ValidateRowSeat(c[0], c[1], dome); errs == nil {
				t.Errorf("(%d, %d) should be invalid", c[0], c[1])
			}
		}
	})

	t.Run("both fields collected in one pass", func(t *testing.T) {
		errs := ValidateRowSeat(9, 99, dome)
		if len(errs) != 2 {
			t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
		}
		if errs[0].Field != "row" || errs[1].Field != "seat" {
			t.Errorf("fields = %q, %q; want row, seat", errs[0].Field, errs[1].Field)
		}
	})
}

func TestDomeCapacity(t *testing.T) {
	d := Dome{Rows: 20, SeatsInRow: 15}
	if got := d.Capacity(); got != 300 {
		t.Fatalf("Capacity() = %d, want 300", got)
	}
}
