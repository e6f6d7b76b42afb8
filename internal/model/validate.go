package model

import (
	"fmt"
	"strings"
)

// FieldError describes a single out-of-range coordinate.  Field names
// the offending request field ("row" or "seat") and Message carries
// the client-facing text including the valid range.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every failed field of one seat coordinate
// check.  Both row and seat are always checked so a client sees the
// full picture in a single response.
type ValidationErrors []FieldError

// Error joins all field errors into one string.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// ValidateRowSeat checks that a (row, seat) coordinate lies inside the
// dome's seating grid.  Each value must fall in the closed interval
// [1, dimension].  The check is pure and has no knowledge of the
// persistence or HTTP layers, so it can run both before insert
// attempts and during request validation.  It returns nil when the
// coordinate is valid.
func ValidateRowSeat(row, seat int64, dome Dome) ValidationErrors {
	var errs ValidationErrors
	for _, check := range []struct {
		value     int64
		field     string
		dimension string
		limit     uint32
	}{
		{row, "row", "rows", dome.Rows},
		{seat, "seat", "seats_in_row", dome.SeatsInRow},
	} {
		if check.value < 1 || check.value > int64(check.limit) {
			errs = append(errs, FieldError{
				Field: check.field,
				Message: fmt.Sprintf(
					"%s number must be in available range: (1, %s): (1, %d)",
					check.field, check.dimension, check.limit,
				),
			})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
