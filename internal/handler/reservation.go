package handler // customer-facing reservation endpoints

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/BastovOleksandr/planetarium-service/internal/queue"
	"github.com/BastovOleksandr/planetarium-service/internal/repository"
	queuepublisher "github.com/BastovOleksandr/planetarium-service/internal/service"
	"github.com/labstack/echo/v4"
)

// ReservationHandler serves reservation creation, listing, and
// cancellation for the authenticated user.
type ReservationHandler struct {
	ReservationRepo *repository.ReservationRepo
	SessionRepo     *repository.SessionRepo
}

// NewReservationHandler constructs a ReservationHandler and panics if
// any dependency is nil.
func NewReservationHandler(reservationRepo *repository.ReservationRepo, sessionRepo *repository.SessionRepo) *ReservationHandler {
	if reservationRepo == nil || sessionRepo == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{ReservationRepo: reservationRepo, SessionRepo: sessionRepo}
}

// CreateReservation handles POST /v1/reservations.  The body carries a
// batch of seat requests that succeed or fail as one unit:
//
//	{"tickets": [{"show_session": 1, "row": 3, "seat": 7}, ...]}
//
// Coordinate range failures come back as 400 with per-ticket errors; a
// seat already sold comes back as 409 naming the losing coordinate.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	var body struct {
		Tickets []repository.TicketRequest `json:"tickets"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Tickets) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tickets must contain at least one entry"})
	}

	created, err := h.ReservationRepo.Create(c.Request().Context(), userID, body.Tickets)
	if err != nil {
		var batchErr *repository.BatchValidationError
		var seatErr *repository.SeatTakenError
		switch {
		case errors.Is(err, repository.ErrEmptyBatch):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tickets must contain at least one entry"})
		case errors.As(err, &batchErr):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":   "invalid ticket batch",
				"tickets": batchErr.Tickets,
			})
		case errors.As(err, &seatErr):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":        seatErr.Error(),
				"show_session": seatErr.SessionID,
				"row":          seatErr.Row,
				"seat":         seatErr.Seat,
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create reservation"})
		}
	}

	go publishReservationCreated(userID, created)

	return c.JSON(http.StatusCreated, created)
}

// publishReservationCreated emits the broker event for a committed
// reservation.  Failures are logged inside the publisher and never
// affect the HTTP response.
func publishReservationCreated(userID uint64, created *repository.CreatedReservation) {
	ev := queue.ReservationCreatedEvent{
		ReservationID: created.ID,
		UserID:        userID,
		CreatedAt:     created.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, t := range created.Tickets {
		ev.Tickets = append(ev.Tickets, queue.EventTicket{
			ShowSessionID: t.SessionID,
			Row:           t.Row,
			Seat:          t.Seat,
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queuepublisher.PublishReservationCreated(ctx, ev)
}

// ListReservations handles GET /v1/reservations: the caller's
// reservations, newest first.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	details, err := h.ReservationRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list reservations"})
	}
	return c.JSON(http.StatusOK, details)
}

// GetReservation handles GET /v1/reservations/:id.  Another user's
// reservation yields 403.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.ReservationRepo.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "reservation belongs to another user"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load reservation"})
		}
	}
	return c.JSON(http.StatusOK, detail)
}

// DeleteReservation handles DELETE /v1/reservations/:id.  Cancelling
// removes the tickets by cascade, which frees the seats for rebooking.
func (h *ReservationHandler) DeleteReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.ReservationRepo.DeleteForUser(c.Request().Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "reservation belongs to another user"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel reservation"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
