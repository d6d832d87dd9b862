package handler

import (
	"cinema-wallet/internal/adapter/http/dto"
	"cinema-wallet/internal/core/ports"
	"cinema-wallet/pkg/apperror"
	"cinema-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReservationHandler exposes the reservation read model over HTTP.
type ReservationHandler struct {
	queries ports.ReservationQueries
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(queries ports.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{queries: queries}
}

// Get handles GET /api/v1/reservations/:id.
// The read model is eventually consistent: right after a reservation was
// requested this may legitimately return 404 until the events have folded.
func (h *ReservationHandler) Get(c *gin.Context) {
	reservation, err := h.queries.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	if reservation == nil {
		response.Error(c, apperror.ErrNotFound("reservation"))
		return
	}

	response.OK(c, dto.ReservationResponse{
		ReservationID: reservation.ReservationID,
		ShowID:        reservation.ShowID,
		WalletID:      reservation.WalletID,
		Amount:        reservation.Amount.String(),
	})
}
