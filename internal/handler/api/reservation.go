package api

import (
	"errors"
	"net/http"

	"reservation-engine/internal/domain/reservation"
	reqdto "reservation-engine/internal/handler/dto/request"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	commit  usecase.CommitService
	cancel  usecase.CancelService
	queries usecase.ReservationQueries
}

func NewReservationHandler(
	commit usecase.CommitService,
	cancel usecase.CancelService,
	queries usecase.ReservationQueries,
) *ReservationHandler {
	return &ReservationHandler{
		commit:  commit,
		cancel:  cancel,
		queries: queries,
	}
}

// @Summary Commit reservation
// @Description Atomically validate capacity and persist a reservation decision
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} resdto.RejectionResponse
// @Failure 503 {object} resdto.MaintenanceRejectionResponse
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidInput, "Invalid request format", nil)
		return
	}

	resourceID, clientID, quantity, err := req.ToDomain()
	if err != nil {
		code := httperr.CodeInvalidInput
		if errors.Is(err, reservation.ErrInvalidQuantity) {
			code = httperr.CodeInvalidQuantity
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, code, err.Error(), nil)
		return
	}

	result, err := h.commit.Commit(c.Request.Context(), resourceID, clientID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrResourceNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err,
				httperr.CodeResourceNotFound, "Resource not found", nil)
		case errors.Is(err, usecase.ErrMaintenanceMode):
			// Maintenance turns commits away before anything is written;
			// the payload is rejection-shaped, not an error envelope.
			c.JSON(http.StatusServiceUnavailable, resdto.FromMaintenanceRejection())
		case errors.Is(err, usecase.ErrConcurrencyConflict), errors.Is(err, usecase.ErrStoreTimeout):
			httperr.AbortWithError(c, http.StatusConflict, err,
				httperr.CodeConcurrencyConflict, "Commit conflicted, retry", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err,
				httperr.CodeInternal, "Internal server error", nil)
		}
		return
	}

	if !result.Confirmed {
		// A rejection is a persisted decision, not a fault: 409 with the
		// recorded reason instead of an error envelope.
		c.JSON(http.StatusConflict, resdto.FromRejection(result))
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservation(result.Reservation))
}

// @Summary Cancel reservation
// @Description Cancel a confirmed reservation and release its capacity
// @Tags reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.CancelResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, err := parseReservationID(c)
	if err != nil {
		return
	}

	result, err := h.cancel.Cancel(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err,
				httperr.CodeReservationNotFound, "Reservation not found", nil)
		case errors.Is(err, usecase.ErrInvalidState):
			httperr.AbortWithError(c, http.StatusConflict, err,
				httperr.CodeInvalidState, "Reservation is not in a cancellable state", nil)
		case errors.Is(err, usecase.ErrConcurrencyConflict), errors.Is(err, usecase.ErrStoreTimeout):
			httperr.AbortWithError(c, http.StatusConflict, err,
				httperr.CodeConcurrencyConflict, "Cancel conflicted, retry", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err,
				httperr.CodeInternal, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCancel(result))
}

// @Summary Get reservation
// @Description Get a reservation decision record by ID
// @Tags reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	id, err := parseReservationID(c)
	if err != nil {
		return
	}

	rsv, err := h.queries.GetReservation(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err,
				httperr.CodeReservationNotFound, "Reservation not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err,
				httperr.CodeInternal, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservation(rsv))
}

func parseReservationID(c *gin.Context) (reservation.ID, error) {
	id, err := reservation.ParseID(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidInput, "Invalid reservation ID format", nil)
		return id, err
	}
	return id, nil
}
