package api

import (
	"context"
	"errors"
	"net/http"

	"reservation-engine/internal/domain/event"
	"reservation-engine/internal/domain/resource"
	reqdto "reservation-engine/internal/handler/dto/request"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	commands    usecase.ResourceCommands
	maintenance usecase.MaintenanceCommands
}

func NewResourceHandler(commands usecase.ResourceCommands, maintenance usecase.MaintenanceCommands) *ResourceHandler {
	return &ResourceHandler{
		commands:    commands,
		maintenance: maintenance,
	}
}

// @Summary Create resource
// @Description Register a new capacity pool in OPEN state
// @Tags resources
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body reqdto.CreateResourceRequest true "Resource definition"
// @Success 201 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /resources [post]
func (h *ResourceHandler) Create(c *gin.Context) {
	var req reqdto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidInput, "Invalid request format", nil)
		return
	}

	id, err := resource.NewID(req.ResourceID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidInput, err.Error(), nil)
		return
	}

	res, _, err := h.commands.Create(c.Request.Context(), id, req.Type, req.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, resource.ErrEmptyType), errors.Is(err, resource.ErrNegativeCapacity):
			httperr.AbortWithError(c, http.StatusBadRequest, err,
				httperr.CodeInvalidInput, err.Error(), nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err,
				httperr.CodeInternal, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromResource(res))
}

// @Summary Get resource
// @Description Get a capacity pool, uncached
// @Tags resources
// @Produce json
// @Param resourceId path string true "Resource ID"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{resourceId} [get]
func (h *ResourceHandler) Get(c *gin.Context) {
	id, err := resource.NewID(c.Param("resourceId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidInput, "Invalid resource ID", nil)
		return
	}

	res, err := h.commands.Get(c.Request.Context(), id)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromResource(res))
}

// @Summary Open resource
// @Description Transition a resource to OPEN so commits are admitted again
// @Tags resources
// @Produce json
// @Security ApiKeyAuth
// @Param resourceId path string true "Resource ID"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /resources/{resourceId}/open [post]
func (h *ResourceHandler) Open(c *gin.Context) {
	h.transition(c, h.commands.Open)
}

// @Summary Close resource
// @Description Transition a resource to CLOSED; pending commits reject with RESOURCE_CLOSED
// @Tags resources
// @Produce json
// @Security ApiKeyAuth
// @Param resourceId path string true "Resource ID"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /resources/{resourceId}/close [post]
func (h *ResourceHandler) Close(c *gin.Context) {
	h.transition(c, h.commands.Close)
}

// @Summary Set maintenance mode
// @Description Toggle the global maintenance flag; active maintenance rejects all commits
// @Tags maintenance
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body reqdto.MaintenanceRequest true "Desired maintenance state"
// @Success 200 {object} resdto.MaintenanceResponse
// @Failure 400 {object} httperr.Response
// @Router /maintenance [put]
func (h *ResourceHandler) SetMaintenance(c *gin.Context) {
	var req reqdto.MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidInput, "Invalid request format", nil)
		return
	}

	if err := h.maintenance.SetMaintenance(c.Request.Context(), *req.Active); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeInternal, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.MaintenanceResponse{Active: *req.Active})
}

// @Summary Get maintenance mode
// @Description Read the global maintenance flag
// @Tags maintenance
// @Produce json
// @Success 200 {object} resdto.MaintenanceResponse
// @Router /maintenance [get]
func (h *ResourceHandler) GetMaintenance(c *gin.Context) {
	active, err := h.maintenance.MaintenanceActive(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeInternal, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.MaintenanceResponse{Active: active})
}

func (h *ResourceHandler) transition(
	c *gin.Context,
	apply func(ctx context.Context, id resource.ID) (*resource.Resource, event.Event, error),
) {
	id, err := resource.NewID(c.Param("resourceId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidInput, "Invalid resource ID", nil)
		return
	}

	res, _, err := apply(c.Request.Context(), id)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromResource(res))
}

func (h *ResourceHandler) respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrResourceNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err,
			httperr.CodeResourceNotFound, "Resource not found", nil)
	case errors.Is(err, usecase.ErrResourceStateUnchanged):
		httperr.AbortWithError(c, http.StatusConflict, err,
			httperr.CodeInvalidState, "Resource already in requested state", nil)
	case errors.Is(err, usecase.ErrConcurrencyConflict), errors.Is(err, usecase.ErrStoreTimeout):
		httperr.AbortWithError(c, http.StatusConflict, err,
			httperr.CodeConcurrencyConflict, "State change conflicted, retry", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeInternal, "Internal server error", nil)
	}
}
