package api

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"time"

	"reservation-engine/internal/domain/resource"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/usecase"
	"reservation-engine/internal/usecase/readmodel"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	queries  usecase.AvailabilityQueries
	cacheTTL time.Duration
}

func NewAvailabilityHandler(queries usecase.AvailabilityQueries, cacheTTL time.Duration) *AvailabilityHandler {
	return &AvailabilityHandler{
		queries:  queries,
		cacheTTL: cacheTTL,
	}
}

// @Summary Get availability
// @Description Get the cached availability snapshot for a resource
// @Tags availability
// @Produce json
// @Param resourceId path string true "Resource ID"
// @Success 200 {object} resdto.AvailabilityResponse
// @Success 304 "Snapshot unchanged"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /availability/{resourceId} [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	id, err := resource.NewID(c.Param("resourceId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidInput, "Invalid resource ID", nil)
		return
	}

	view, err := h.queries.Availability(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrResourceNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err,
				httperr.CodeResourceNotFound, "Resource not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err,
				httperr.CodeInternal, "Internal server error", nil)
		}
		return
	}

	etag := availabilityETag(view)
	ttlSec := int(h.cacheTTL.Seconds())
	c.Header("ETag", etag)
	c.Header("Cache-Control",
		fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", ttlSec, 2*ttlSec))

	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Cache statistics
// @Description Hit/miss counters and sizing of the availability cache
// @Tags availability
// @Produce json
// @Success 200 {object} resdto.CacheStatsResponse
// @Router /availability/cache/stats [get]
func (h *AvailabilityHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, resdto.FromCacheStats(h.queries.CacheStats()))
}

// @Summary Invalidate cache entry
// @Description Drop the cached availability snapshot for one resource
// @Tags availability
// @Param resourceId path string true "Resource ID"
// @Success 204 "Entry dropped"
// @Failure 400 {object} httperr.Response
// @Router /availability/cache/{resourceId} [delete]
func (h *AvailabilityHandler) Invalidate(c *gin.Context) {
	id, err := resource.NewID(c.Param("resourceId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidInput, "Invalid resource ID", nil)
		return
	}
	h.queries.InvalidateCache(id)
	c.Status(http.StatusNoContent)
}

// @Summary Invalidate whole cache
// @Description Drop every cached availability snapshot and reset counters
// @Tags availability
// @Success 204 "Cache cleared"
// @Router /availability/cache [delete]
func (h *AvailabilityHandler) InvalidateAll(c *gin.Context) {
	h.queries.InvalidateAllCache()
	c.Status(http.StatusNoContent)
}

// availabilityETag hashes the fields a client can observe change. CachedAt is
// deliberately excluded so a reload of identical data revalidates as a 304.
func availabilityETag(view *readmodel.AvailabilityView) string {
	hash := fnv.New64a()
	fmt.Fprintf(hash, "%s|%s|%s|%d|%d",
		view.ResourceID, view.State, view.Type, view.Capacity, view.CurrentBookings)
	return fmt.Sprintf("%q", fmt.Sprintf("%016x", hash.Sum64()))
}
