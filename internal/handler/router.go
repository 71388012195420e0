package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"reservation-engine/internal/handler/api"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	reservationHandler *api.ReservationHandler,
	availabilityHandler *api.AvailabilityHandler,
	resourceHandler *api.ResourceHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, reservationHandler, availabilityHandler, resourceHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	reservationHandler *api.ReservationHandler,
	availabilityHandler *api.AvailabilityHandler,
	resourceHandler *api.ResourceHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	reservations := engine.Group("/reservations")
	reservations.Use(authMiddleware.RequireAPIKey())
	{
		addRoutes(reservations, []route{
			{Method: http.MethodPost, Path: "", Handler: reservationHandler.Create},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: reservationHandler.Cancel},
			{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.Get},
		})
	}

	availability := engine.Group("/availability")
	{
		addRoutes(availability, []route{
			{Method: http.MethodGet, Path: "/:resourceId", Handler: availabilityHandler.Get},
			{Method: http.MethodGet, Path: "/cache/stats", Handler: availabilityHandler.Stats},
		})

		adminCache := availability.Group("/cache")
		adminCache.Use(authMiddleware.RequireAdminKey())
		addRoutes(adminCache, []route{
			{Method: http.MethodDelete, Path: "", Handler: availabilityHandler.InvalidateAll},
			{Method: http.MethodDelete, Path: "/:resourceId", Handler: availabilityHandler.Invalidate},
		})
	}

	resources := engine.Group("/resources")
	{
		addRoutes(resources, []route{
			{Method: http.MethodGet, Path: "/:resourceId", Handler: resourceHandler.Get},
		})

		adminResources := resources.Group("")
		adminResources.Use(authMiddleware.RequireAdminKey())
		addRoutes(adminResources, []route{
			{Method: http.MethodPost, Path: "", Handler: resourceHandler.Create},
			{Method: http.MethodPost, Path: "/:resourceId/open", Handler: resourceHandler.Open},
			{Method: http.MethodPost, Path: "/:resourceId/close", Handler: resourceHandler.Close},
		})
	}

	maintenance := engine.Group("/maintenance")
	{
		addRoutes(maintenance, []route{
			{Method: http.MethodGet, Path: "", Handler: resourceHandler.GetMaintenance},
		})

		adminMaintenance := maintenance.Group("")
		adminMaintenance.Use(authMiddleware.RequireAdminKey())
		addRoutes(adminMaintenance, []route{
			{Method: http.MethodPut, Path: "", Handler: resourceHandler.SetMaintenance},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
