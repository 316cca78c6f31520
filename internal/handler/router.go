package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tour-booking/internal/domain/user"
	"tour-booking/internal/handler/api"
	"tour-booking/internal/handler/dto/request"
	"tour-booking/internal/handler/middleware"
	"tour-booking/internal/pkg/config"
	"tour-booking/internal/pkg/errs"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth    *api.AuthHandler
	Booking *api.BookingHandler
	Health  *api.HealthHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, authHandler *api.AuthHandler, bookingHandler *api.BookingHandler, healthHandler *api.HealthHandler, authMiddleware *middleware.AuthMiddleware) error {
	if err := registerValidators(); err != nil {
		return err
	}
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, Handlers{Auth: authHandler, Booking: bookingHandler, Health: healthHandler}, authMiddleware)
	return nil
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errs.New("unexpected binding validator engine")
	}
	return errs.Wrap(request.RegisterValidators(v), "register request validators")
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", h.Health.Live)
	engine.GET("/health/ready", h.Health.Ready)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		auth.Use(authMiddleware.RequireAuth())
		{
			addRoutes(auth, []route{
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.Create},
				{Method: http.MethodGet, Path: "/my-bookings", Handler: h.Booking.ListMine},
				{Method: http.MethodGet, Path: "/code/:code", Handler: h.Booking.GetByCode},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
				{Method: http.MethodPut, Path: "/:id", Handler: h.Booking.Update},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Booking.Delete},
				{Method: http.MethodPost, Path: "/:id/payment", Handler: h.Booking.AddPayment},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.Cancel},
			})

			// Staff may read; status and payment changes are further restricted
			// to admins by the use cases.
			admin := bookings.Group("/admin")
			admin.Use(authMiddleware.RequireRoleAtLeast(user.RoleStaff))
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/all", Handler: h.Booking.ListAll},
				{Method: http.MethodGet, Path: "/statistics", Handler: h.Booking.Statistics},
				{Method: http.MethodGet, Path: "/tour/:tourId", Handler: h.Booking.ListByTour},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: h.Booking.UpdateStatus},
				{Method: http.MethodPost, Path: "/:id/payment", Handler: h.Booking.AddPayment,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleAdmin)}},
			})
		}
	}
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
