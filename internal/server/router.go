package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookwithbea/internal/config"
	"bookwithbea/internal/database"
	"bookwithbea/internal/middleware"
	"bookwithbea/internal/modules/admin"
	"bookwithbea/internal/modules/booking"
	"bookwithbea/internal/modules/catalog"
	"bookwithbea/internal/modules/ledger"
	"bookwithbea/internal/modules/notification"
	"bookwithbea/internal/pkg/jwt"
	"bookwithbea/internal/pkg/response"
)

type Deps struct {
	Config     *config.Config
	Log        *zap.Logger
	DB         *gorm.DB
	Ledger     *ledger.Ledger
	Catalog    *catalog.Catalog
	Dispatcher *notification.Dispatcher
	Tokens     *jwt.Service
}

// NewRouter wires every HTTP module under /api.
func NewRouter(d Deps) *gin.Engine {
	if d.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(d.Log),
		middleware.AccessLog(d.Log),
		middleware.CORS(d.Config.CORSAllowedOrigins),
	)

	api := r.Group("/api")
	api.GET("/health", health(d.DB))

	adminAuth := []gin.HandlerFunc{
		middleware.JWTAuth(d.Tokens),
		middleware.RequireRole(admin.RoleAdmin),
	}
	bookingLimit := middleware.NewRateLimiter(d.Config.BookingRatePerMinute, d.Config.BookingRateBurst)
	loginLimit := middleware.NewRateLimiter(d.Config.BookingRatePerMinute, d.Config.BookingRateBurst)

	catalog.NewHandler(d.Catalog).RegisterRoutes(api)

	var notifier booking.Notifier
	if d.Dispatcher != nil {
		notifier = d.Dispatcher
	}
	bookingService := booking.NewService(d.Ledger, d.Catalog, notifier)
	booking.NewHandler(bookingService).RegisterRoutes(api, api.Group("", adminAuth...), bookingLimit.Middleware())

	adminService := admin.NewService(d.Ledger, d.Tokens, d.Config.AdminPasswordHash, d.Log)
	admin.NewHandler(adminService).RegisterRoutes(
		api.Group("/admin", loginLimit.Middleware()),
		api.Group("/admin", adminAuth...),
	)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})
	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Ping(db); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
