package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/residence-booking-backend/internal/auth"
	"github.com/nekogravitycat/residence-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/residence-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/residence-booking-backend/internal/notification"
	notifHttp "github.com/nekogravitycat/residence-booking-backend/internal/notification/http"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/metrics"
	"github.com/nekogravitycat/residence-booking-backend/internal/resource"
	resHttp "github.com/nekogravitycat/residence-booking-backend/internal/resource/http"
	"github.com/nekogravitycat/residence-booking-backend/internal/settings"
	settingsHttp "github.com/nekogravitycat/residence-booking-backend/internal/settings/http"
	"github.com/nekogravitycat/residence-booking-backend/internal/user"
	userHttp "github.com/nekogravitycat/residence-booking-backend/internal/user/http"
)

// Config carries the services the router exposes.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService         user.Service
	SettingsService     settings.Service
	ResourceService     resource.Service
	BookingService      booking.Service
	NotificationService notification.Service
	JWTManager          *auth.JWTManager

	// Metrics is optional; nil disables the middleware and the scrape endpoint.
	Metrics     *metrics.Metrics
	MetricsPath string
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
		r.GET(cfg.MetricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins(cfg)
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated user is an admin.
	adminMiddleware := RequireAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	settingsHandler := settingsHttp.NewHandler(cfg.SettingsService)
	resHandler := resHttp.NewHandler(cfg.ResourceService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	notifHandler := notifHttp.NewHandler(cfg.NotificationService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		settingsHttp.RegisterRoutes(v1, settingsHandler, authMiddleware, adminMiddleware)
		resHttp.RegisterRoutes(v1, resHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		notifHttp.RegisterRoutes(v1, notifHandler, authMiddleware, adminMiddleware)
	}

	return r
}

func allowedOrigins(cfg Config) []string {
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		var origins []string
		for _, o := range strings.Split(cfg.ProdOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		return origins
	}
	return []string{
		"http://localhost:3000",
		"http://localhost:8081", // Swagger
	}
}
