package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nekogravitycat/residence-booking-backend/internal/api"
	"github.com/nekogravitycat/residence-booking-backend/internal/auth"
	"github.com/nekogravitycat/residence-booking-backend/internal/booking"
	"github.com/nekogravitycat/residence-booking-backend/internal/config"
	"github.com/nekogravitycat/residence-booking-backend/internal/db"
	"github.com/nekogravitycat/residence-booking-backend/internal/notification"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/eventbus"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/metrics"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/storage"
	"github.com/nekogravitycat/residence-booking-backend/internal/resource"
	"github.com/nekogravitycat/residence-booking-backend/internal/settings"
	"github.com/nekogravitycat/residence-booking-backend/internal/user"
)

// Deps holds the external clients the application is built on.
// Redis and Publisher are optional.
type Deps struct {
	DBPool    *pgxpool.Pool
	Redis     *redis.Client
	Publisher eventbus.Publisher
	Logger    *logger.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg *config.Config, deps Deps) (*Container, error) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)
	clk := clock.New(cfg.Location)
	txManager := db.NewTxManager(deps.DBPool)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New("residence_booking")
	}

	fileStore, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	// User Module
	userRepo := user.NewPgxRepository(deps.DBPool)
	userService := user.NewService(userRepo, passwordHasher, cfg.AdminSecretCode, log)

	// Settings Module
	seed, err := settings.LoadSeedFile(cfg.SettingsSeedFile)
	if err != nil {
		return nil, err
	}
	settingsRepo := settings.NewPgxRepository(deps.DBPool)
	if deps.Redis != nil {
		settingsRepo = settings.NewCachedRepository(settingsRepo, deps.Redis, cfg.SettingsCacheTTL, log)
	}
	settingsService := settings.NewService(settingsRepo, txManager, seed, log)

	// Notification Module
	notifRepo := notification.NewPgxRepository(deps.DBPool)
	notifService := notification.NewService(notifRepo, log)

	// Resource Module
	resRepo := resource.NewPgxRepository(deps.DBPool)
	resService := resource.NewService(resRepo, settingsService, notifService, fileStore, log)

	// Booking Module
	var bookingTx db.TxManager = db.NoopTxManager{}
	if cfg.BookingSerializable {
		bookingTx = txManager
	}
	bookingRepo := booking.NewPgxRepository(deps.DBPool)
	bookingService := booking.NewService(
		bookingRepo, resService, settingsService, clk, bookingTx, deps.Publisher, m, log,
	)

	// API Router Config
	routerParams := api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		SettingsService:     settingsService,
		ResourceService:     resService,
		BookingService:      bookingService,
		NotificationService: notifService,
		JWTManager:          jwtManager,
		Metrics:             m,
		MetricsPath:         cfg.MetricsPath,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		BookingService: bookingService,
	}, nil
}
