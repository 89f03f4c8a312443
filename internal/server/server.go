package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"

	"converge-backend/internal/cache"
	"converge-backend/internal/common"
	"converge-backend/internal/config"
	"converge-backend/internal/email"
	"converge-backend/internal/feedback"
	"converge-backend/internal/handlers"
	"converge-backend/internal/locations"
	"converge-backend/internal/store"
	"converge-backend/internal/validation"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	resend "github.com/resend/resend-go/v2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type SentryLogger struct {
	echo.Logger
}

func (l *SentryLogger) Error(i ...interface{}) {
	if len(i) > 0 {
		if err, ok := i[0].(error); ok {
			handlers.CaptureError(err)
		} else {
			handlers.CaptureError(errors.New(fmt.Sprint(i...)))
		}
	}
	l.Logger.Error(i...)
}

func (l *SentryLogger) Errorf(format string, args ...interface{}) {
	handlers.CaptureError(fmt.Errorf(format, args...))
	l.Logger.Errorf(format, args...)
}

type Server struct {
	common.ServerState
}

func New(cfg *config.Config) *Server {
	e := echo.New()
	v := validation.New()
	e.Validator = v
	e.Logger = &SentryLogger{Logger: e.Logger}
	e.Logger.SetLevel(log.DEBUG)

	return &Server{
		common.ServerState{
			Echo:      e,
			Config:    cfg,
			Validator: v,
		},
	}
}

func (s *Server) Initialize() error {
	// Initialize database
	if err := s.setupDatabase(); err != nil {
		return err
	}

	s.setupRedis()

	// Initialize JWT
	s.JwtIssuer = handlers.NewJwtAuth(s.Config.Auth.JWTSecret)

	// Initialize Resend email client
	s.setupEmailClient()

	// Setup routes
	s.setupRoutes()

	// Run Migrations
	if err := s.runMigrations(); err != nil {
		return err
	}

	s.setupMetrics()

	// Setup middleware -
	// Keep last to avoid Recover middleware and panic if something goes wrong on init
	s.setupMiddleware()

	return nil
}

func (s *Server) setupDatabase() error {
	dsn := s.Config.Database.DSN
	if dsn == "" {
		return errors.New("DATABASE_DSN environment variable is required")
	}

	var db *gorm.DB
	var err error

	// SQLite DSNs start with "file:"
	if strings.HasPrefix(dsn, "file:") {
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)})
	} else {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)})
	}

	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	s.DB = db
	s.Store = store.New(db)
	return nil
}

func (s *Server) setupRedis() {
	url := s.Config.Database.RedisURI

	// Redis is optional, the location listing is then always read from the database
	if url == "" {
		s.Echo.Logger.Warn("REDIS_URI not configured, location caching will be disabled")
		s.Redis = nil
		return
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		s.Echo.Logger.Warnf("Failed to parse Redis URL: %v, location caching will be disabled", err)
		s.Redis = nil
		return
	}

	s.Redis = redis.NewClient(opts)

	ctx := context.Background()
	result := s.Redis.Ping(ctx)
	if result.Err() != nil {
		s.Echo.Logger.Warnf("Redis connection failed: %v, location caching will be disabled", result.Err())
		s.Redis = nil
		return
	}
}

func (s *Server) runMigrations() error {
	if err := store.AutoMigrate(s.DB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s *Server) setupMiddleware() {
	s.Echo.Use(middleware.CORS())
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			id, err := uuid.NewV7()
			if err != nil {
				return uuid.NewString()
			}
			return id.String()
		},
	}))
	s.Echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s %d %s request_id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	// Try to add prometheus middleware, but don't panic if already registered (e.g., in tests)
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok && err.Error() == "duplicate metrics collector registration attempted" {
				s.Echo.Logger.Warn("Prometheus middleware already registered, skipping")
			} else {
				panic(r)
			}
		}
	}()
	s.Echo.Use(echoprometheus.NewMiddleware("converge_backend"))
}

func (s *Server) setupMetrics() {
	// Only register Redis metrics if Redis is available
	if s.Redis == nil {
		return
	}

	err := prometheus.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Subsystem: "redis",
			Name:      "connected_clients",
			Help:      "The number of clients currently connected to Redis",
		},
		func() float64 {
			ctx := context.Background()
			connectedClientsRaw := s.Redis.InfoMap(ctx).Item("Clients", "connected_clients")

			connectedClients, err := strconv.ParseFloat(connectedClientsRaw, 64)
			if err != nil {
				return math.NaN()
			}

			return connectedClients
		},
	))
	var already prometheus.AlreadyRegisteredError
	if err != nil && !errors.As(err, &already) {
		s.Echo.Logger.Warnf("Failed to register Redis metrics: %v", err)
	}
}

func (s *Server) setupEmailClient() {
	apiKey := s.Config.Resend.APIKey

	var resendClient *resend.Client
	if apiKey == "" {
		s.Echo.Logger.Warn("RESEND_API_KEY not configured, email notifications will fail")
	} else {
		resendClient = resend.NewClient(apiKey)
	}

	s.EmailClient = email.NewResendEmailClient(resendClient,
		s.Config.Resend.DefaultSender,
		s.Config.Resend.Timeout,
		s.Echo.Logger)
}

func (s *Server) setupRoutes() {
	handlers.SetupSentry(s.Echo, s.Config)

	locationCache := cache.NewLocationCache(s.Redis, s.Config.Cache.LocationTTL, s.Echo.Logger)
	locationService := locations.NewService(s.Store, locationCache, s.EmailClient, s.Validator, s.Echo.Logger)
	feedbackService := feedback.NewService(s.Store, s.Store, s.Store, s.Store, s.Echo.Logger)

	// Initialize handlers
	auth := handlers.NewAuthHandler(s.Store, s.Config, s.JwtIssuer)
	gate := handlers.NewGate(s.JwtIssuer, s.Store)
	locationHandler := handlers.NewLocationHandler(gate, locationService)
	feedbackHandler := handlers.NewFeedbackHandler(gate, feedbackService)

	// API routes group
	api := s.Echo.Group("/api")

	// Public API endpoints
	api.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	api.GET("/metrics", echoprometheus.NewHandler())
	api.POST("/sign-in", auth.ManualSignIn)
	api.GET("/locations", locationHandler.ListLocations)
	api.GET("/locations/:id/rooms", locationHandler.ListRooms)

	// Protected API routes group
	protectedAPI := api.Group("/auth", s.JwtIssuer.Middleware())

	protectedAPI.GET("/user", auth.User)

	protectedAPI.POST("/locations", locationHandler.CreateLocation)
	protectedAPI.GET("/locations/:id", locationHandler.GetLocation)
	protectedAPI.PATCH("/locations/:id", locationHandler.UpdateLocation)
	protectedAPI.DELETE("/locations/:id", locationHandler.DeleteLocation)

	protectedAPI.POST("/rooms/:id/responses", feedbackHandler.CreateResponses)
	protectedAPI.GET("/rooms/:id/responses", feedbackHandler.GetRoomResponses)
	protectedAPI.PATCH("/responses/:id/resolve", feedbackHandler.ResolveRoomResponse)

	// Debug endpoints - only enabled when ENABLE_DEBUG_ENDPOINTS=true
	if s.Config.Server.Debug {
		api.GET("/jwt-debug", func(c echo.Context) error {
			email := c.QueryParam("email")
			token, err := s.JwtIssuer.GenerateToken(email)
			if err != nil {
				return c.String(http.StatusInternalServerError, "Failed to generate token")
			}
			return c.JSON(http.StatusOK, map[string]string{
				"email": email,
				"token": token,
			})
		})
	}
}

func (s *Server) Start() error {
	serverURL := s.Config.Server.Host + ":" + s.Config.Server.Port

	if s.Config.Server.TLS.Enabled {
		if _, err := os.Stat(s.Config.Server.TLS.CertFile); os.IsNotExist(err) {
			s.Echo.Logger.Warn("TLS certificate file not found, falling back to HTTP")
			return s.Echo.Start(serverURL)
		}
		if _, err := os.Stat(s.Config.Server.TLS.KeyFile); os.IsNotExist(err) {
			s.Echo.Logger.Warn("TLS key file not found, falling back to HTTP")
			return s.Echo.Start(serverURL)
		}
		return s.Echo.StartTLS(serverURL, s.Config.Server.TLS.CertFile, s.Config.Server.TLS.KeyFile)
	}

	return s.Echo.Start(serverURL)
}
