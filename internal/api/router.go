package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/roomstack/roombook/internal/api/handler"
	customMiddleware "github.com/roomstack/roombook/internal/api/middleware"
	"github.com/roomstack/roombook/internal/config"
	"github.com/roomstack/roombook/internal/domain"
	"github.com/roomstack/roombook/internal/repository/memory"
	"github.com/roomstack/roombook/internal/repository/postgres"
	"github.com/roomstack/roombook/internal/repository/redis"
	"github.com/roomstack/roombook/internal/security"
	"github.com/roomstack/roombook/internal/service"
)

// NewRouter creates and configures the HTTP router. db may be nil when the
// memory storage driver is selected; redisClient may be nil, disabling the
// catalog cache and rate limiting.
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Select the storage backend
	var (
		userRepo    domain.UserRepository
		floorRepo   domain.FloorRepository
		roomRepo    domain.RoomRepository
		bookingRepo domain.BookingRepository
		txManager   domain.TxManager
	)
	if cfg.Storage.Driver == "memory" || db == nil {
		store := memory.New()
		userRepo = store.Users()
		floorRepo = store.Floors()
		roomRepo = store.Rooms()
		bookingRepo = store.Bookings()
		txManager = store
	} else {
		userRepo = postgres.NewUserRepository(db)
		floorRepo = postgres.NewFloorRepository(db)
		roomRepo = postgres.NewRoomRepository(db)
		bookingRepo = postgres.NewBookingRepository(db)
		txManager = postgres.NewTxManager(db)
	}

	// Redis-backed extras are optional
	var catalogCache *redis.CatalogCache
	var rateLimitMiddleware *customMiddleware.RateLimitMiddleware
	if redisClient != nil {
		catalogCache = redis.NewCatalogCache(redisClient)
		if cfg.Security.RateLimit.Enabled {
			rateLimiter := redis.NewRateLimiter(
				redisClient,
				cfg.Security.RateLimit.RequestsPerMinute,
				cfg.Security.RateLimit.Burst,
			)
			rateLimitMiddleware = customMiddleware.NewRateLimitMiddleware(rateLimiter)
		}
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	floorService := service.NewFloorService(txManager, floorRepo, roomRepo, catalogCache)
	bookingService := service.NewBookingService(txManager, roomRepo, bookingRepo)
	availabilityService := service.NewAvailabilityService(roomRepo, bookingRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, jwtManager.TokenTTL(), cfg.Auth.CookieSecure)
	floorHandler := handler.NewFloorHandler(floorService)
	roomHandler := handler.NewRoomHandler(floorService, availabilityService)
	bookingHandler := handler.NewBookingHandler(bookingService)

	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	adminOnly := customMiddleware.RequireRole(domain.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(pinger(db)))

		// Auth routes (public)
		r.Route("/user", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			if rateLimitMiddleware != nil {
				r.Use(rateLimitMiddleware.Limit)
			}

			r.Post("/availability/search", roomHandler.Available)

			// Floor catalog; mutations are admin only
			r.Route("/floors", func(r chi.Router) {
				r.With(adminOnly).Get("/", floorHandler.List)
				r.With(adminOnly).Post("/", floorHandler.Create)

				r.Route("/{floorID}", func(r chi.Router) {
					r.With(adminOnly).Get("/", floorHandler.Get)
					r.With(adminOnly).Put("/", floorHandler.Update)
					r.With(adminOnly).Delete("/", floorHandler.Delete)

					r.Get("/rooms", floorHandler.ListRooms)
					r.With(adminOnly).Post("/rooms", floorHandler.CreateRoom)
				})
			})

			// Rooms
			r.Route("/rooms/{roomID}", func(r chi.Router) {
				r.Get("/", roomHandler.Get)
				r.With(adminOnly).Put("/", roomHandler.Update)
				r.With(adminOnly).Delete("/", roomHandler.Delete)
			})

			// Bookings. GET keys the wildcard on a user id, PUT and DELETE on
			// a booking id; the static "all" route wins over the wildcard.
			r.Route("/bookings", func(r chi.Router) {
				r.With(adminOnly).Get("/all", bookingHandler.ListAll)
				r.Get("/{id}", bookingHandler.ListForUser)

				r.Post("/rooms/{roomID}", bookingHandler.Create)
				r.Put("/{id}", bookingHandler.Update)
				r.Delete("/{id}", bookingHandler.Cancel)
			})
		})
	})

	return r
}

// pinger avoids handing ReadyCheck a non-nil interface wrapping a nil *DB.
func pinger(db *postgres.DB) handler.Pinger {
	if db == nil {
		return nil
	}
	return db
}
