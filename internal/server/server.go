package server

import (
	"context"
	"net/http"

	"courtbook/internal/auth"
	"courtbook/internal/booking"
	"courtbook/internal/config"
	"courtbook/internal/email"
	"courtbook/internal/lock"
	"courtbook/internal/payment"
	"courtbook/internal/realtime"
	"courtbook/internal/slot"
	"courtbook/internal/user"
	"courtbook/internal/venue"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, publisher *realtime.Publisher) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	userRepo := user.NewRepository(db)
	venueRepo := venue.NewRepository(db)
	lockRepo := lock.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	gateway := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewaySecret)

	userService := user.NewService(userRepo, cfg.JWTSecret)
	venueService := venue.NewService(venueRepo)
	lockService := lock.NewService(lockRepo, bookingRepo, publisher)
	bookingService := booking.NewService(bookingRepo, lockRepo, venueRepo, userRepo,
		gateway, emailService, publisher)

	catalog := slot.NewCatalog(lockRepo, bookingRepo)

	userHandler := user.NewHandler(userService)
	venueHandler := venue.NewHandler(venueService)
	lockHandler := lock.NewHandler(lockService)
	bookingHandler := booking.NewHandler(bookingService)
	slotHandler := slot.NewHandler(catalog, lockService)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/venues", venueHandler.ListVenues)
		protected.GET("/venues/:venueID/resources", venueHandler.ListResources)
		protected.GET("/resources/:resourceID/slots", slotHandler.ListSlots)

		protected.POST("/locks", lockHandler.Acquire)
		protected.GET("/locks/:lockID", lockHandler.Get)
		protected.POST("/locks/:lockID/release", lockHandler.Release)

		protected.POST("/bookings", bookingHandler.Finalize)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.POST("/bookings/:bookingID/confirm", bookingHandler.Confirm)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.Cancel)
	}

	providerMiddleware := auth.RequireRole(auth.RoleProvider, auth.RoleAdmin)
	provider := router.Group("/provider")
	provider.Use(authMiddleware, providerMiddleware)
	{
		provider.POST("/venues", venueHandler.CreateVenue)
		provider.GET("/venues", venueHandler.ListMyVenues)
		provider.DELETE("/venues/:venueID", venueHandler.DeleteVenue)
		provider.POST("/venues/:venueID/resources", venueHandler.CreateResource)
		provider.DELETE("/resources/:resourceID", venueHandler.DeleteResource)
		provider.GET("/venues/:venueID/bookings", bookingHandler.ListBookingsByVenue)
		provider.GET("/resources/:resourceID/bookings", bookingHandler.ListBookingsByResource)
	}

	adminMiddleware := auth.RequireRole(auth.RoleAdmin)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/venues", venueHandler.ListVenuesWithProvider)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))

	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
