package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unimarket/internal/config"
	"unimarket/internal/handler"
	"unimarket/internal/middleware"
	"unimarket/internal/redis"
	"unimarket/internal/services"
	"unimarket/internal/transport/httpdto"
	"unimarket/internal/ws"
	"unimarket/pkg/database"
	"unimarket/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

// Handlers bundles every route handler the server mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Conversation *handler.ConversationHandler
	Product      *handler.ProductHandler
	Lookup       *handler.LookupHandler
	Wishlist     *handler.WishlistHandler
	Upload       *handler.UploadHandler
	WS           *ws.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	authed := middleware.AuthMiddleware(authService)

	auth := s.engine.Group("/v1/auth")
	{
		authLimited := auth.Group("")
		if limiter != nil {
			authLimited.Use(middleware.AuthRateLimitMiddleware(limiter))
		}
		authLimited.POST("/register", handlers.Auth.Register)
		authLimited.POST("/login", handlers.Auth.Login)
		auth.GET("/me", authed, handlers.Auth.Me)
	}

	s.engine.GET("/v1/users/:id", authed, handlers.Auth.GetUser)

	s.engine.GET("/v1/universities", handlers.Lookup.Universities)
	s.engine.GET("/v1/categories", handlers.Lookup.Categories)

	products := s.engine.Group("/v1/products")
	{
		products.GET("", handlers.Product.List)
		products.GET("/:id", handlers.Product.GetByID)
		products.POST("", authed, handlers.Product.Create)
		products.PUT("/:id", authed, handlers.Product.Update)
		products.DELETE("/:id", authed, handlers.Product.Delete)
	}

	wishlists := s.engine.Group("/v1/wishlist", authed)
	{
		wishlists.GET("", handlers.Wishlist.List)
		wishlists.POST("", handlers.Wishlist.Add)
		wishlists.DELETE("/:productId", handlers.Wishlist.Remove)
	}

	conversations := s.engine.Group("/v1/conversations", authed)
	{
		conversations.POST("", handlers.Conversation.Create)
		conversations.GET("", handlers.Conversation.List)
		conversations.GET("/unread-count", handlers.Conversation.UnreadCount)
		conversations.GET("/:id", handlers.Conversation.GetByID)
		conversations.DELETE("/:id", handlers.Conversation.Delete)
		conversations.GET("/:id/messages", handlers.Conversation.ListMessages)
		conversations.POST("/:id/read", handlers.Conversation.MarkRead)

		send := conversations.Group("")
		if limiter != nil {
			send.Use(middleware.MessageRateLimitMiddleware(limiter))
		}
		send.POST("/:id/messages", handlers.Conversation.SendMessage)
	}

	uploads := s.engine.Group("/v1/uploads", authed)
	{
		uploads.POST("/presign", handlers.Upload.Presign)
		uploads.POST("/:id/complete", handlers.Upload.Complete)
		uploads.GET("", handlers.Upload.List)
	}

	if handlers.WS != nil {
		s.engine.GET("/ws", handlers.WS.Connect)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
