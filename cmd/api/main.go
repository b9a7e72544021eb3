package main

import (
	"context"
	"log"

	"unimarket/internal/config"
	"unimarket/internal/handler"
	redisx "unimarket/internal/redis"
	"unimarket/internal/repository"
	"unimarket/internal/server"
	"unimarket/internal/services"
	"unimarket/internal/storage"
	"unimarket/internal/ws"
	"unimarket/pkg/database"
	"unimarket/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	logMode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		logMode = logger.ProductionMode
	}
	l := logger.New(logMode)
	logger.SetGlobalLogger(l)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	redisClient := redisx.NewClient(redisx.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	limiter := redisx.NewRateLimiter(redisClient, redisx.DefaultRateLimitConfig())
	lastSeen := redisx.NewLastSeenStore(redisClient, 0)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	productRepo := repository.NewProductRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg)
	chatService := services.NewChatService(convRepo, msgRepo, userRepo, productRepo)
	productService := services.NewProductService(productRepo)
	lookupService := services.NewLookupService(lookupRepo)
	wishlistService := services.NewWishlistService(wishlistRepo, productRepo)

	var uploadService *services.UploadService
	if cfg.S3Bucket != "" {
		s3Client, err := storage.NewClient(context.Background(), storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
		})
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
		uploadService = services.NewUploadService(uploadRepo, s3Client)
	} else {
		l.Warnf("S3_BUCKET not set; uploads are disabled")
		uploadService = services.NewUploadService(uploadRepo, nil)
	}

	// Realtime gateway
	hub := ws.NewHub(l)
	go hub.Run()
	gateway := ws.NewGateway(hub, chatService, lastSeen, cfg.TypingTimeout, l)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Conversation: handler.NewConversationHandler(chatService),
		Product:      handler.NewProductHandler(productService),
		Lookup:       handler.NewLookupHandler(lookupService),
		Wishlist:     handler.NewWishlistHandler(wishlistService),
		Upload:       handler.NewUploadHandler(uploadService),
		WS:           ws.NewHandler(authService, gateway),
	}, authService, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
