package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"feedgram/cache"
	"feedgram/config"
	"feedgram/database"
	"feedgram/handlers"
	"feedgram/routes"
	"feedgram/storage"
	"feedgram/token"
)

func main() {
	log.Println("Starting feedgram API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	// Connect to MongoDB with retry, the database is allowed a moment to
	// come up when both start together.
	var dbErr error
	for i := 1; i <= 3; i++ {
		if dbErr = database.ConnectMongo(cfg.MongoURI, cfg.DBName); dbErr != nil {
			log.Printf("MongoDB connection attempt %d failed: %v", i, dbErr)
			time.Sleep(2 * time.Second)
			continue
		}
		break
	}
	if dbErr != nil {
		log.Fatal("Failed to connect to MongoDB: ", dbErr)
	}
	defer database.DisconnectMongo()

	// Redis is best-effort: a failed connection disables caching, it does
	// not stop the server.
	profileCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	uploader, err := storage.NewCloudinaryUploader(cfg.CloudinaryURL)
	if err != nil {
		log.Fatal("Cloudinary configuration error: ", err)
	}

	tokens := token.NewService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	handlers.Init(tokens, profileCache, uploader, !cfg.IsProduction())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.SetupRouter(tokens)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "feedgram API running", "service": "healthy"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown: ", err)
	}

	log.Println("Server stopped gracefully")
}
