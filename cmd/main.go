package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"dispatchgo/backend/internal/api/handler"
	"dispatchgo/backend/internal/classifier"
	"dispatchgo/backend/internal/config"
	"dispatchgo/backend/internal/feedhub"
	"dispatchgo/backend/internal/models"
	"dispatchgo/backend/internal/report"
	"dispatchgo/backend/internal/storage"
	"dispatchgo/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL (alert subscriptions)
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis (report store, severity index, live feed)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Migrations
	if err := db.AutoMigrate(&models.Subscriber{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Dispatch Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	// 1. Dependencies
	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	// 2. Core services
	gateway := classifier.NewGatewayFromConfig(cfg)
	intake := report.NewIntakeService(gateway, s)
	query := report.NewQueryService(s)

	// 3. Live feed hub
	hub := feedhub.NewManager(s)
	go hub.Run()

	// 4. Alert bot (optional)
	if cfg.TelegramBotToken != "" {
		botService, err := telegram.NewBotService(cfg.TelegramBotToken, s)
		if err != nil {
			log.Fatalf("Failed to start Telegram bot: %v", err)
		}
		go botService.Run()
		go botService.ListenReports(context.Background())
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, alert bot disabled.")
	}

	// 5. Gin routing
	r := gin.Default()
	h := handler.NewHandler(intake, query, hub)

	r.POST("/incoming_message", h.ReceiveMessage)
	r.GET("/get_sorted_messages", h.GetSortedMessages)
	r.GET("/get_messages_by_location", h.GetMessagesByLocation)
	r.GET("/get_top_critical", h.GetTopCritical)
	r.GET("/test_sample_messages", h.SeedSampleMessages)
	r.GET("/ws", h.ServeFeed)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
