package main

import (
	"log"
	"net/http"
	"time"

	"dispatchgo/backend/internal/api/handler"
	"dispatchgo/backend/internal/config"
	"dispatchgo/backend/internal/models"
	"dispatchgo/backend/internal/storage"
	"dispatchgo/backend/internal/transcriber"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDatabase(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	if err := db.AutoMigrate(&models.Transcript{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database connection established, migrations complete.")
	return db
}

func main() {
	log.Println("Starting Transcriber Service...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	// The transcriber only needs PostgreSQL; Redis stays nil.
	db := setupDatabase(cfg)
	s := storage.NewStorageService(db, nil)

	svc := transcriber.NewServiceFromConfig(cfg, s)
	h := handler.NewTranscribeHandler(svc, s, cfg.SkipSeconds)

	r := gin.Default()
	r.POST("/transcribe", h.Transcribe)
	r.GET("/transcripts/:call_sid", h.GetTranscript)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    120 * time.Second,
		WriteTimeout:   120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
