package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"dispatchgo/backend/internal/config"
	"dispatchgo/backend/internal/models"
	"dispatchgo/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	storageSvc := storage.NewStorageService(db, rdb)
	ctx := context.Background()

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "top":
		n := 10
		if len(os.Args) > 2 {
			var err error
			n, err = strconv.Atoi(os.Args[2])
			if err != nil || n < 1 {
				fmt.Println("Invalid count. Please provide a positive integer.")
				os.Exit(1)
			}
		}
		if err := printTopReports(ctx, storageSvc, n); err != nil {
			log.Fatalf("Error listing reports: %v", err)
		}
	case "get":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin get <report_id>")
			os.Exit(1)
		}
		if err := printReport(ctx, storageSvc, os.Args[2]); err != nil {
			log.Fatalf("Error loading report: %v", err)
		}
	case "subscribers":
		if err := printSubscribers(storageSvc); err != nil {
			log.Fatalf("Error listing subscribers: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func printTopReports(ctx context.Context, s storage.Storage, n int) error {
	ids, err := s.ReportIDsBySeverityRange(ctx, 0, int64(n-1))
	if err != nil {
		return err
	}
	for _, id := range ids {
		report, err := s.GetReport(ctx, id)
		if err != nil {
			return err
		}
		if report == nil {
			// Stale index entry, the record is gone.
			continue
		}
		fmt.Printf("%s  [%s]  %-12s  %s\n",
			report.ID, models.SeverityLabel(report.Severity), report.Location, report.Summary)
	}
	return nil
}

func printReport(ctx context.Context, s storage.Storage, id string) error {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return err
	}
	if report == nil {
		fmt.Printf("Report %s not found.\n", id)
		return nil
	}
	fmt.Printf("ID:        %s\n", report.ID)
	fmt.Printf("Severity:  %d (%s)\n", report.Severity, models.SeverityLabel(report.Severity))
	fmt.Printf("Location:  %s\n", report.Location)
	fmt.Printf("Time:      %s\n", report.CreatedAt)
	fmt.Printf("Summary:   %s\n", report.Summary)
	fmt.Printf("Text:      %s\n", report.Text)
	return nil
}

func printSubscribers(s storage.Storage) error {
	subscribers, err := s.GetSubscribers()
	if err != nil {
		return err
	}
	for _, sub := range subscribers {
		locations := "all locations"
		if len(sub.Locations) > 0 {
			locations = strings.Join(sub.Locations, ", ")
		}
		fmt.Printf("%d  watching %s\n", sub.ChatID, locations)
	}
	return nil
}
