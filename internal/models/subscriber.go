package models

import (
	"time"

	"github.com/lib/pq"
)

// Subscriber is a Telegram chat that receives critical-report alerts.
type Subscriber struct {
	// ChatID is the Telegram chat the alerts are delivered to.
	ChatID int64 `gorm:"primaryKey"`
	// Locations limits alerts to reports whose location matches one of
	// these labels (case-insensitive substring). Empty means all locations.
	Locations pq.StringArray `gorm:"type:text[]"`
	CreatedAt time.Time
}
