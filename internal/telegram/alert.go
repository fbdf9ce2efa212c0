package telegram

import (
	"fmt"
	"strings"
	"time"

	"dispatchgo/backend/internal/models"
)

// subscriberWatches reports whether the subscriber wants alerts for this
// location. An empty watch list means every location; otherwise the same
// case-insensitive substring match the location query endpoint uses.
func subscriberWatches(subscriber models.Subscriber, location string) bool {
	if len(subscriber.Locations) == 0 {
		return true
	}
	haystack := strings.ToLower(location)
	for _, watched := range subscriber.Locations {
		if strings.Contains(haystack, strings.ToLower(watched)) {
			return true
		}
	}
	return false
}

func formatAlert(r models.Report) string {
	return fmt.Sprintf("🚨 *%s incident reported*\n%s\n📍 %s\n🕒 %s",
		models.SeverityLabel(r.Severity),
		r.Summary,
		r.Location,
		r.CreatedAt.Format(time.RFC1123),
	)
}
