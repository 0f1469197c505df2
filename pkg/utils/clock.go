package utils

import (
	"log"
	"strings"
	"time"
)

func TimeNowET() time.Time {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return time.Now().In(loc)
}

// DayOfWeek returns the lowercase day name used as a categorical dimension.
func DayOfWeek(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// SessionTypeAt buckets a US-equity trading day into the session labels the
// engine matches on. Times outside regular hours fall into pre-market or
// after-hours.
func SessionTypeAt(t time.Time) string {
	minutes := t.Hour()*60 + t.Minute()
	switch {
	case minutes < 9*60+30:
		return "pre-market"
	case minutes < 11*60:
		return "market-open"
	case minutes < 14*60:
		return "lunch"
	case minutes < 16*60:
		return "power-hour"
	default:
		return "after-hours"
	}
}
