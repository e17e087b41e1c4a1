package features

import (
	"time"

	"EquitySight/internal/domain/models"
)

// NewsWindow aggregates sentiment over items published inside [now-window, now].
// Mean over an empty set is nil rather than zero so "no news" stays
// distinguishable from "neutral news".
func NewsWindow(items []models.NewsItem, now time.Time, window time.Duration) (mean *float64, count int) {
	cutoff := now.Add(-window).Unix()
	sum := 0.0
	for _, it := range items {
		if it.PublishedAt < cutoff {
			continue
		}
		count++
		if it.Sentiment != nil {
			sum += it.Sentiment.Score
		}
	}
	if count == 0 {
		return nil, 0
	}
	return fptr(sum / float64(count)), count
}
