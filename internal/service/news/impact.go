package news

import (
	"math"
	"time"

	"EquitySight/internal/domain/models"
)

// HeadlineImpact blends sentiment, recency and source presence into a 0..1
// score. Recency decays with a 24h half-life.
func HeadlineImpact(item models.NewsItem, now time.Time) float64 {
	s := item.Sentiment
	if s == nil {
		s = Analyze(item.Title + ". " + item.Description)
	}

	age := float64(now.Unix() - item.PublishedAt)
	if age < 0 {
		age = 0
	}
	decay := math.Pow(0.5, age/86400)

	srcWeight := 0.9
	if item.Source != "" {
		srcWeight = 1.0
	}

	raw := 0.6*((s.Score+1)/2) + 0.3*decay + 0.1*srcWeight
	return math.Max(0, math.Min(1, raw))
}
