package providers

import (
	"sort"
	"strconv"
	"time"

	"EquitySight/internal/domain/models"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

// parseBarTime accepts both the date-only and the datetime shapes the
// upstreams use, in UTC.
func parseBarTime(s string) (int64, error) {
	layout := datetimeLayout
	if len(s) == len(dateLayout) {
		layout = dateLayout
	}
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// finalizeBars sorts ascending by timestamp and keeps the most recent limit.
func finalizeBars(bars []models.Bar, limit int) []models.Bar {
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp < bars[j].Timestamp })
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars
}
