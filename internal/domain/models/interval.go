package models

// Interval is a bar resolution as exposed by the public API.
// Provider-native resolution strings are mapped inside each adapter.
type Interval string

const (
	Interval1Min  Interval = "1min"
	Interval5Min  Interval = "5min"
	Interval15Min Interval = "15min"
	Interval30Min Interval = "30min"
	Interval60Min Interval = "60min"
	Interval1Day  Interval = "1day"
)

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case Interval1Min, Interval5Min, Interval15Min, Interval30Min, Interval60Min, Interval1Day:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default bar resolution.
func DefaultInterval() Interval { return Interval1Day }

// NormalizeInterval converts a raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}
