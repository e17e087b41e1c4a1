package features

import (
	"math"
)

// Indicator helpers operate on chronologically ascending closes/volumes.
// Every function returns nil instead of a fabricated number when the series
// is too short for the indicator's window.

func fptr(v float64) *float64 { return &v }

// SMA is the mean of the last n values.
func SMA(values []float64, n int) *float64 {
	if n <= 0 || len(values) < n {
		return nil
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return fptr(sum / float64(n))
}

// Stddev is the population standard deviation of the last n values.
func Stddev(values []float64, n int) *float64 {
	mean := SMA(values, n)
	if mean == nil {
		return nil
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		d := v - *mean
		sum += d * d
	}
	return fptr(math.Sqrt(sum / float64(n)))
}

// EMA seeds with the SMA of the first n values, then applies the standard
// recurrence with k = 2/(n+1) over the remainder.
func EMA(values []float64, n int) *float64 {
	if n <= 0 || len(values) < n {
		return nil
	}
	seed := 0.0
	for _, v := range values[:n] {
		seed += v
	}
	ema := seed / float64(n)
	k := 2.0 / float64(n+1)
	for _, v := range values[n:] {
		ema = v*k + ema*(1-k)
	}
	return fptr(ema)
}

// RSI implements Wilder's smoothing. Average loss of exactly zero maps to 100.
func RSI(values []float64, period int) *float64 {
	if period <= 0 || len(values) <= period {
		return nil
	}
	gains := make([]float64, 0, len(values)-1)
	losses := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			gains = append(gains, d)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -d)
		}
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
	}

	if avgLoss == 0 {
		return fptr(100)
	}
	rs := avgGain / avgLoss
	return fptr(100 - 100/(1+rs))
}

// MACD returns the macd line, the signal line and the histogram. The signal
// line is the EMA of the macd value recomputed at each prefix length, which
// is quadratic on purpose: it reproduces the established output exactly and
// the series here are short.
func MACD(values []float64, fast, slow, signal int) (macd, signalLine, hist *float64) {
	if len(values) < slow+signal {
		return nil, nil, nil
	}
	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)
	if emaFast == nil || emaSlow == nil {
		return nil, nil, nil
	}
	macd = fptr(*emaFast - *emaSlow)

	running := make([]float64, 0, len(values)-slow+1)
	for i := slow; i <= len(values); i++ {
		f := EMA(values[:i], fast)
		s := EMA(values[:i], slow)
		if f == nil || s == nil {
			continue
		}
		running = append(running, *f-*s)
	}
	signalLine = EMA(running, signal)
	if signalLine == nil {
		return macd, nil, nil
	}
	hist = fptr(*macd - *signalLine)
	return macd, signalLine, hist
}

// BollingerPercentB positions the last value inside the n-period k-sigma band.
func BollingerPercentB(values []float64, n int, k float64) *float64 {
	mean := SMA(values, n)
	sd := Stddev(values, n)
	if mean == nil || sd == nil {
		return nil
	}
	upper := *mean + k**sd
	lower := *mean - k**sd
	if upper == lower {
		return nil
	}
	last := values[len(values)-1]
	return fptr((last - lower) / (upper - lower))
}

// VolumeZScore measures how far the latest volume sits from its n-period mean.
func VolumeZScore(volumes []float64, n int) *float64 {
	mean := SMA(volumes, n)
	sd := Stddev(volumes, n)
	if mean == nil || sd == nil || *sd == 0 {
		return nil
	}
	last := volumes[len(volumes)-1]
	return fptr((last - *mean) / *sd)
}

// PercentChange is (a/b)-1 with nil propagation and a zero-divide guard.
func PercentChange(a, b *float64) *float64 {
	if a == nil || b == nil || *b == 0 {
		return nil
	}
	return fptr(*a / *b - 1)
}

// Round6 rounds to 6 decimals for stable serialization, passing nil through.
func Round6(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return fptr(math.Round(*v*1e6) / 1e6)
}
