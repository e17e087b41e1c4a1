package features

import (
	"math"
	"testing"
	"time"

	"EquitySight/internal/domain/models"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSMAShortSeries(t *testing.T) {
	if SMA([]float64{1, 2}, 3) != nil {
		t.Fatalf("SMA must be nil on short series")
	}
	if Stddev([]float64{1, 2}, 3) != nil {
		t.Fatalf("Stddev must be nil on short series")
	}
	if EMA([]float64{1, 2}, 3) != nil {
		t.Fatalf("EMA must be nil on short series")
	}
}

func TestIdenticalPoints(t *testing.T) {
	vals := []float64{7, 7, 7, 7, 7}
	sma := SMA(vals, 5)
	ema := EMA(vals, 5)
	sd := Stddev(vals, 5)
	if sma == nil || ema == nil || sd == nil {
		t.Fatalf("expected non-nil on exact-length series")
	}
	if *sma != 7 || *ema != 7 {
		t.Fatalf("SMA=%v EMA=%v, want 7", *sma, *ema)
	}
	if *sd != 0 {
		t.Fatalf("Stddev=%v, want 0", *sd)
	}
}

func TestRSIStrictlyIncreasing(t *testing.T) {
	vals := make([]float64, 16)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	rsi := RSI(vals, 14)
	if rsi == nil {
		t.Fatalf("expected non-nil RSI")
	}
	if *rsi != 100 {
		t.Fatalf("RSI on rising series = %v, want 100", *rsi)
	}
}

func TestRSIInsufficientHistory(t *testing.T) {
	vals := make([]float64, 14)
	for i := range vals {
		vals[i] = float64(i)
	}
	if RSI(vals, 14) != nil {
		t.Fatalf("RSI with len == period must be nil")
	}
}

func TestBollingerMidpoint(t *testing.T) {
	// alternating around 10 keeps the last value on the SMA
	vals := make([]float64, 20)
	for i := range vals {
		if i%2 == 0 {
			vals[i] = 9
		} else {
			vals[i] = 11
		}
	}
	vals[len(vals)-1] = 10
	// shift one earlier value to keep SMA at exactly 10
	vals[0] = 10
	pb := BollingerPercentB(vals, 20, 2)
	if pb == nil {
		t.Fatalf("expected non-nil %%B")
	}
	if !almostEqual(*pb, 0.5) {
		t.Fatalf("%%B at midpoint = %v, want 0.5", *pb)
	}
}

func TestBollingerFlatBandIsNil(t *testing.T) {
	vals := make([]float64, 20)
	for i := range vals {
		vals[i] = 5
	}
	if BollingerPercentB(vals, 20, 2) != nil {
		t.Fatalf("zero-width band must be nil")
	}
}

func TestMACDLengthGate(t *testing.T) {
	vals := make([]float64, 34)
	for i := range vals {
		vals[i] = float64(i)
	}
	m, s, h := MACD(vals, 12, 26, 9)
	if m != nil || s != nil || h != nil {
		t.Fatalf("MACD below slow+signal must be all nil")
	}

	vals = make([]float64, 60)
	for i := range vals {
		vals[i] = 100 + math.Sin(float64(i)/3)*5
	}
	m, s, h = MACD(vals, 12, 26, 9)
	if m == nil || s == nil || h == nil {
		t.Fatalf("MACD on 60 points must be fully populated")
	}
	if !almostEqual(*h, *m-*s) {
		t.Fatalf("hist = %v, want macd-signal = %v", *h, *m-*s)
	}
}

func TestVolumeZScoreZeroStddev(t *testing.T) {
	vols := make([]float64, 20)
	for i := range vols {
		vols[i] = 100
	}
	if VolumeZScore(vols, 20) != nil {
		t.Fatalf("zero stddev must yield nil z-score")
	}
}

func TestPercentChange(t *testing.T) {
	a, b := 110.0, 100.0
	pc := PercentChange(&a, &b)
	if pc == nil || !almostEqual(*pc, 0.1) {
		t.Fatalf("pct = %v, want 0.1", pc)
	}
	zero := 0.0
	if PercentChange(&a, &zero) != nil {
		t.Fatalf("divide by zero must be nil")
	}
	if PercentChange(nil, &b) != nil || PercentChange(&a, nil) != nil {
		t.Fatalf("nil operands must propagate nil")
	}
}

func TestTwentyPointScenario(t *testing.T) {
	closes := []float64{10, 11, 12, 11, 10, 9, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21}
	sum := 0.0
	for _, v := range closes {
		sum += v
	}
	sma := SMA(closes, 20)
	if sma == nil || !almostEqual(*sma, sum/20) {
		t.Fatalf("SMA(20) = %v, want %v", sma, sum/20)
	}
	pb := BollingerPercentB(closes, 20, 2)
	if pb == nil {
		t.Fatalf("%%B must be computable on 20 points")
	}
	if *pb < 0 || *pb > 1 {
		t.Fatalf("%%B = %v, want within [0,1] since last is the max", *pb)
	}
}

func TestNewsWindowAggregation(t *testing.T) {
	now := time.Unix(1000, 0)
	items := []models.NewsItem{
		{PublishedAt: 500, Sentiment: &models.Sentiment{Score: 0.2}},
		{PublishedAt: 900, Sentiment: &models.Sentiment{Score: -0.4}},
		{PublishedAt: 950, Sentiment: &models.Sentiment{Score: 0.6}},
	}
	mean, count := NewsWindow(items, now, 500*time.Second)
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
	if mean == nil || math.Abs(*mean-0.4/3) > 1e-9 {
		t.Fatalf("mean = %v, want %v", mean, 0.4/3)
	}

	// only the 950 item falls inside a 99s window
	mean, count = NewsWindow(items, now, 99*time.Second)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if mean == nil || !almostEqual(*mean, 0.6) {
		t.Fatalf("mean = %v, want 0.6", mean)
	}

	mean, count = NewsWindow(nil, now, time.Hour)
	if mean != nil || count != 0 {
		t.Fatalf("empty set must yield nil mean, zero count")
	}
}

func TestComputeVector(t *testing.T) {
	bars := make([]models.Bar, 60)
	for i := range bars {
		c := 100 + math.Sin(float64(i)/4)*10
		bars[i] = models.Bar{
			Timestamp: int64(1704067200 + i*86400),
			Open:      c - 1,
			High:      c + 2,
			Low:       c - 2,
			Close:     c,
			Volume:    1000 + float64(i%7)*50,
		}
	}
	series := &models.PriceSeries{Symbol: "AAPL", Interval: models.Interval1Day, Bars: bars}
	now := time.Unix(bars[len(bars)-1].Timestamp, 0)
	news := []models.NewsItem{
		{PublishedAt: now.Unix() - 3600, Sentiment: &models.Sentiment{Score: 0.5}},
		{PublishedAt: now.Unix() - 3*86400, Sentiment: &models.Sentiment{Score: -0.5}},
	}

	feats := Compute(series, news, now)
	for _, key := range models.TechnicalFeatureOrder() {
		if _, ok := feats[key]; !ok {
			t.Fatalf("missing feature key %s", key)
		}
	}
	if feats[models.FeatClose] == nil || *feats[models.FeatClose] == 0 {
		t.Fatalf("close must be populated")
	}
	if feats[models.FeatMACD] == nil || feats[models.FeatMACDSignal] == nil {
		t.Fatalf("macd family must be populated on 60 bars")
	}
	if *feats[models.FeatNewsCount24H] != 1 || *feats[models.FeatNewsCount7D] != 2 {
		t.Fatalf("news counts = %v / %v", *feats[models.FeatNewsCount24H], *feats[models.FeatNewsCount7D])
	}
	if *feats[models.FeatNewsCountTotal] != 2 {
		t.Fatalf("total = %v", *feats[models.FeatNewsCountTotal])
	}
	// rounded to 6 decimals
	r1 := *feats[models.FeatReturn1D]
	if r1 != math.Round(r1*1e6)/1e6 {
		t.Fatalf("return_1d not rounded: %v", r1)
	}
}

func TestComputeShortSeriesNulls(t *testing.T) {
	series := &models.PriceSeries{
		Symbol:   "AAPL",
		Interval: models.Interval1Day,
		Bars: []models.Bar{
			{Timestamp: 1, Close: 10, Volume: 100},
			{Timestamp: 2, Close: 11, Volume: 110},
		},
	}
	feats := Compute(series, nil, time.Unix(1000, 0))
	if feats[models.FeatRSI14] != nil || feats[models.FeatMACD] != nil || feats[models.FeatBBPercentB] != nil {
		t.Fatalf("long-window indicators must be nil on two bars")
	}
	if feats[models.FeatReturn1D] == nil {
		t.Fatalf("return_1d computable on two bars")
	}
	if feats[models.FeatReturn5D] != nil || feats[models.FeatReturn21D] != nil {
		t.Fatalf("longer returns must be nil")
	}
}
