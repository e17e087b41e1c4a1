package features

import (
	"time"

	"EquitySight/internal/domain/models"
)

// Compute builds the full technical + news feature map from an ascending
// price series and a set of enriched news items. Counts are always present;
// any indicator lacking enough history stays nil.
func Compute(series *models.PriceSeries, news []models.NewsItem, now time.Time) map[string]*float64 {
	closes := series.Closes()
	volumes := series.Volumes()
	last := closes[len(closes)-1]

	var prev *float64
	if len(closes) > 1 {
		prev = fptr(closes[len(closes)-2])
	}
	var close5, close21 *float64
	if len(closes) >= 6 {
		close5 = fptr(closes[len(closes)-6])
	}
	if len(closes) >= 22 {
		close21 = fptr(closes[len(closes)-22])
	}

	// simple returns feed the volatility window
	rets := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			rets = append(rets, closes[i]/closes[i-1]-1)
		}
	}

	macd, macdSignal, macdHist := MACD(closes, 12, 26, 9)
	sent24h, count24h := NewsWindow(news, now, 24*time.Hour)
	sent7d, count7d := NewsWindow(news, now, 7*24*time.Hour)

	feats := map[string]*float64{
		models.FeatClose:           fptr(last),
		models.FeatReturn1D:        PercentChange(fptr(last), prev),
		models.FeatReturn5D:        PercentChange(fptr(last), close5),
		models.FeatReturn21D:       PercentChange(fptr(last), close21),
		models.FeatVolatility21D:   Stddev(rets, 21),
		models.FeatRSI14:           RSI(closes, 14),
		models.FeatMACD:            macd,
		models.FeatMACDSignal:      macdSignal,
		models.FeatMACDHist:        macdHist,
		models.FeatBBPercentB:      BollingerPercentB(closes, 20, 2),
		models.FeatVolumeZScore20:  VolumeZScore(volumes, 20),
		models.FeatNewsSentMean24H: sent24h,
		models.FeatNewsSentMean7D:  sent7d,
		models.FeatNewsCount24H:    fptr(float64(count24h)),
		models.FeatNewsCount7D:     fptr(float64(count7d)),
		models.FeatNewsCountTotal:  fptr(float64(len(news))),
	}
	for k, v := range feats {
		feats[k] = Round6(v)
	}
	return feats
}
