package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"EquitySight/internal/domain/models"
	domrepo "EquitySight/internal/domain/repository"
	"EquitySight/internal/service/model"
	"EquitySight/pkg/logger"
)

const (
	probClamp = 1e-6

	// news lookback for technical rows, same window the features endpoint
	// defaults to
	defaultNewsWindow = 50
)

// PredictUseCase turns the loaded classifier into calibrated direction
// estimates. Without an artifact it degrades to a neutral HOLD answer
// instead of failing the endpoint.
type PredictUseCase struct {
	loader       *model.Loader
	features     *FeaturesUseCase
	prices       *PricesUseCase
	fundamentals domrepo.FundamentalsSource
	topK         int
	log          *logger.Logger
}

func NewPredictUseCase(
	loader *model.Loader,
	features *FeaturesUseCase,
	prices *PricesUseCase,
	fundamentals domrepo.FundamentalsSource,
	log *logger.Logger,
) *PredictUseCase {
	return &PredictUseCase{
		loader:       loader,
		features:     features,
		prices:       prices,
		fundamentals: fundamentals,
		topK:         5,
		log:          log,
	}
}

type PredictParams struct {
	Symbol      string
	Temperature float64 // <= 0 uses the artifact's default
}

func (uc *PredictUseCase) Predict(ctx context.Context, p PredictParams) (*models.PredictionResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	p.Symbol = strings.ToUpper(p.Symbol)

	clf, loadedAt, ok := uc.loader.Get()
	if !ok {
		return &models.PredictionResult{
			Symbol:      p.Symbol,
			ProbUp:      0.5,
			ProbDown:    0.5,
			Label:       models.LabelHold,
			Calibration: models.Calibration{Temperature: 1},
		}, nil
	}

	temperature := p.Temperature
	if temperature <= 0 {
		temperature = clf.DefaultTemperature()
	}

	schema, order, row, values, err := uc.buildRow(ctx, p.Symbol, clf)
	if err != nil {
		return nil, err
	}

	probUp := uc.rawProbUp(clf, row)
	calibrated := calibrate(probUp, temperature)

	label := models.LabelDown
	if calibrated >= 0.5 {
		label = models.LabelUp
	}

	result := &models.PredictionResult{
		Symbol:       p.Symbol,
		ProbUp:       round4(calibrated),
		ProbDown:     round4(1 - calibrated),
		Label:        label,
		Confidence:   round4(math.Abs(calibrated-0.5) * 2),
		Schema:       schema,
		Features:     values,
		FeatureOrder: order,
		TopFeatures:  uc.topContributions(clf, order, row),
		Calibration: models.Calibration{
			Temperature: temperature,
			Applied:     temperature != 1,
		},
		ModelLoadedAt: loadedAt.Unix(),
	}

	uc.log.Info("predict.direction served",
		logger.String("symbol", p.Symbol),
		logger.String("schema", schema),
		logger.String("label", label),
		logger.Any("prob_up", result.ProbUp))
	return result, nil
}

// buildRow selects the feature schema by the classifier's declared width and
// assembles the model input in that exact order, unknowns mapped to 0.
func (uc *PredictUseCase) buildRow(ctx context.Context, symbol string, clf *model.Linear) (schema string, order []string, row []float64, values map[string]float64, err error) {
	technical := models.TechnicalFeatureOrder()
	if clf.NumFeatures() == len(technical) {
		order = technical
		if declared := clf.FeatureOrder(); len(declared) == len(technical) {
			order = declared
		}
		vector, ferr := uc.features.GetFeatures(ctx, GetFeaturesParams{Symbol: symbol, MaxNews: defaultNewsWindow})
		if ferr != nil {
			return "", nil, nil, nil, fmt.Errorf("assemble technical features: %w", ferr)
		}
		row = make([]float64, len(order))
		values = make(map[string]float64, len(order))
		for i, name := range order {
			row[i] = vector.Value(name)
			values[name] = row[i]
		}
		return models.SchemaTechnical, order, row, values, nil
	}

	order = models.LegacyFeatureOrder()
	legacy, lerr := uc.legacyValues(ctx, symbol)
	if lerr != nil {
		return "", nil, nil, nil, lerr
	}
	row = make([]float64, 0, len(order))
	for _, name := range order {
		row = append(row, legacy[name])
	}
	// pad or truncate to the declared width so odd artifacts still answer
	for len(row) < clf.NumFeatures() {
		row = append(row, 0)
	}
	row = row[:clf.NumFeatures()]
	return models.SchemaLegacy, order, row, legacy, nil
}

// legacyValues sources the four-field schema straight from fundamentals and
// the latest daily close.
func (uc *PredictUseCase) legacyValues(ctx context.Context, symbol string) (map[string]float64, error) {
	out := map[string]float64{
		"close_price":    0,
		"pe_ratio":       0,
		"eps":            0,
		"revenue_growth": 0,
	}

	if f, err := uc.fundamentals.Get(ctx, symbol); err == nil {
		out["pe_ratio"] = f.PERatio
		out["eps"] = f.EPS
		out["revenue_growth"] = f.RevenueGrowth
	} else {
		uc.log.Warn("predict.legacy fundamentals unavailable",
			logger.String("symbol", symbol),
			logger.Error(err))
	}

	series, err := uc.prices.GetPrices(ctx, GetPricesParams{
		Symbol:   symbol,
		Interval: models.Interval1Day,
		Limit:    1,
	})
	if err == nil && len(series.Bars) > 0 {
		out["close_price"] = series.Bars[len(series.Bars)-1].Close
	}
	return out, nil
}

func (uc *PredictUseCase) rawProbUp(clf *model.Linear, row []float64) float64 {
	if probs, ok := clf.PredictProba(row); ok && len(probs) == 2 {
		return probs[1]
	}
	label, err := clf.Predict(row)
	if err != nil {
		uc.log.Warn("predict.model inference failed", logger.Error(err))
		return 0.5
	}
	// hard labels get a fixed confidence
	if label == 1 {
		return 0.7
	}
	return 0.3
}

// calibrate applies temperature scaling in logit space. Probabilities are
// clamped away from 0 and 1 first so the logit stays finite.
func calibrate(probUp, temperature float64) float64 {
	if temperature == 1 {
		return probUp
	}
	p := math.Min(math.Max(probUp, probClamp), 1-probClamp)
	logit := math.Log(p / (1 - p))
	return 1 / (1 + math.Exp(-logit/temperature))
}

// topContributions ranks features by |coef*value|, then |importance*|value||,
// then |value|, keeping input order for ties.
func (uc *PredictUseCase) topContributions(clf *model.Linear, order []string, row []float64) []models.FeatureContribution {
	coefs, hasCoefs := clf.Coefficients()
	imps, hasImps := clf.Importances()

	entries := make([]models.FeatureContribution, 0, len(order))
	for i, name := range order {
		if i >= len(row) {
			break
		}
		e := models.FeatureContribution{Name: name, Value: row[i]}
		switch {
		case hasCoefs && i < len(coefs):
			e.Weight = coefs[i]
			e.Contribution = math.Abs(coefs[i] * row[i])
		case hasImps && i < len(imps):
			e.Weight = imps[i]
			e.Contribution = math.Abs(imps[i] * math.Abs(row[i]))
		default:
			e.Contribution = math.Abs(row[i])
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Contribution > entries[j].Contribution
	})
	if len(entries) > uc.topK {
		entries = entries[:uc.topK]
	}
	return entries
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
