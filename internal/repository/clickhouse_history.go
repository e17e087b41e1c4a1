package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"EquitySight/internal/domain/models"
	domrepo "EquitySight/internal/domain/repository"
	pkgch "EquitySight/pkg/clickhouse"
	applogger "EquitySight/pkg/logger"
)

// feature_history holds every assembled vector for offline training-set
// construction. Nullable indicator values are kept as JSON so schema changes
// on the feature side never require a migration here.
var featureHistorySchema = []string{
	`CREATE TABLE IF NOT EXISTS feature_history (
        asof      DateTime,
        symbol    LowCardinality(String),
        interval  LowCardinality(String),
        features  String
    )
    ENGINE = MergeTree
    PARTITION BY toYYYYMM(asof)
    ORDER BY (symbol, interval, asof)`,
}

// CHFeatureHistory implements FeatureHistory backed by ClickHouse.
type CHFeatureHistory struct {
	db *sql.DB
	ch *pkgch.Client
	l  *applogger.Logger
}

func NewCHFeatureHistory(ch *pkgch.Client, l *applogger.Logger) domrepo.FeatureHistory {
	return &CHFeatureHistory{db: ch.DB(), ch: ch, l: l}
}

func (s *CHFeatureHistory) Init(ctx context.Context) error {
	if err := s.ch.InitSchema(ctx, featureHistorySchema); err != nil {
		return fmt.Errorf("feature history schema: %w", err)
	}
	return s.ch.Health(ctx)
}

func (s *CHFeatureHistory) Append(ctx context.Context, v *models.FeatureVector) error {
	start := time.Now()
	payload, err := json.Marshal(v.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	const q = `INSERT INTO feature_history (asof, symbol, interval, features) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, time.Unix(v.AsOf, 0).UTC(), v.Symbol, string(v.Interval), string(payload)); err != nil {
		s.l.Error("clickhouse feature_history insert error",
			applogger.String("symbol", v.Symbol),
			applogger.Error(err),
		)
		return fmt.Errorf("insert feature history: %w", err)
	}

	s.l.Debug("clickhouse feature_history insert ok",
		applogger.String("symbol", v.Symbol),
		applogger.String("interval", string(v.Interval)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func (s *CHFeatureHistory) Close() error {
	return s.ch.Close()
}
