package repository

import (
	"context"

	"EquitySight/internal/domain/models"
)

type PriceSource interface {
	Name() models.Provider
	Fetch(ctx context.Context, symbol string, interval models.Interval, limit int) (*models.PriceSeries, error)
}

type NewsSource interface {
	Search(ctx context.Context, query string, maxItems int) ([]models.NewsItem, error)
}

type FundamentalsSource interface {
	Get(ctx context.Context, symbol string) (*models.Fundamentals, error)
}

type FeatureHistory interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Append(ctx context.Context, v *models.FeatureVector) error
	Close() error
}

type QuoteStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}
