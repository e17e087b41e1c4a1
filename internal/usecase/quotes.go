package usecase

import (
	"context"
	"strings"
	"sync"

	"EquitySight/internal/domain/models"
	drepo "EquitySight/internal/domain/repository"
	"EquitySight/pkg/logger"
)

// QuoteBoard keeps the latest live trade per subscribed symbol, fed by the
// streaming feed in the background.
type QuoteBoard struct {
	stream drepo.QuoteStream
	log    *logger.Logger

	mu     sync.RWMutex
	latest map[string]*models.Quote
}

func NewQuoteBoard(stream drepo.QuoteStream, log *logger.Logger) *QuoteBoard {
	return &QuoteBoard{
		stream: stream,
		log:    log,
		latest: make(map[string]*models.Quote),
	}
}

func (b *QuoteBoard) IsConnected() bool {
	return b.stream != nil && b.stream.IsConnected()
}

// Start connects and consumes until ctx is cancelled. A nil stream means the
// live board is disabled by configuration.
func (b *QuoteBoard) Start(ctx context.Context) error {
	if b.stream == nil {
		return nil
	}
	if err := b.stream.Connect(ctx); err != nil {
		return err
	}
	if err := b.stream.Subscribe(ctx); err != nil {
		return err
	}
	quotes, errs := b.stream.Read(ctx)
	go b.consume(ctx, quotes, errs)
	return nil
}

func (b *QuoteBoard) consume(ctx context.Context, quotes <-chan *models.Quote, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			if err != nil {
				b.log.Warn("quotes.board stream error, reconnecting", logger.Error(err))
				if rerr := b.stream.Reconnect(ctx); rerr != nil {
					b.log.Error("quotes.board reconnect failed", logger.Error(rerr))
				}
			}
		case q := <-quotes:
			if q == nil {
				continue
			}
			b.mu.Lock()
			b.latest[q.Symbol] = q
			b.mu.Unlock()
		}
	}
}

// Latest returns the freshest quote seen for the symbol, if any.
func (b *QuoteBoard) Latest(symbol string) (*models.Quote, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	q, ok := b.latest[strings.ToUpper(symbol)]
	return q, ok
}

func (b *QuoteBoard) Stop() error {
	if b.stream == nil {
		return nil
	}
	return b.stream.Close()
}
