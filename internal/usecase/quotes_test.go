package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"EquitySight/internal/domain/models"
)

type fakeStream struct {
	quotes    chan *models.Quote
	errs      chan error
	connected bool
}

func newFakeStream() *fakeStream {
	return &fakeStream{quotes: make(chan *models.Quote, 8), errs: make(chan error, 1)}
}

func (f *fakeStream) Connect(context.Context) error { f.connected = true; return nil }

func (f *fakeStream) Subscribe(context.Context) error { return nil }

func (f *fakeStream) Read(context.Context) (<-chan *models.Quote, <-chan error) {
	return f.quotes, f.errs
}

func (f *fakeStream) Reconnect(context.Context) error { return nil }

func (f *fakeStream) Close() error { f.connected = false; return nil }

func (f *fakeStream) IsConnected() bool { return f.connected }

func TestQuoteBoardTracksLatest(t *testing.T) {
	stream := newFakeStream()
	board := NewQuoteBoard(stream, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, board.Start(ctx))
	require.True(t, board.IsConnected())

	stream.quotes <- &models.Quote{Symbol: "AAPL", Price: 150, Timestamp: 1}
	stream.quotes <- &models.Quote{Symbol: "AAPL", Price: 151, Timestamp: 2}
	stream.quotes <- &models.Quote{Symbol: "MSFT", Price: 400, Timestamp: 3}

	require.Eventually(t, func() bool {
		q, ok := board.Latest("aapl")
		return ok && q.Price == 151
	}, time.Second, 5*time.Millisecond)

	q, ok := board.Latest("MSFT")
	require.True(t, ok)
	require.Equal(t, 400.0, q.Price)

	_, ok = board.Latest("TSLA")
	require.False(t, ok)

	require.NoError(t, board.Stop())
	require.False(t, board.IsConnected())
}

func TestQuoteBoardNilStreamDisabled(t *testing.T) {
	board := NewQuoteBoard(nil, testLogger(t))
	require.NoError(t, board.Start(context.Background()))
	require.False(t, board.IsConnected())
	require.NoError(t, board.Stop())
}
