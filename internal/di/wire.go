//go:build wireinject
// +build wireinject

package di

import (
	"EquitySight/pkg/config"
	"EquitySight/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideHTTPClient,

		// Upstream adapters
		ProvidePriceSources,
		ProvideNewsSource,
		ProvideFundamentalsSource,
		ProvideModelLoader,
		ProvideFeatureHistory,
		ProvideQuoteStream,
		ProvideResponseCache,

		// Use cases
		ProvidePricesUseCase,
		ProvideFeaturesUseCase,
		ProvidePredictUseCase,
		ProvideValuationUseCase,
		ProvideQuoteBoard,

		// Transport
		ProvideStocksHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
