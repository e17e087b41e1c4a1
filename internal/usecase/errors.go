package usecase

import "fmt"

// AllProvidersFailedError means the whole price cascade was exhausted. It
// keeps the last adapter's error for diagnostics.
type AllProvidersFailedError struct {
	Symbol   string
	Interval string
	LastErr  error
}

func (e *AllProvidersFailedError) Error() string {
	return fmt.Sprintf("all providers failed for %s (%s): %v", e.Symbol, e.Interval, e.LastErr)
}

func (e *AllProvidersFailedError) Unwrap() error { return e.LastErr }

// NoPriceDataError is fatal to feature assembly: indicators are undefined
// without history, so an empty series is never defaulted to zeros.
type NoPriceDataError struct {
	Symbol string
}

func (e *NoPriceDataError) Error() string {
	return fmt.Sprintf("no price data available for %s", e.Symbol)
}
