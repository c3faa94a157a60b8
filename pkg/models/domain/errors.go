package domain

import "errors"

var (
	// ErrDataUnavailable means a required fundamental field was still missing
	// after the fetcher exhausted its retries.
	ErrDataUnavailable = errors.New("failed to fetch stock data")

	// ErrZeroRevenue guards the FCF margin division.
	ErrZeroRevenue = errors.New("revenue is zero")

	// ErrNoValidSimulations means every Monte Carlo trial was discarded.
	ErrNoValidSimulations = errors.New("no valid simulations")

	// ErrInvalidTerminalMethod is raised for a terminal method outside
	// {perpetual_growth, exit_multiple}.
	ErrInvalidTerminalMethod = errors.New("invalid terminal method")

	// ErrInvalidRates is raised by the perpetual growth method when the
	// discount rate does not exceed the terminal growth rate.
	ErrInvalidRates = errors.New("discount rate must exceed terminal growth rate")
)

const StatusSuccess = "Success"

// StatusFor maps an evaluation error to the human-readable status string
// presentation layers display. A nil error maps to StatusSuccess.
func StatusFor(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrDataUnavailable):
		return "Failed to fetch stock data"
	case errors.Is(err, ErrZeroRevenue):
		return "Revenue is zero"
	case errors.Is(err, ErrNoValidSimulations):
		return "No valid simulations"
	case errors.Is(err, ErrInvalidTerminalMethod):
		return "Invalid terminal method"
	default:
		return err.Error()
	}
}
