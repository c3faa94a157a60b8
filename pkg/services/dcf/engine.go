// Package dcf implements the multi-stage discounted cash flow model: revenue
// projection over a high-growth and a transition phase, a terminal value, and
// discounting back to an implied per-share value.
package dcf

import (
	"fmt"
	"math"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
)

// Inputs are the per-run figures the engine needs on top of Params.
type Inputs struct {
	Revenue            float64
	HighGrowthRate     float64
	TransitionRate     float64
	FCFMargin          float64
	DiscountRate       float64
	TerminalGrowthRate float64
	SharesOutstanding  float64
	Params             domain.Params
}

// ProjectRevenues compounds base revenue geometrically: highYears at highRate,
// then transitionYears at transitionRate off the last high-growth year.
func ProjectRevenues(base, highRate, transitionRate float64, highYears, transitionYears int) []float64 {
	revenues := make([]float64, 0, highYears+transitionYears)
	for t := 1; t <= highYears; t++ {
		revenues = append(revenues, base*math.Pow(1+highRate, float64(t)))
	}
	pivot := base
	if highYears > 0 {
		pivot = revenues[highYears-1]
	}
	for t := 1; t <= transitionYears; t++ {
		revenues = append(revenues, pivot*math.Pow(1+transitionRate, float64(t)))
	}
	return revenues
}

// ImpliedShareValue runs the full model and returns the present value per
// share. It returns ErrInvalidTerminalMethod for an unknown terminal method
// and ErrInvalidRates when the perpetual growth method is asked to divide by
// a non-positive spread.
func ImpliedShareValue(in Inputs) (float64, error) {
	if in.SharesOutstanding == 0 {
		return 0, fmt.Errorf("shares outstanding is zero")
	}

	revenues := ProjectRevenues(
		in.Revenue,
		in.HighGrowthRate,
		in.TransitionRate,
		in.Params.HighGrowthPeriod,
		in.Params.TransitionPeriod,
	)
	if len(revenues) == 0 {
		return 0, fmt.Errorf("projection horizon is empty")
	}
	lastRevenue := revenues[len(revenues)-1]

	terminalValue, err := terminalValue(lastRevenue, in)
	if err != nil {
		return 0, err
	}

	var npv float64
	for t, revenue := range revenues {
		fcf := revenue * in.FCFMargin
		npv += fcf / math.Pow(1+in.DiscountRate, float64(t+1))
	}
	npv += terminalValue / math.Pow(1+in.DiscountRate, float64(len(revenues)))

	return npv / in.SharesOutstanding, nil
}

func terminalValue(lastRevenue float64, in Inputs) (float64, error) {
	switch in.Params.TerminalMethod {
	case domain.TerminalPerpetualGrowth:
		if in.DiscountRate <= in.TerminalGrowthRate {
			return 0, fmt.Errorf("%w: discount %v, terminal growth %v",
				domain.ErrInvalidRates, in.DiscountRate, in.TerminalGrowthRate)
		}
		terminalFCF := lastRevenue * (1 + in.TerminalGrowthRate) * in.FCFMargin
		return terminalFCF / (in.DiscountRate - in.TerminalGrowthRate), nil
	case domain.TerminalExitMultiple:
		return lastRevenue * in.FCFMargin * in.Params.ExitMultiple, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidTerminalMethod, in.Params.TerminalMethod)
	}
}
