// Package valuation orchestrates one evaluation run: fundamentals snapshot,
// growth and discount estimates, Monte Carlo simulation, classification and
// report assembly. Chart rendering stays outside; the report carries the
// histogram data presentation layers need.
package valuation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
	"github.com/fin-tools/value-atlas/pkg/services/simulation"
)

// HistogramBins is the bucket count of the reported price distribution.
const HistogramBins = 50

type FundamentalsFetcher interface {
	FetchFundamentals(ctx context.Context, ticker string) (domain.Fundamentals, error)
}

type GrowthEstimator interface {
	ForwardGrowth(ctx context.Context, ticker string) domain.GrowthEstimate
}

type DiscountCalculator interface {
	DiscountRate(beta, debt, marketCap *float64) domain.DiscountEstimate
}

type SimulationRunner interface {
	Run(ctx context.Context, base simulation.Base) domain.SimulationResult
}

type Evaluator struct {
	fetcher  FundamentalsFetcher
	growth   GrowthEstimator
	discount DiscountCalculator
	sims     SimulationRunner
}

func NewEvaluator(
	fetcher FundamentalsFetcher,
	growth GrowthEstimator,
	discount DiscountCalculator,
	sims SimulationRunner,
) *Evaluator {
	return &Evaluator{
		fetcher:  fetcher,
		growth:   growth,
		discount: discount,
		sims:     sims,
	}
}

// Evaluate runs the full valuation for a ticker with the given parameters.
// Parameters are validated up front, so a bad terminal method fails fast
// instead of bleeding every simulation trial dry.
func (e *Evaluator) Evaluate(ctx context.Context, ticker string, params domain.Params) (domain.Report, error) {
	logger := zerolog.Ctx(ctx)

	if err := params.Validate(); err != nil {
		return domain.Report{}, err
	}

	fundamentals, err := e.fetcher.FetchFundamentals(ctx, ticker)
	if err != nil {
		return domain.Report{}, fmt.Errorf("fetch fundamentals for %s: %w", ticker, err)
	}

	if fundamentals.Revenue == 0 {
		return domain.Report{}, domain.ErrZeroRevenue
	}
	fcfMargin := fundamentals.FreeCashFlow / fundamentals.Revenue

	growth := e.growth.ForwardGrowth(ctx, ticker)
	discount := e.discount.DiscountRate(fundamentals.Beta, fundamentals.Debt, fundamentals.MarketCap)

	logger.Info().
		Str("ticker", ticker).
		Float64("price", fundamentals.Price).
		Float64("fcf_margin", fcfMargin).
		Float64("discount_rate", discount.Rate).
		Str("discount_method", string(discount.Method)).
		Int("trials", params.NumMonteCarloSims).
		Msg("starting simulation")

	result := e.sims.Run(ctx, simulation.Base{
		Revenue:            fundamentals.Revenue,
		FCFMargin:          fcfMargin,
		DiscountRate:       discount.Rate,
		TerminalGrowthRate: params.TerminalGrowthRate,
		SharesOutstanding:  fundamentals.SharesOutstanding,
		Params:             params,
	})
	if len(result.Prices) == 0 {
		return domain.Report{}, domain.ErrNoValidSimulations
	}

	mean := simulation.Mean(result.Prices)

	return domain.Report{
		Ticker:             ticker,
		StockPrice:         fundamentals.Price,
		MeanSimulatedPrice: mean,
		ValuationStatus:    Classify(fundamentals.Price, mean),
		Revenue:            fundamentals.Revenue,
		FreeCashFlow:       fundamentals.FreeCashFlow,
		FCFMargin:          fcfMargin,
		FetchedAt:          fundamentals.FetchedAt,
		AnalystGrowth:      growth,
		Discount:           discount,
		Simulations:        len(result.Prices),
		Interval:           simulation.Interval(result.Prices, params.ConfidenceLevel),
		Histogram:          simulation.Histogram(result.Prices, HistogramBins),
		SimulatedPrices:    result.Prices,
	}, nil
}

// Classify compares the market price against the mean simulated price.
// The bounds are strict: exactly 90% or 110% of the mean is Fairly Priced.
func Classify(price, meanSimulated float64) domain.ValuationStatus {
	switch {
	case price < meanSimulated*0.9:
		return domain.StatusUndervalued
	case price > meanSimulated*1.1:
		return domain.StatusOvervalued
	default:
		return domain.StatusFairlyPriced
	}
}
