package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
)

func testBase() Base {
	params := domain.DefaultParams()
	params.NumMonteCarloSims = 500
	return Base{
		Revenue:            1000,
		FCFMargin:          0.2,
		DiscountRate:       0.10,
		TerminalGrowthRate: 0.035,
		SharesOutstanding:  100,
		Params:             params,
	}
}

func TestDriver_ZeroTrials(t *testing.T) {
	base := testBase()
	base.Params.NumMonteCarloSims = 0

	result := NewDriver(WithSeed(1)).Run(context.Background(), base)
	assert.Empty(t, result.Prices)
	assert.Equal(t, 0, result.Requested)
}

func TestDriver_ProducesRequestedTrials(t *testing.T) {
	base := testBase()

	result := NewDriver(WithSeed(42), WithWorkers(4)).Run(context.Background(), base)

	// Exit multiple method with positive revenue and margin cannot produce
	// invalid or non-positive trials, so nothing is discarded.
	require.Len(t, result.Prices, base.Params.NumMonteCarloSims)
	for _, p := range result.Prices {
		assert.Greater(t, p, 0.0)
	}
}

func TestDriver_ReproducibleWithSeed(t *testing.T) {
	base := testBase()

	a := NewDriver(WithSeed(7), WithWorkers(2)).Run(context.Background(), base)
	b := NewDriver(WithSeed(7), WithWorkers(2)).Run(context.Background(), base)

	assert.InEpsilon(t, Mean(a.Prices), Mean(b.Prices), 1e-12)
	assert.Len(t, b.Prices, len(a.Prices))
}

func TestDriver_DiscardsTrialsThatCannotPrice(t *testing.T) {
	base := testBase()
	base.Params.TerminalMethod = domain.TerminalPerpetualGrowth
	// Terminal growth draws are clipped to [0.01, 0.06] and discount draws to
	// [0.01, 0.20]; with a tiny base discount rate every draw lands at the
	// 0.01 floor and the perpetual growth spread check rejects most trials.
	base.DiscountRate = 0.001
	base.TerminalGrowthRate = 0.05

	result := NewDriver(WithSeed(11)).Run(context.Background(), base)
	assert.Less(t, len(result.Prices), base.Params.NumMonteCarloSims)
}

func TestDriver_ZeroSharesDiscardsAllTrials(t *testing.T) {
	base := testBase()
	base.SharesOutstanding = 0
	base.Params.NumMonteCarloSims = 50

	// Every trial errors inside the pricing engine; errored trials are
	// discarded the same way invalid rate configurations are.
	result := NewDriver(WithSeed(5)).Run(context.Background(), base)
	assert.Empty(t, result.Prices)
	assert.Equal(t, 50, result.Requested)
}

func TestDriver_SingleWorkerMatchesTrialCount(t *testing.T) {
	base := testBase()
	base.Params.NumMonteCarloSims = 37

	result := NewDriver(WithSeed(3), WithWorkers(8)).Run(context.Background(), base)
	assert.Len(t, result.Prices, 37)
}
