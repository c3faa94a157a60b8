package valuation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
	"github.com/fin-tools/value-atlas/pkg/services/simulation"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchFundamentals(ctx context.Context, ticker string) (domain.Fundamentals, error) {
	args := m.Called(ctx, ticker)
	return args.Get(0).(domain.Fundamentals), args.Error(1)
}

type mockGrowth struct {
	mock.Mock
}

func (m *mockGrowth) ForwardGrowth(ctx context.Context, ticker string) domain.GrowthEstimate {
	args := m.Called(ctx, ticker)
	return args.Get(0).(domain.GrowthEstimate)
}

type mockDiscount struct {
	mock.Mock
}

func (m *mockDiscount) DiscountRate(beta, debt, marketCap *float64) domain.DiscountEstimate {
	args := m.Called(beta, debt, marketCap)
	return args.Get(0).(domain.DiscountEstimate)
}

type mockSims struct {
	mock.Mock
}

func (m *mockSims) Run(ctx context.Context, base simulation.Base) domain.SimulationResult {
	args := m.Called(ctx, base)
	return args.Get(0).(domain.SimulationResult)
}

func ptr(v float64) *float64 { return &v }

var snapshotTime = time.Date(2026, time.August, 23, 14, 30, 0, 0, time.UTC)

func healthyFundamentals() domain.Fundamentals {
	return domain.Fundamentals{
		Ticker:            "MSFT",
		Price:             100,
		Revenue:           1000,
		FreeCashFlow:      200,
		SharesOutstanding: 100,
		Debt:              ptr(50),
		MarketCap:         ptr(950),
		Beta:              ptr(1.1),
		FetchedAt:         snapshotTime,
	}
}

func newEvaluator() (*Evaluator, *mockFetcher, *mockGrowth, *mockDiscount, *mockSims) {
	fetcher := new(mockFetcher)
	growth := new(mockGrowth)
	discount := new(mockDiscount)
	sims := new(mockSims)
	return NewEvaluator(fetcher, growth, discount, sims), fetcher, growth, discount, sims
}

func TestEvaluate_Success(t *testing.T) {
	e, fetcher, growth, discount, sims := newEvaluator()
	params := domain.DefaultParams()

	fetcher.On("FetchFundamentals", mock.Anything, "MSFT").Return(healthyFundamentals(), nil)
	growth.On("ForwardGrowth", mock.Anything, "MSFT").
		Return(domain.GrowthEstimate{Rate: 0.12, Source: domain.GrowthSourceEarnings})
	discount.On("DiscountRate", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.DiscountEstimate{Rate: 0.09, Method: domain.DiscountMethodWACC})
	sims.On("Run", mock.Anything, mock.MatchedBy(func(base simulation.Base) bool {
		return base.Revenue == 1000 && base.FCFMargin == 0.2 && base.DiscountRate == 0.09
	})).Return(domain.SimulationResult{Requested: params.NumMonteCarloSims, Prices: []float64{90, 100, 110}})

	report, err := e.Evaluate(context.Background(), "MSFT", params)
	require.NoError(t, err)

	assert.Equal(t, "MSFT", report.Ticker)
	assert.Equal(t, 100.0, report.StockPrice)
	assert.InDelta(t, 100.0, report.MeanSimulatedPrice, 1e-9)
	assert.Equal(t, domain.StatusFairlyPriced, report.ValuationStatus)
	assert.Equal(t, 0.2, report.FCFMargin)
	assert.Equal(t, 3, report.Simulations)
	assert.NotEmpty(t, report.Histogram)
	assert.Equal(t, params.ConfidenceLevel, report.Interval.Confidence)
	assert.Equal(t, snapshotTime, report.FetchedAt)
}

func TestEvaluate_InvalidTerminalMethodFailsFast(t *testing.T) {
	e, fetcher, _, _, _ := newEvaluator()
	params := domain.DefaultParams()
	params.TerminalMethod = "book_value"

	_, err := e.Evaluate(context.Background(), "MSFT", params)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTerminalMethod)
	fetcher.AssertNotCalled(t, "FetchFundamentals", mock.Anything, mock.Anything)
}

func TestEvaluate_FetchFailure(t *testing.T) {
	e, fetcher, _, _, _ := newEvaluator()

	fetcher.On("FetchFundamentals", mock.Anything, "MSFT").
		Return(domain.Fundamentals{}, domain.ErrDataUnavailable)

	_, err := e.Evaluate(context.Background(), "MSFT", domain.DefaultParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
	assert.Equal(t, "Failed to fetch stock data", domain.StatusFor(err))
}

func TestEvaluate_ZeroRevenueShortCircuits(t *testing.T) {
	e, fetcher, growth, discount, sims := newEvaluator()

	f := healthyFundamentals()
	f.Revenue = 0
	fetcher.On("FetchFundamentals", mock.Anything, "MSFT").Return(f, nil)

	_, err := e.Evaluate(context.Background(), "MSFT", domain.DefaultParams())
	require.ErrorIs(t, err, domain.ErrZeroRevenue)
	assert.Equal(t, "Revenue is zero", domain.StatusFor(err))

	growth.AssertNotCalled(t, "ForwardGrowth", mock.Anything, mock.Anything)
	discount.AssertNotCalled(t, "DiscountRate", mock.Anything, mock.Anything, mock.Anything)
	sims.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestEvaluate_NoValidSimulations(t *testing.T) {
	e, fetcher, growth, discount, sims := newEvaluator()

	fetcher.On("FetchFundamentals", mock.Anything, "MSFT").Return(healthyFundamentals(), nil)
	growth.On("ForwardGrowth", mock.Anything, "MSFT").
		Return(domain.GrowthEstimate{Rate: 0.07, Source: domain.GrowthSourceDefault, Reason: "offline"})
	discount.On("DiscountRate", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.DiscountEstimate{Rate: 0.09, Method: domain.DiscountMethodCAPM})
	sims.On("Run", mock.Anything, mock.Anything).Return(domain.SimulationResult{Requested: 10000})

	_, err := e.Evaluate(context.Background(), "MSFT", domain.DefaultParams())
	require.ErrorIs(t, err, domain.ErrNoValidSimulations)
	assert.Equal(t, "No valid simulations", domain.StatusFor(err))
}

func TestClassify_Boundaries(t *testing.T) {
	const mean = 100.0

	tests := []struct {
		name  string
		price float64
		want  domain.ValuationStatus
	}{
		{"exactly at lower threshold stays fair", 90.0, domain.StatusFairlyPriced},
		{"just under lower threshold", 89.99, domain.StatusUndervalued},
		{"exactly at upper threshold stays fair", 110.0, domain.StatusFairlyPriced},
		{"just over upper threshold", 110.01, domain.StatusOvervalued},
		{"price equals mean", 100.0, domain.StatusFairlyPriced},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.price, mean))
		})
	}
}
