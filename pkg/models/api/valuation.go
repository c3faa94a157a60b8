package api

import (
	"time"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
)

// ValuationRequest carries optional parameter overrides for one run. Absent
// fields keep the server's configured values.
type ValuationRequest struct {
	RiskFreeRate             *float64 `json:"risk_free_rate,omitempty"`
	MarketReturn             *float64 `json:"market_return,omitempty"`
	TerminalGrowthRate       *float64 `json:"terminal_growth_rate,omitempty"`
	DefaultDiscountRate      *float64 `json:"default_discount_rate,omitempty"`
	DefaultAnalystGrowthRate *float64 `json:"default_analyst_growth_rate,omitempty"`
	HighGrowthPeriod         *int     `json:"high_growth_period,omitempty"`
	TransitionPeriod         *int     `json:"transition_period,omitempty"`
	SensitivityRange         *float64 `json:"sensitivity_range,omitempty"`
	NumMonteCarloSims        *int     `json:"num_monte_carlo_sims,omitempty"`
	TerminalMethod           *string  `json:"terminal_method,omitempty"`
	ExitMultiple             *float64 `json:"exit_multiple,omitempty"`
	ConfidenceLevel          *float64 `json:"confidence_level,omitempty"`
}

// Apply merges the overrides onto base and returns the result.
func (r ValuationRequest) Apply(base domain.Params) domain.Params {
	if r.RiskFreeRate != nil {
		base.RiskFreeRate = *r.RiskFreeRate
	}
	if r.MarketReturn != nil {
		base.MarketReturn = *r.MarketReturn
	}
	if r.TerminalGrowthRate != nil {
		base.TerminalGrowthRate = *r.TerminalGrowthRate
	}
	if r.DefaultDiscountRate != nil {
		base.DefaultDiscountRate = *r.DefaultDiscountRate
	}
	if r.DefaultAnalystGrowthRate != nil {
		base.DefaultAnalystGrowthRate = *r.DefaultAnalystGrowthRate
	}
	if r.HighGrowthPeriod != nil {
		base.HighGrowthPeriod = *r.HighGrowthPeriod
	}
	if r.TransitionPeriod != nil {
		base.TransitionPeriod = *r.TransitionPeriod
	}
	if r.SensitivityRange != nil {
		base.SensitivityRange = *r.SensitivityRange
	}
	if r.NumMonteCarloSims != nil {
		base.NumMonteCarloSims = *r.NumMonteCarloSims
	}
	if r.TerminalMethod != nil {
		base.TerminalMethod = domain.TerminalMethod(*r.TerminalMethod)
	}
	if r.ExitMultiple != nil {
		base.ExitMultiple = *r.ExitMultiple
	}
	if r.ConfidenceLevel != nil {
		base.ConfidenceLevel = *r.ConfidenceLevel
	}
	return base
}

// ValuationResponse mirrors the report record shown by presentation layers.
type ValuationResponse struct {
	Ticker             string                `json:"ticker"`
	Status             string                `json:"status"`
	StockPrice         float64               `json:"stock_price"`
	MeanSimulatedPrice float64               `json:"mean_simulated_price"`
	ValuationStatus    string                `json:"valuation_status"`
	Revenue            float64               `json:"revenue"`
	FreeCashFlow       float64               `json:"free_cash_flow"`
	FCFMargin          float64               `json:"fcf_margin"`
	AnalystGrowthRate  float64               `json:"analyst_growth_rate"`
	GrowthSource       string                `json:"growth_source"`
	DiscountRate       float64               `json:"discount_rate"`
	DiscountMethod     string                `json:"discount_method"`
	Simulations        int                   `json:"simulations"`
	Interval           domain.Interval       `json:"confidence_interval"`
	Histogram          []domain.HistogramBin `json:"histogram"`
	FetchedAt          time.Time             `json:"fetched_at"`
}

// Error is the body returned for failed evaluations.
type Error struct {
	Status string `json:"status"`
}

// FromReport converts a domain report into its API shape.
func FromReport(r domain.Report) ValuationResponse {
	return ValuationResponse{
		Ticker:             r.Ticker,
		Status:             domain.StatusSuccess,
		StockPrice:         r.StockPrice,
		MeanSimulatedPrice: r.MeanSimulatedPrice,
		ValuationStatus:    string(r.ValuationStatus),
		Revenue:            r.Revenue,
		FreeCashFlow:       r.FreeCashFlow,
		FCFMargin:          r.FCFMargin,
		AnalystGrowthRate:  r.AnalystGrowth.Rate,
		GrowthSource:       string(r.AnalystGrowth.Source),
		DiscountRate:       r.Discount.Rate,
		DiscountMethod:     string(r.Discount.Method),
		Simulations:        r.Simulations,
		Interval:           r.Interval,
		Histogram:          r.Histogram,
		FetchedAt:          r.FetchedAt,
	}
}
