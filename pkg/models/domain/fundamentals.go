package domain

import "time"

// Fundamentals is a single all-or-nothing snapshot of the figures the DCF
// model needs. Optional fields are pointers; nil means the provider had no
// value, not zero.
type Fundamentals struct {
	Ticker            string
	Price             float64
	Revenue           float64
	FreeCashFlow      float64
	SharesOutstanding float64
	Debt              *float64
	MarketCap         *float64
	Beta              *float64
	FetchedAt         time.Time
}

type GrowthSource string

const (
	GrowthSourceEarnings GrowthSource = "earnings"
	GrowthSourceDefault  GrowthSource = "default"
)

// GrowthEstimate records the forward growth rate together with where it came
// from, so callers can tell real data from the configured fallback.
type GrowthEstimate struct {
	Rate   float64
	Source GrowthSource
	Reason string // populated when Source is GrowthSourceDefault
}

type DiscountMethod string

const (
	DiscountMethodWACC    DiscountMethod = "wacc"
	DiscountMethodCAPM    DiscountMethod = "capm"
	DiscountMethodDefault DiscountMethod = "default"
)

// DiscountEstimate is the blended cost of capital plus the method that
// produced it.
type DiscountEstimate struct {
	Rate   float64
	Method DiscountMethod
}
