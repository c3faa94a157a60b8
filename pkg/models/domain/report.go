package domain

import "time"

type ValuationStatus string

const (
	StatusUndervalued  ValuationStatus = "Undervalued"
	StatusOvervalued   ValuationStatus = "Overvalued"
	StatusFairlyPriced ValuationStatus = "Fairly Priced"
)

// Report is the final output of one evaluation run.
type Report struct {
	Ticker             string
	StockPrice         float64
	MeanSimulatedPrice float64
	ValuationStatus    ValuationStatus
	Revenue            float64
	FreeCashFlow       float64
	FCFMargin          float64
	FetchedAt          time.Time // when the fundamentals snapshot was taken

	// Supporting detail for presentation layers.
	AnalystGrowth   GrowthEstimate
	Discount        DiscountEstimate
	Simulations     int // surviving trials
	Interval        Interval
	Histogram       []HistogramBin
	SimulatedPrices []float64
}
