package domain

// SimulationResult holds the surviving trial prices of a Monte Carlo run, in
// completion order. Derived statistics (mean, quantiles, histogram) are
// computed by the simulation service; they are order-independent.
type SimulationResult struct {
	Requested int
	Prices    []float64
}

// HistogramBin is one bucket of the simulated price distribution.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Interval is a two-sided confidence interval over the simulated prices.
type Interval struct {
	Confidence float64 `json:"confidence"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
}
