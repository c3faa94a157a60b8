package simulation

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
)

// Mean is the arithmetic mean of the simulated prices, 0 for an empty run.
func Mean(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	return stat.Mean(prices, nil)
}

// Interval returns the two-sided confidence interval over the prices using
// empirical quantiles at (1±confidence)/2.
func Interval(prices []float64, confidence float64) domain.Interval {
	iv := domain.Interval{Confidence: confidence}
	if len(prices) == 0 {
		return iv
	}

	sorted := slices.Clone(prices)
	slices.Sort(sorted)

	iv.Lower = stat.Quantile((1-confidence)/2, stat.Empirical, sorted, nil)
	iv.Upper = stat.Quantile((1+confidence)/2, stat.Empirical, sorted, nil)
	return iv
}

// Histogram buckets the prices into uniform-width bins spanning
// [min, max]. All prices equal collapses to a single bin.
func Histogram(prices []float64, bins int) []domain.HistogramBin {
	if len(prices) == 0 || bins < 1 {
		return nil
	}

	lo := slices.Min(prices)
	hi := slices.Max(prices)
	if lo == hi {
		return []domain.HistogramBin{{Lower: lo, Upper: hi, Count: len(prices)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]domain.HistogramBin, bins)
	for i := range out {
		out[i] = domain.HistogramBin{
			Lower: lo + float64(i)*width,
			Upper: lo + float64(i+1)*width,
		}
	}
	for _, p := range prices {
		idx := int((p - lo) / width)
		if idx >= bins { // p == hi lands past the last bin
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}
