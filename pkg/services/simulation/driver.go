// Package simulation runs the Monte Carlo layer over the DCF engine and
// derives the distribution statistics presentation layers consume.
package simulation

import (
	"context"
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
	"github.com/fin-tools/value-atlas/pkg/services/dcf"
)

// growthRateCenter is the mean of the per-trial growth draw. The model keeps
// it fixed; the analyst growth estimate is reported alongside, not fed back.
const growthRateCenter = 0.05

// Clip bounds for the per-trial draws.
const (
	growthMin, growthMax     = -0.20, 0.50
	discountMin, discountMax = 0.01, 0.20
	terminalMin, terminalMax = 0.01, 0.06
)

// Base carries the deterministic inputs every trial perturbs.
type Base struct {
	Revenue            float64
	FCFMargin          float64
	DiscountRate       float64
	TerminalGrowthRate float64
	SharesOutstanding  float64
	Params             domain.Params
}

// Driver runs independent trials on a bounded worker pool. The zero value is
// not usable; construct with NewDriver.
type Driver struct {
	workers int
	seed    uint64
}

type Option func(*Driver)

// WithSeed pins the random source so runs are reproducible.
func WithSeed(seed uint64) Option {
	return func(d *Driver) { d.seed = seed }
}

// WithWorkers bounds the trial worker pool. Values below 1 fall back to
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(d *Driver) { d.workers = n }
}

func NewDriver(opts ...Option) *Driver {
	d := &Driver{seed: rand.Uint64()}
	for _, opt := range opts {
		opt(d)
	}
	if d.workers < 1 {
		d.workers = runtime.GOMAXPROCS(0)
	}
	return d
}

// Run produces up to Params.NumMonteCarloSims valid trial prices. Trials that
// produce a configuration error or a non-positive price are discarded, not
// retried; the result may be smaller than requested. A request for zero
// trials yields an empty result.
func (d *Driver) Run(ctx context.Context, base Base) domain.SimulationResult {
	logger := zerolog.Ctx(ctx)

	total := base.Params.NumMonteCarloSims
	result := domain.SimulationResult{Requested: total}
	if total <= 0 {
		return result
	}

	workers := d.workers
	if workers > total {
		workers = total
	}

	prices := make(chan float64, total)
	var discarded sync.Map // worker id -> trialStats

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		trials := total / workers
		if w < total%workers {
			trials++
		}

		wg.Add(1)
		go func(worker, trials int) {
			defer wg.Done()
			stats := d.runTrials(worker, trials, base, prices)
			discarded.Store(worker, stats)
		}(w, trials)
	}

	wg.Wait()
	close(prices)

	for price := range prices {
		result.Prices = append(result.Prices, price)
	}

	var errored, nonPositive int
	discarded.Range(func(_, v any) bool {
		s := v.(trialStats)
		errored += s.errored
		nonPositive += s.nonPositive
		return true
	})
	if errored > 0 || nonPositive > 0 {
		logger.Debug().
			Int("requested", total).
			Int("valid", len(result.Prices)).
			Int("errored", errored).
			Int("non_positive", nonPositive).
			Msg("discarded simulation trials")
	}

	return result
}

type trialStats struct {
	errored     int
	nonPositive int
}

func (d *Driver) runTrials(worker, trials int, base Base, out chan<- float64) trialStats {
	sens := base.Params.SensitivityRange

	// Each worker owns its source; PCG streams are disjoint per worker.
	src := rand.NewPCG(d.seed, uint64(worker))
	growth := normal(growthRateCenter, sens, src)
	discount := normal(base.DiscountRate, sens*base.DiscountRate, src)
	terminal := normal(base.TerminalGrowthRate, sens*base.TerminalGrowthRate, src)

	var stats trialStats
	for i := 0; i < trials; i++ {
		growthRate := clip(growth.Rand(), growthMin, growthMax)
		discountRate := clip(discount.Rand(), discountMin, discountMax)
		terminalRate := clip(terminal.Rand(), terminalMin, terminalMax)

		price, err := dcf.ImpliedShareValue(dcf.Inputs{
			Revenue:            base.Revenue,
			HighGrowthRate:     growthRate,
			TransitionRate:     growthRate * 0.5,
			FCFMargin:          base.FCFMargin,
			DiscountRate:       discountRate,
			TerminalGrowthRate: terminalRate,
			SharesOutstanding:  base.SharesOutstanding,
			Params:             base.Params,
		})
		switch {
		case err != nil:
			stats.errored++
		case price <= 0:
			stats.nonPositive++
		default:
			out <- price
		}
	}
	return stats
}

func normal(mu, sigma float64, src rand.Source) distuv.Normal {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: src}
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
