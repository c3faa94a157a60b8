package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fin-tools/value-atlas/pkg/charts"
	"github.com/fin-tools/value-atlas/pkg/models/domain"
	"github.com/fin-tools/value-atlas/pkg/runtime/terminal/export"
	"github.com/fin-tools/value-atlas/pkg/services/config"
	"github.com/fin-tools/value-atlas/pkg/services/simulation"
)

// Evaluator runs one valuation for a ticker.
type Evaluator interface {
	Evaluate(ctx context.Context, ticker string, params domain.Params) (domain.Report, error)
}

// Factory builds an evaluator wired for one run's parameter set.
type Factory func(params domain.Params, opts ...simulation.Option) Evaluator

type EvaluateCmd struct {
	profilePath string
	sims        int
	method      string
	seed        uint64
	chartPath   string
	verbose     bool
	factory     Factory
	reporter    *export.Reporter
}

func NewEvaluateCmd(factory Factory, reporter *export.Reporter) *cobra.Command {
	ec := &EvaluateCmd{factory: factory, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "evaluate <ticker>",
		Short: "Run a Monte Carlo DCF valuation for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.profilePath, "profile", "", "Path to a YAML parameter profile")
	cmd.Flags().IntVar(&ec.sims, "sims", 0, "Override the number of Monte Carlo trials")
	cmd.Flags().StringVar(&ec.method, "method", "", "Terminal value method (perpetual_growth or exit_multiple)")
	cmd.Flags().Uint64Var(&ec.seed, "seed", 0, "Random seed for reproducible runs (0 picks one)")
	cmd.Flags().StringVar(&ec.chartPath, "chart", "", "Write the price distribution chart PNG to this path")
	cmd.Flags().BoolVarP(&ec.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func (ec *EvaluateCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 120*time.Second)
	defer cancel()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !ec.verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}
	ctx = logger.WithContext(ctx)

	params, err := config.LoadParams(ec.profilePath)
	if err != nil {
		return fmt.Errorf("load parameters: %w", err)
	}
	if ec.sims > 0 {
		params.NumMonteCarloSims = ec.sims
	}
	if ec.method != "" {
		params.TerminalMethod = domain.TerminalMethod(ec.method)
	}

	var simOpts []simulation.Option
	if ec.seed != 0 {
		simOpts = append(simOpts, simulation.WithSeed(ec.seed))
	}
	if params.Workers > 0 {
		simOpts = append(simOpts, simulation.WithWorkers(params.Workers))
	}

	ticker := strings.ToUpper(args[0])
	report, err := ec.factory(params, simOpts...).Evaluate(ctx, ticker, params)
	if err != nil {
		return fmt.Errorf("%s: %s", ticker, domain.StatusFor(err))
	}

	if err := ec.reporter.Handle(report); err != nil {
		return err
	}

	if ec.chartPath != "" {
		if err := charts.WriteHistogram(report, ec.chartPath); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", ec.chartPath)
	}

	return nil
}
