package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
	"github.com/fin-tools/value-atlas/pkg/runtime/terminal"
	"github.com/fin-tools/value-atlas/pkg/runtime/terminal/commands"
	"github.com/fin-tools/value-atlas/pkg/services/earnings"
	"github.com/fin-tools/value-atlas/pkg/services/marketdata"
	"github.com/fin-tools/value-atlas/pkg/services/rates"
	"github.com/fin-tools/value-atlas/pkg/services/simulation"
	"github.com/fin-tools/value-atlas/pkg/services/valuation"
)

func main() {
	_ = godotenv.Load()

	cli := terminal.NewCLI(terminal.Options{
		Factory: func(params domain.Params, opts ...simulation.Option) commands.Evaluator {
			return valuation.NewEvaluator(
				marketdata.NewClient(params),
				earnings.NewEstimator(params, os.Getenv("ALPHAVANTAGE_API_KEY")),
				rates.NewCalculator(params),
				simulation.NewDriver(opts...),
			)
		},
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
