package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fin-tools/value-atlas/pkg/services/config"
)

type ParamsCmd struct {
	profilePath string
}

// NewParamsCmd prints the effective parameter set, defaults merged with an
// optional profile.
func NewParamsCmd() *cobra.Command {
	pc := &ParamsCmd{}
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Show the effective valuation parameters",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.profilePath, "profile", "", "Path to a YAML parameter profile")

	return cmd
}

func (pc *ParamsCmd) run(cmd *cobra.Command, _ []string) error {
	params, err := config.LoadParams(pc.profilePath)
	if err != nil {
		return fmt.Errorf("load parameters: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "risk_free_rate:              %.4f\n", params.RiskFreeRate)
	fmt.Fprintf(out, "market_return:               %.4f\n", params.MarketReturn)
	fmt.Fprintf(out, "terminal_growth_rate:        %.4f\n", params.TerminalGrowthRate)
	fmt.Fprintf(out, "default_discount_rate:       %.4f\n", params.DefaultDiscountRate)
	fmt.Fprintf(out, "default_analyst_growth_rate: %.4f\n", params.DefaultAnalystGrowthRate)
	fmt.Fprintf(out, "high_growth_period:          %d\n", params.HighGrowthPeriod)
	fmt.Fprintf(out, "transition_period:           %d\n", params.TransitionPeriod)
	fmt.Fprintf(out, "sensitivity_range:           %.4f\n", params.SensitivityRange)
	fmt.Fprintf(out, "num_monte_carlo_sims:        %d\n", params.NumMonteCarloSims)
	fmt.Fprintf(out, "terminal_method:             %s\n", params.TerminalMethod)
	fmt.Fprintf(out, "exit_multiple:               %.2f\n", params.ExitMultiple)
	fmt.Fprintf(out, "confidence_level:            %.2f\n", params.ConfidenceLevel)
	fmt.Fprintf(out, "max_retries:                 %d\n", params.MaxRetries)
	fmt.Fprintf(out, "workers:                     %d\n", params.Workers)

	return nil
}
