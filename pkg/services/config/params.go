// Package config builds the immutable parameter set for evaluation runs
// from defaults plus an optional profile file.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
)

// LoadParams returns the model parameters: documented defaults, overlaid
// with the profile file when a path is given. Any format viper understands
// (yaml, toml, json) works.
func LoadParams(profilePath string) (domain.Params, error) {
	v := viper.New()
	setDefaults(v, domain.DefaultParams())

	if profilePath != "" {
		v.SetConfigFile(profilePath)
		if err := v.ReadInConfig(); err != nil {
			return domain.Params{}, fmt.Errorf("failed to read profile file: %w", err)
		}
	}

	var params domain.Params
	if err := v.Unmarshal(&params); err != nil {
		return domain.Params{}, fmt.Errorf("failed to parse parameters: %w", err)
	}

	if err := params.Validate(); err != nil {
		return domain.Params{}, err
	}
	return params, nil
}

func setDefaults(v *viper.Viper, d domain.Params) {
	v.SetDefault("risk_free_rate", d.RiskFreeRate)
	v.SetDefault("market_return", d.MarketReturn)
	v.SetDefault("terminal_growth_rate", d.TerminalGrowthRate)
	v.SetDefault("default_discount_rate", d.DefaultDiscountRate)
	v.SetDefault("default_analyst_growth_rate", d.DefaultAnalystGrowthRate)
	v.SetDefault("high_growth_period", d.HighGrowthPeriod)
	v.SetDefault("transition_period", d.TransitionPeriod)
	v.SetDefault("sensitivity_range", d.SensitivityRange)
	v.SetDefault("num_monte_carlo_sims", d.NumMonteCarloSims)
	v.SetDefault("terminal_method", string(d.TerminalMethod))
	v.SetDefault("exit_multiple", d.ExitMultiple)
	v.SetDefault("confidence_level", d.ConfidenceLevel)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("workers", d.Workers)
}
