package domain

import "fmt"

type TerminalMethod string

const (
	TerminalPerpetualGrowth TerminalMethod = "perpetual_growth"
	TerminalExitMultiple    TerminalMethod = "exit_multiple"
)

// Params holds every tunable input of an evaluation run. A Params value is
// built once (defaults, profile file, flag overrides) and then passed by
// value; nothing mutates it mid-run.
type Params struct {
	RiskFreeRate             float64        `mapstructure:"risk_free_rate"`
	MarketReturn             float64        `mapstructure:"market_return"`
	TerminalGrowthRate       float64        `mapstructure:"terminal_growth_rate"`
	DefaultDiscountRate      float64        `mapstructure:"default_discount_rate"`
	DefaultAnalystGrowthRate float64        `mapstructure:"default_analyst_growth_rate"`
	HighGrowthPeriod         int            `mapstructure:"high_growth_period"`
	TransitionPeriod         int            `mapstructure:"transition_period"`
	SensitivityRange         float64        `mapstructure:"sensitivity_range"`
	NumMonteCarloSims        int            `mapstructure:"num_monte_carlo_sims"`
	TerminalMethod           TerminalMethod `mapstructure:"terminal_method"`
	ExitMultiple             float64        `mapstructure:"exit_multiple"`
	ConfidenceLevel          float64        `mapstructure:"confidence_level"`
	MaxRetries               int            `mapstructure:"max_retries"`
	Workers                  int            `mapstructure:"workers"` // 0 means GOMAXPROCS
}

// DefaultParams mirrors the documented defaults of the model.
func DefaultParams() Params {
	return Params{
		RiskFreeRate:             0.035,
		MarketReturn:             0.095,
		TerminalGrowthRate:       0.035,
		DefaultDiscountRate:      0.011,
		DefaultAnalystGrowthRate: 0.07,
		HighGrowthPeriod:         8,
		TransitionPeriod:         5,
		SensitivityRange:         0.04,
		NumMonteCarloSims:        10000,
		TerminalMethod:           TerminalExitMultiple,
		ExitMultiple:             20,
		ConfidenceLevel:          0.95,
		MaxRetries:               3,
	}
}

// Validate rejects parameter sets that can never produce a valid run.
// An unknown terminal method fails here, up front, instead of silently
// zeroing out every simulation trial.
func (p Params) Validate() error {
	switch p.TerminalMethod {
	case TerminalPerpetualGrowth, TerminalExitMultiple:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTerminalMethod, p.TerminalMethod)
	}
	if p.HighGrowthPeriod < 1 {
		return fmt.Errorf("high_growth_period must be at least 1, got %d", p.HighGrowthPeriod)
	}
	if p.TransitionPeriod < 0 {
		return fmt.Errorf("transition_period cannot be negative, got %d", p.TransitionPeriod)
	}
	if p.NumMonteCarloSims < 0 {
		return fmt.Errorf("num_monte_carlo_sims cannot be negative, got %d", p.NumMonteCarloSims)
	}
	if p.ConfidenceLevel <= 0 || p.ConfidenceLevel >= 1 {
		return fmt.Errorf("confidence_level must be in (0, 1), got %v", p.ConfidenceLevel)
	}
	return nil
}
