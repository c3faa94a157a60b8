// Package rates computes the discount rate used by the valuation model:
// CAPM for the cost of equity, blended into a WACC when the capital
// structure is known.
package rates

import (
	"math"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
)

type Calculator struct {
	riskFreeRate        float64
	marketReturn        float64
	defaultDiscountRate float64
}

func NewCalculator(params domain.Params) *Calculator {
	return &Calculator{
		riskFreeRate:        params.RiskFreeRate,
		marketReturn:        params.MarketReturn,
		defaultDiscountRate: params.DefaultDiscountRate,
	}
}

// DiscountRate blends the CAPM cost of equity with the cost of debt
// (assumed equal to the risk-free rate) weighted by market cap and debt.
// A missing beta defaults to 1. When the capital structure is unusable the
// cost of equity stands alone, and a degenerate result falls back to the
// configured default rate.
func (c *Calculator) DiscountRate(beta, debt, marketCap *float64) domain.DiscountEstimate {
	b := 1.0
	if beta != nil && !math.IsNaN(*beta) {
		b = *beta
	}
	costOfEquity := c.riskFreeRate + b*(c.marketReturn-c.riskFreeRate)
	costOfDebt := c.riskFreeRate

	if !math.IsNaN(costOfEquity) && debt != nil && marketCap != nil && *debt+*marketCap > 0 {
		wacc := (costOfEquity**marketCap + costOfDebt**debt) / (*debt + *marketCap)
		return domain.DiscountEstimate{Rate: wacc, Method: domain.DiscountMethodWACC}
	}

	if math.IsNaN(costOfEquity) || math.IsInf(costOfEquity, 0) {
		return domain.DiscountEstimate{Rate: c.defaultDiscountRate, Method: domain.DiscountMethodDefault}
	}
	return domain.DiscountEstimate{Rate: costOfEquity, Method: domain.DiscountMethodCAPM}
}
