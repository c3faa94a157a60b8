// Package earnings estimates a forward growth rate from an earnings-history
// provider. Every failure path resolves to the configured default rate; the
// caller always gets a usable estimate and can inspect where it came from.
package earnings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
)

const defaultBaseURL = "https://www.alphavantage.co"

type earningsResponse struct {
	AnnualEarnings []struct {
		FiscalDateEnding string `json:"fiscalDateEnding"`
		ReportedEPS      string `json:"reportedEPS"`
	} `json:"annualEarnings"`
}

type Estimator struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	defaultRate float64
}

type Option func(*Estimator)

// WithBaseURL points the estimator at a different endpoint, used in tests.
func WithBaseURL(u string) Option {
	return func(e *Estimator) { e.baseURL = u }
}

func WithHTTPClient(c *http.Client) Option {
	return func(e *Estimator) { e.client = c }
}

func NewEstimator(params domain.Params, apiKey string, opts ...Option) *Estimator {
	rc := retryablehttp.NewClient()
	rc.RetryMax = params.MaxRetries
	rc.Logger = nil
	rc.HTTPClient.Timeout = 10 * time.Second

	e := &Estimator{
		client:      rc.StandardClient(),
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
		defaultRate: params.DefaultAnalystGrowthRate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ForwardGrowth returns the year-over-year EPS growth from the two most
// recent annual figures, or the configured default with the reason recorded.
func (e *Estimator) ForwardGrowth(ctx context.Context, ticker string) domain.GrowthEstimate {
	logger := zerolog.Ctx(ctx)

	rate, err := e.fetchGrowth(ctx, ticker)
	if err != nil {
		logger.Debug().Err(err).Str("ticker", ticker).Msg("falling back to default growth rate")
		return domain.GrowthEstimate{
			Rate:   e.defaultRate,
			Source: domain.GrowthSourceDefault,
			Reason: err.Error(),
		}
	}
	return domain.GrowthEstimate{Rate: rate, Source: domain.GrowthSourceEarnings}
}

func (e *Estimator) fetchGrowth(ctx context.Context, ticker string) (float64, error) {
	q := url.Values{}
	q.Set("function", "EARNINGS")
	q.Set("symbol", ticker)
	q.Set("apikey", e.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build earnings request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("query earnings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("earnings endpoint returned %s", resp.Status)
	}

	var body earningsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode earnings response: %w", err)
	}
	if len(body.AnnualEarnings) < 2 {
		return 0, fmt.Errorf("need two annual EPS figures, got %d", len(body.AnnualEarnings))
	}

	latest, err := strconv.ParseFloat(body.AnnualEarnings[0].ReportedEPS, 64)
	if err != nil {
		return 0, fmt.Errorf("parse latest EPS: %w", err)
	}
	previous, err := strconv.ParseFloat(body.AnnualEarnings[1].ReportedEPS, 64)
	if err != nil {
		return 0, fmt.Errorf("parse previous EPS: %w", err)
	}
	if previous == 0 {
		return 0, fmt.Errorf("previous EPS is zero")
	}

	return (latest - previous) / previous, nil
}
