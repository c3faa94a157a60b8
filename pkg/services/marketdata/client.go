// Package marketdata fetches the fundamentals snapshot a valuation run
// needs: current price via the quote feed, statements and key statistics via
// the quote-summary endpoint. The snapshot is all-or-nothing for required
// fields; optional fields degrade to documented defaults.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"
	"github.com/rs/zerolog"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"

	summaryModules = "incomeStatementHistory,cashflowStatementHistory,financialData,defaultKeyStatistics"
)

// QuoteFunc returns the current market price for a symbol.
type QuoteFunc func(ctx context.Context, symbol string) (float64, error)

type Client struct {
	http    *http.Client
	baseURL string
	quote   QuoteFunc
}

type Option func(*Client)

// WithBaseURL points the client at a different quote-summary endpoint,
// used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithQuoteFunc replaces the quote feed, used in tests.
func WithQuoteFunc(f QuoteFunc) Option {
	return func(c *Client) { c.quote = f }
}

func NewClient(params domain.Params, opts ...Option) *Client {
	std := newRetryingClient(params.MaxRetries, nil)

	// The quote feed goes through finance-go's package-level client; route
	// it through the same retrying transport as the summary endpoint.
	finance.SetHTTPClient(std)

	c := &Client{
		http:    std,
		baseURL: defaultBaseURL,
		quote:   marketQuote,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newRetryingClient builds the shared transport: transient failures
// (network errors, 5xx) are retried up to maxRetries; malformed payloads
// are not. A nil transport keeps the default one.
func newRetryingClient(maxRetries int, transport http.RoundTripper) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.Logger = nil
	rc.HTTPClient.Timeout = 10 * time.Second
	if transport != nil {
		rc.HTTPClient.Transport = transport
	}
	return rc.StandardClient()
}

func marketQuote(_ context.Context, symbol string) (float64, error) {
	q, err := quote.Get(symbol)
	if err != nil {
		return 0, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if q == nil {
		return 0, fmt.Errorf("empty quote for %s", symbol)
	}
	return q.RegularMarketPrice, nil
}

// rawValue unwraps Yahoo's {"raw": n, "fmt": "..."} number envelope.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type incomeStatement struct {
	TotalRevenue rawValue `json:"totalRevenue"`
}

type cashflowStatement struct {
	TotalCashFromOperatingActivities rawValue `json:"totalCashFromOperatingActivities"`
	CapitalExpenditures              rawValue `json:"capitalExpenditures"`
}

type summaryResult struct {
	IncomeStatementHistory struct {
		Statements []incomeStatement `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`
	CashflowStatementHistory struct {
		Statements []cashflowStatement `json:"cashflowStatements"`
	} `json:"cashflowStatementHistory"`
	FinancialData struct {
		TotalDebt rawValue `json:"totalDebt"`
	} `json:"financialData"`
	DefaultKeyStatistics struct {
		SharesOutstanding rawValue `json:"sharesOutstanding"`
		Beta              rawValue `json:"beta"`
	} `json:"defaultKeyStatistics"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
	} `json:"quoteSummary"`
}

// FetchFundamentals retrieves one snapshot for the ticker. Price, revenue and
// operating cash flow are required; their absence maps to ErrDataUnavailable.
// Missing capital expenditure is treated as 0, missing shares outstanding as
// 1, missing debt as 0, and market cap is derived as price x shares.
func (c *Client) FetchFundamentals(ctx context.Context, ticker string) (domain.Fundamentals, error) {
	logger := zerolog.Ctx(ctx)

	price, err := c.quote(ctx, ticker)
	if err != nil {
		return domain.Fundamentals{}, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}

	summary, err := c.fetchSummary(ctx, ticker)
	if err != nil {
		return domain.Fundamentals{}, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}

	revenue := latestRevenue(summary)
	ocf, capex := latestCashflows(summary)
	if revenue == nil || ocf == nil {
		return domain.Fundamentals{}, fmt.Errorf("%w: statements missing for %s", domain.ErrDataUnavailable, ticker)
	}

	capexValue := 0.0
	if capex != nil {
		capexValue = *capex
	}

	shares := 1.0
	if s := summary.DefaultKeyStatistics.SharesOutstanding.Raw; s != nil && *s > 0 {
		shares = *s
	} else {
		logger.Warn().Str("ticker", ticker).Msg("shares outstanding missing, defaulting to 1")
	}

	debt := 0.0
	if d := summary.FinancialData.TotalDebt.Raw; d != nil {
		debt = *d
	}
	marketCap := price * shares

	return domain.Fundamentals{
		Ticker:            ticker,
		Price:             price,
		Revenue:           *revenue,
		FreeCashFlow:      *ocf - capexValue,
		SharesOutstanding: shares,
		Debt:              &debt,
		MarketCap:         &marketCap,
		Beta:              summary.DefaultKeyStatistics.Beta.Raw,
		FetchedAt:         time.Now(),
	}, nil
}

func (c *Client) fetchSummary(ctx context.Context, ticker string) (*summaryResult, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s", c.baseURL, ticker, summaryModules)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build quote summary request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query quote summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote summary returned %s", resp.Status)
	}

	var body quoteSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode quote summary: %w", err)
	}
	if len(body.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote summary result for %s", ticker)
	}
	return &body.QuoteSummary.Result[0], nil
}

func latestRevenue(s *summaryResult) *float64 {
	statements := s.IncomeStatementHistory.Statements
	if len(statements) == 0 {
		return nil
	}
	return statements[0].TotalRevenue.Raw
}

func latestCashflows(s *summaryResult) (ocf, capex *float64) {
	statements := s.CashflowStatementHistory.Statements
	if len(statements) == 0 {
		return nil, nil
	}
	return statements[0].TotalCashFromOperatingActivities.Raw, statements[0].CapitalExpenditures.Raw
}
