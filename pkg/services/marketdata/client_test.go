package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
)

const fullSummary = `{
	"quoteSummary": {
		"result": [{
			"incomeStatementHistory": {
				"incomeStatementHistory": [
					{"totalRevenue": {"raw": 245122000000}},
					{"totalRevenue": {"raw": 211915000000}}
				]
			},
			"cashflowStatementHistory": {
				"cashflowStatements": [
					{
						"totalCashFromOperatingActivities": {"raw": 118548000000},
						"capitalExpenditures": {"raw": -44477000000}
					}
				]
			},
			"financialData": {"totalDebt": {"raw": 97852000000}},
			"defaultKeyStatistics": {
				"sharesOutstanding": {"raw": 7433039872},
				"beta": {"raw": 0.9}
			}
		}]
	}
}`

func fixedQuote(price float64) QuoteFunc {
	return func(ctx context.Context, symbol string) (float64, error) {
		return price, nil
	}
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	params := domain.DefaultParams()
	opts = append([]Option{
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithQuoteFunc(fixedQuote(420.5)),
	}, opts...)
	return NewClient(params, opts...)
}

func TestFetchFundamentals_FullSnapshot(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v10/finance/quoteSummary/MSFT")
		_, _ = w.Write([]byte(fullSummary))
	}))

	f, err := c.FetchFundamentals(context.Background(), "MSFT")
	require.NoError(t, err)

	assert.Equal(t, "MSFT", f.Ticker)
	assert.Equal(t, 420.5, f.Price)
	assert.Equal(t, 245122000000.0, f.Revenue)
	// FCF = OCF - capex as reported.
	assert.Equal(t, 118548000000.0-(-44477000000.0), f.FreeCashFlow)
	assert.Equal(t, 7433039872.0, f.SharesOutstanding)
	require.NotNil(t, f.Debt)
	assert.Equal(t, 97852000000.0, *f.Debt)
	require.NotNil(t, f.MarketCap)
	assert.Equal(t, 420.5*7433039872.0, *f.MarketCap)
	require.NotNil(t, f.Beta)
	assert.Equal(t, 0.9, *f.Beta)
}

func TestFetchFundamentals_MissingRevenue(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"quoteSummary": {
				"result": [{
					"incomeStatementHistory": {"incomeStatementHistory": []},
					"cashflowStatementHistory": {"cashflowStatements": [
						{"totalCashFromOperatingActivities": {"raw": 100}}
					]},
					"financialData": {},
					"defaultKeyStatistics": {}
				}]
			}
		}`))
	}))

	_, err := c.FetchFundamentals(context.Background(), "MSFT")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestFetchFundamentals_QuoteFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fullSummary))
	}), WithQuoteFunc(func(ctx context.Context, symbol string) (float64, error) {
		return 0, assert.AnError
	}))

	_, err := c.FetchFundamentals(context.Background(), "MSFT")
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestFetchFundamentals_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(fullSummary))
	}))
	t.Cleanup(srv.Close)

	params := domain.DefaultParams()
	params.MaxRetries = 2
	// Keep the retrying transport; only the endpoint and quote feed are
	// swapped out.
	c := NewClient(params, WithBaseURL(srv.URL), WithQuoteFunc(fixedQuote(100)))

	f, err := c.FetchFundamentals(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, 245122000000.0, f.Revenue)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

// rewriteTransport redirects every request to the test server so the real
// quote feed can be exercised against a local endpoint.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func TestMarketQuote_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{
			"quoteResponse": {
				"result": [{"symbol": "MSFT", "regularMarketPrice": 101.5}],
				"error": null
			}
		}`))
	}))
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	finance.SetHTTPClient(newRetryingClient(2, rewriteTransport{target: target}))

	price, err := marketQuote(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, 101.5, price)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestFetchFundamentals_MissingOptionalFields(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"quoteSummary": {
				"result": [{
					"incomeStatementHistory": {"incomeStatementHistory": [
						{"totalRevenue": {"raw": 1000}}
					]},
					"cashflowStatementHistory": {"cashflowStatements": [
						{"totalCashFromOperatingActivities": {"raw": 200}}
					]},
					"financialData": {},
					"defaultKeyStatistics": {}
				}]
			}
		}`))
	}))

	f, err := c.FetchFundamentals(context.Background(), "TINY")
	require.NoError(t, err)

	assert.Equal(t, 200.0, f.FreeCashFlow) // capex missing => 0
	assert.Equal(t, 1.0, f.SharesOutstanding)
	require.NotNil(t, f.Debt)
	assert.Zero(t, *f.Debt)
	assert.Nil(t, f.Beta)
}

func TestFetchFundamentals_EmptyResult(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary": {"result": []}}`))
	}))

	_, err := c.FetchFundamentals(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}
