package valuation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/fin-tools/value-atlas/pkg/charts"
	"github.com/fin-tools/value-atlas/pkg/models/api"
	"github.com/fin-tools/value-atlas/pkg/models/domain"
)

// Evaluator runs one valuation; satisfied by valuation.Evaluator.
type Evaluator interface {
	Evaluate(ctx context.Context, ticker string, params domain.Params) (domain.Report, error)
}

type Handler struct {
	evaluator Evaluator
	params    domain.Params
}

func NewHandler(evaluator Evaluator, params domain.Params) *Handler {
	return &Handler{
		evaluator: evaluator,
		params:    params,
	}
}

// CreateValuation runs an evaluation for the ticker in the path. An optional
// JSON body overrides individual parameters for this run only.
func (h *Handler) CreateValuation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	params, err := h.runParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := h.evaluator.Evaluate(ctx, ticker, params)
	if err != nil {
		logger.Warn().Err(err).Str("ticker", ticker).Msg("evaluation failed")
		writeError(w, statusCodeFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(api.FromReport(report)); err != nil {
		logger.Error().Err(err).Str("ticker", ticker).Msg("failed to encode valuation")
	}
}

// GetValuationChart re-runs the evaluation and streams the distribution
// chart as PNG.
func (h *Handler) GetValuationChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	report, err := h.evaluator.Evaluate(ctx, ticker, h.params)
	if err != nil {
		logger.Warn().Err(err).Str("ticker", ticker).Msg("evaluation failed")
		writeError(w, statusCodeFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := charts.RenderPNG(report, w); err != nil {
		logger.Error().Err(err).Str("ticker", ticker).Msg("failed to render chart")
	}
}

// GetParams exposes the server's effective parameter set.
func (h *Handler) GetParams(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.params); err != nil {
		logger.Error().Err(err).Msg("failed to encode params")
	}
}

func (h *Handler) runParams(r *http.Request) (domain.Params, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return domain.Params{}, err
	}
	if len(body) == 0 {
		return h.params, nil
	}

	var overrides api.ValuationRequest
	if err := json.Unmarshal(body, &overrides); err != nil {
		return domain.Params{}, err
	}
	return overrides.Apply(h.params), nil
}

func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidTerminalMethod):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrZeroRevenue), errors.Is(err, domain.ErrNoValidSimulations):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(api.Error{Status: domain.StatusFor(err)})
}
