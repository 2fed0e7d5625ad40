// Package http exposes the financial statement API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/khata-erp/khata-erp/internal/ledger"
	"github.com/khata-erp/khata-erp/internal/observability"
	"github.com/khata-erp/khata-erp/internal/platform/httpx"
	"github.com/khata-erp/khata-erp/internal/reports"
)

const (
	tenantHeader = "X-Tenant-ID"
	dateLayout   = "2006-01-02"
)

// Handler wires the report endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *reports.Service
	cache    *reports.Cache
	metrics  *observability.Metrics
	validate *validator.Validate
}

// NewHandler constructs the report handler. Cache and metrics are optional.
func NewHandler(logger *slog.Logger, service *reports.Service, cache *reports.Cache, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		cache:    cache,
		metrics:  metrics,
		validate: validator.New(),
	}
}

// MountRoutes registers the report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/finance", func(r chi.Router) {
		r.Get("/reports/trial-balance", h.handleTrialBalance)
		r.Get("/reports/trial-balance/export.csv", h.handleTrialBalanceCSV)
		r.Get("/reports/profit-loss", h.handleProfitLoss)
		r.Get("/reports/balance-sheet", h.handleBalanceSheet)
		r.Get("/ledgers/{ledgerID}/statement", h.handleLedgerStatement)
	})
}

type trialBalanceQuery struct {
	AsOn string `validate:"omitempty,datetime=2006-01-02"`
	From string `validate:"omitempty,datetime=2006-01-02"`
}

type periodQuery struct {
	From string `validate:"required,datetime=2006-01-02"`
	To   string `validate:"required,datetime=2006-01-02"`
}

func (h *Handler) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	q := trialBalanceQuery{AsOn: r.URL.Query().Get("as_on"), From: r.URL.Query().Get("from_date")}
	if err := h.validate.Struct(q); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "as_on and from_date must be YYYY-MM-DD")
		return
	}
	filter := reports.TrialBalanceFilter{AsOn: parseDate(q.AsOn), From: parseDate(q.From)}

	key, err := h.cacheKey(r, func() (string, error) {
		asOn := time.Now().UTC()
		if filter.AsOn != nil {
			asOn = *filter.AsOn
		}
		return h.cache.TrialBalanceKey(r.Context(), tenantID, asOn, filter.From)
	})
	if err != nil {
		h.logger.Warn("trial balance cache key", slog.Any("error", err))
	}

	var vm reports.TrialBalanceVM
	err = h.fetch(r, key, &vm, func() (interface{}, error) {
		start := time.Now()
		tb, err := h.service.TrialBalance(r.Context(), tenantID, filter)
		if err != nil {
			return nil, err
		}
		h.observe("trial_balance", start, tb.Difference >= 1.0)
		return reports.FromTrialBalance(tb), nil
	})
	if err != nil {
		h.respondError(w, "trial balance", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vm)
}

func (h *Handler) handleTrialBalanceCSV(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	q := trialBalanceQuery{AsOn: r.URL.Query().Get("as_on"), From: r.URL.Query().Get("from_date")}
	if err := h.validate.Struct(q); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "as_on and from_date must be YYYY-MM-DD")
		return
	}
	tb, err := h.service.TrialBalance(r.Context(), tenantID, reports.TrialBalanceFilter{
		AsOn: parseDate(q.AsOn),
		From: parseDate(q.From),
	})
	if err != nil {
		h.respondError(w, "trial balance export", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=trial_balance.csv")
	if err := writeTrialBalanceCSV(w, reports.FromTrialBalance(tb)); err != nil {
		h.logger.Error("stream trial balance csv", slog.Any("error", err))
	}
}

func (h *Handler) handleProfitLoss(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	filter, ok := h.period(w, r)
	if !ok {
		return
	}

	key, err := h.cacheKey(r, func() (string, error) {
		return h.cache.ProfitLossKey(r.Context(), tenantID, filter.From, filter.To)
	})
	if err != nil {
		h.logger.Warn("profit loss cache key", slog.Any("error", err))
	}

	var vm reports.ProfitLossVM
	err = h.fetch(r, key, &vm, func() (interface{}, error) {
		start := time.Now()
		pl, err := h.service.ProfitLoss(r.Context(), tenantID, filter)
		if err != nil {
			return nil, err
		}
		h.observe("profit_loss", start, false)
		return reports.FromProfitLoss(pl), nil
	})
	if err != nil {
		h.respondError(w, "profit loss", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vm)
}

func (h *Handler) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	asOn := time.Now().UTC()
	if raw := r.URL.Query().Get("as_on"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "as_on must be YYYY-MM-DD")
			return
		}
		asOn = parsed
	}

	key, err := h.cacheKey(r, func() (string, error) {
		return h.cache.BalanceSheetKey(r.Context(), tenantID, asOn)
	})
	if err != nil {
		h.logger.Warn("balance sheet cache key", slog.Any("error", err))
	}

	var vm reports.BalanceSheetVM
	err = h.fetch(r, key, &vm, func() (interface{}, error) {
		start := time.Now()
		bs, err := h.service.BalanceSheet(r.Context(), tenantID, asOn)
		if err != nil {
			return nil, err
		}
		h.observe("balance_sheet", start, !bs.IsBalanced)
		return reports.FromBalanceSheet(bs), nil
	})
	if err != nil {
		h.respondError(w, "balance sheet", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vm)
}

func (h *Handler) handleLedgerStatement(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	ledgerID, err := strconv.ParseInt(chi.URLParam(r, "ledgerID"), 10, 64)
	if err != nil || ledgerID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "ledger id must be a positive integer")
		return
	}
	filter, ok := h.period(w, r)
	if !ok {
		return
	}

	key, err := h.cacheKey(r, func() (string, error) {
		return h.cache.LedgerStatementKey(r.Context(), tenantID, ledgerID, filter.From, filter.To)
	})
	if err != nil {
		h.logger.Warn("ledger statement cache key", slog.Any("error", err))
	}

	var vm reports.LedgerStatementVM
	err = h.fetch(r, key, &vm, func() (interface{}, error) {
		start := time.Now()
		st, err := h.service.LedgerStatement(r.Context(), tenantID, reports.StatementFilter{
			LedgerID: ledgerID,
			From:     filter.From,
			To:       filter.To,
		})
		if err != nil {
			return nil, err
		}
		h.observe("ledger_statement", start, false)
		return reports.FromLedgerStatement(st), nil
	})
	if err != nil {
		h.respondError(w, "ledger statement", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vm)
}

// tenant extracts and validates the tenant header, writing the failure
// response itself when absent or malformed.
func (h *Handler) tenant(w http.ResponseWriter, r *http.Request) (ledger.TenantID, bool) {
	raw := r.Header.Get(tenantHeader)
	if raw == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", tenantHeader+" header required")
		return uuid.Nil, false
	}
	tenantID, err := uuid.Parse(raw)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", tenantHeader+" must be a UUID")
		return uuid.Nil, false
	}
	return tenantID, true
}

func (h *Handler) period(w http.ResponseWriter, r *http.Request) (reports.PeriodFilter, bool) {
	q := periodQuery{From: r.URL.Query().Get("from_date"), To: r.URL.Query().Get("to_date")}
	if err := h.validate.Struct(q); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "from_date and to_date are required as YYYY-MM-DD")
		return reports.PeriodFilter{}, false
	}
	from, _ := time.Parse(dateLayout, q.From)
	to, _ := time.Parse(dateLayout, q.To)
	if to.Before(from) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "to_date precedes from_date")
		return reports.PeriodFilter{}, false
	}
	return reports.PeriodFilter{From: from, To: to}, true
}

func (h *Handler) cacheKey(r *http.Request, build func() (string, error)) (string, error) {
	if h.cache == nil {
		return "", nil
	}
	return build()
}

// fetch resolves through the redis cache under a singleflight group so one
// expensive derivation serves all concurrent identical requests.
func (h *Handler) fetch(r *http.Request, key string, dest interface{}, loader func() (interface{}, error)) error {
	sfKey := key
	if sfKey == "" {
		sfKey = r.URL.RequestURI() + "|" + r.Header.Get(tenantHeader)
	}
	value, err, _ := singleflightBuild(r.Context(), sfKey, func(ctx context.Context) (interface{}, error) {
		if h.cache == nil || key == "" {
			return loader()
		}
		var raw json.RawMessage
		if err := h.cache.FetchJSON(ctx, key, &raw, func(context.Context) (interface{}, error) {
			return loader()
		}); err != nil {
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	if raw, ok := value.(json.RawMessage); ok {
		return json.Unmarshal(raw, dest)
	}
	return recode(value, dest)
}

// recode copies a freshly built view model into the caller's destination.
func recode(value interface{}, dest interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (h *Handler) observe(report string, start time.Time, unbalanced bool) {
	if h.metrics == nil {
		return
	}
	h.metrics.ObserveReport(report, time.Since(start))
	if unbalanced {
		h.metrics.ReportUnbalanced(report)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case err == nil:
		return
	case isNotFound(err):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error(fmt.Sprintf("%s failed", op), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ledger.ErrLedgerNotFound) || errors.Is(err, ledger.ErrGroupNotFound)
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	return &parsed
}
