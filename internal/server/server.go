package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/iwvelando/claim-settlement/internal/config"
	"github.com/iwvelando/claim-settlement/internal/settlement"
	"github.com/iwvelando/claim-settlement/internal/store"
	"github.com/iwvelando/claim-settlement/pkg/catalog"
	"github.com/iwvelando/claim-settlement/pkg/constants"
	"github.com/iwvelando/claim-settlement/pkg/format"
	"github.com/iwvelando/claim-settlement/pkg/output"
	"github.com/iwvelando/claim-settlement/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the API hosts. Nil fields fall back to
// a fresh engine, an in-memory store, the built-in catalog and the system
// clock.
type Dependencies struct {
	Engine   *settlement.Engine
	Store    store.Store
	Catalog  *catalog.Catalog
	Features config.Features
	Clock    settlement.Clock
}

type handler struct {
	logger         *zap.Logger
	engine         *settlement.Engine
	store          store.Store
	catalog        *catalog.Catalog
	features       config.Features
	clock          settlement.Clock
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the settlement API.
func NewHandler(logger *zap.Logger, deps Dependencies, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:         logger,
		engine:         deps.Engine,
		store:          deps.Store,
		catalog:        deps.Catalog,
		features:       deps.Features,
		clock:          deps.Clock,
		maxRequestSize: maxRequestSize,
		version:        trimmedVersion,
	}
	if h.engine == nil {
		h.engine = settlement.NewEngine(logger)
	}
	if h.store == nil {
		h.store = store.NewMemory(logger)
	}
	if h.catalog == nil {
		h.catalog = catalog.Default()
	}
	if h.clock == nil {
		h.clock = settlement.SystemClock
	}

	mux := http.NewServeMux()

	// Calculation endpoints, gated by the settlement calculator feature
	mux.HandleFunc("POST /api/settlements", h.requireCalculator(h.handleCalculate))
	mux.HandleFunc("GET /api/settlements/{id}", h.requireCalculator(h.handleGetSettlement))
	mux.HandleFunc("GET /api/claims/{claimId}/settlements", h.requireCalculator(h.handleClaimHistory))
	mux.HandleFunc("GET /api/stats", h.requireCalculator(h.handleStats))

	// Reference data and metadata
	mux.HandleFunc("GET /api/catalog", h.handleCatalog)
	mux.HandleFunc("GET /api/version", h.handleVersion)

	return mux
}

// requireCalculator hides a route when the settlement calculator is disabled.
func (h *handler) requireCalculator(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.features.SettlementCalculator {
			http.NotFound(w, r)
			return
		}
		next(w, r)
	}
}

type calculateRequest struct {
	ClaimID                  string                   `json:"claim_id"`
	Policy                   settlement.PolicyContext `json:"policy"`
	ApplyHurricaneDeductible bool                     `json:"apply_hurricane_deductible"`
	DamageEntries            []entryRequest           `json:"damage_entries"`
	Adjustments              adjustmentsRequest       `json:"adjustments"`
	Save                     bool                     `json:"save"`
}

// entryRequest is a damage entry whose quantity and rate may be omitted.
type entryRequest struct {
	Category         string           `json:"category"`
	Item             string           `json:"item"`
	Amount           decimal.Decimal  `json:"amount"`
	Quantity         *decimal.Decimal `json:"quantity"`
	DepreciationRate *decimal.Decimal `json:"depreciation_rate"`
	Notes            string           `json:"notes"`
}

// adjustmentsRequest holds adjustment overrides. Each key left out keeps its
// default, the same as in the calculation file.
type adjustmentsRequest struct {
	DepreciationRateDefault *decimal.Decimal `json:"depreciation_rate_default"`
	OverheadProfitRate      *decimal.Decimal `json:"overhead_profit_rate"`
	SalesTaxRate            *decimal.Decimal `json:"sales_tax_rate"`
	NegotiationAdjustment   *decimal.Decimal `json:"negotiation_adjustment"`
}

func (a adjustmentsRequest) resolve() settlement.AdjustmentParameters {
	params := defaultAdjustments()
	if a.DepreciationRateDefault != nil {
		params.DepreciationRateDefault = *a.DepreciationRateDefault
	}
	if a.OverheadProfitRate != nil {
		params.OverheadProfitRate = *a.OverheadProfitRate
	}
	if a.SalesTaxRate != nil {
		params.SalesTaxRate = *a.SalesTaxRate
	}
	if a.NegotiationAdjustment != nil {
		params.NegotiationAdjustment = *a.NegotiationAdjustment
	}
	return params
}

type calculateResponse struct {
	ID       string                      `json:"id,omitempty"`
	Result   settlement.SettlementResult `json:"result"`
	Display  map[string]string           `json:"display"`
	Warnings []string                    `json:"warnings,omitempty"`
	Duration string                      `json:"duration"`
}

type historyResponse struct {
	ClaimID     string         `json:"claim_id"`
	Settlements []store.Record `json:"settlements"`
}

type statsResponse struct {
	store.Statistics
	Display map[string]string `json:"display"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func defaultAdjustments() settlement.AdjustmentParameters {
	return settlement.AdjustmentParameters{
		DepreciationRateDefault: decimal.NewFromFloat(constants.DefaultDepreciationRate),
		OverheadProfitRate:      decimal.NewFromFloat(constants.DefaultOverheadProfitRate),
		SalesTaxRate:            decimal.NewFromFloat(constants.DefaultSalesTaxRate),
		NegotiationAdjustment:   decimal.NewFromFloat(constants.DefaultNegotiationAdjustment),
	}
}

// toInputs turns a request into engine inputs and collects the same warnings
// the calculation file gets.
func (req calculateRequest) toInputs(cat *catalog.Catalog) (settlement.PolicyContext, []settlement.DamageEntry, settlement.AdjustmentParameters, []string) {
	policy := req.Policy
	if req.ApplyHurricaneDeductible {
		policy = policy.WithHurricaneDeductible()
	}

	entries := make([]settlement.DamageEntry, 0, len(req.DamageEntries))
	refs := make([]validation.EntryConfig, 0, len(req.DamageEntries))
	for _, e := range req.DamageEntries {
		quantity := decimal.NewFromInt(1)
		if e.Quantity != nil {
			quantity = *e.Quantity
		}
		entries = append(entries, settlement.DamageEntry{
			Category:         e.Category,
			Item:             e.Item,
			Amount:           e.Amount,
			Quantity:         quantity,
			DepreciationRate: cat.ResolveRate(e.Category, e.Item, e.DepreciationRate),
			Notes:            e.Notes,
		})
		refs = append(refs, validation.EntryConfig{Category: e.Category, Item: e.Item, HasRate: e.DepreciationRate != nil})
	}

	validator := &validation.ConfigValidator{
		ClaimID: req.ClaimID,
		Policy: validation.PolicyConfig{
			HasHurricaneDeductible:   req.Policy.HurricaneDeductible != nil,
			ApplyHurricaneDeductible: req.ApplyHurricaneDeductible,
		},
		Entries: refs,
		Catalog: cat,
	}

	return policy, entries, req.Adjustments.resolve(), validator.ValidateAll()
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return
	}

	var req calculateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	policy, entries, adjustments, warnings := req.toInputs(h.catalog)

	result, err := h.engine.Compute(policy, entries, adjustments, req.ClaimID, h.clock)
	if err != nil {
		h.respondStoreOrValidationError(w, err, op)
		return
	}

	response := calculateResponse{
		Result:   result,
		Display:  output.Display(result),
		Warnings: warnings,
	}

	if req.Save {
		id, err := h.store.Save(r.Context(), result)
		if err != nil {
			h.respondStoreOrValidationError(w, err, op)
			return
		}
		response.ID = id
	}

	elapsed := time.Since(start)
	response.Duration = elapsed.String()

	h.logger.Info("settlement computed",
		zap.String("op", op),
		zap.String("claimID", req.ClaimID),
		zap.Bool("saved", response.ID != ""),
		zap.Int("entries", len(entries)),
		zap.Duration("duration", elapsed),
	)

	status := http.StatusOK
	if response.ID != "" {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, response)
}

func (h *handler) handleGetSettlement(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetSettlement"
	result, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondStoreOrValidationError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, calculateResponse{
		ID:      r.PathValue("id"),
		Result:  result,
		Display: output.Display(result),
	})
}

func (h *handler) handleClaimHistory(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleClaimHistory"
	claimID := r.PathValue("claimId")
	records, err := h.store.ListForClaim(r.Context(), claimID)
	if err != nil {
		h.respondStoreOrValidationError(w, err, op)
		return
	}
	if records == nil {
		records = []store.Record{}
	}

	h.writeJSON(w, http.StatusOK, historyResponse{ClaimID: claimID, Settlements: records})
}

func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStats"
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.respondStoreOrValidationError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, statsResponse{
		Statistics: stats,
		Display: map[string]string{
			"average_settlement": format.Currency(stats.AverageSettlement),
			"max_settlement":     format.Currency(stats.MaxSettlement),
		},
	})
}

func (h *handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.catalog.Categories(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// respondStoreOrValidationError maps engine and store failures to HTTP
// statuses: invalid input is 400, a missing result 404 and an unavailable
// store 503.
func (h *handler) respondStoreOrValidationError(w http.ResponseWriter, err error, op string) {
	var validationErr *settlement.ValidationError
	if errors.As(err, &validationErr) {
		h.logger.Info("settlement input rejected",
			zap.String("op", op),
			zap.String("field", validationErr.Field),
			zap.String("reason", validationErr.Reason),
		)
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  validationErr.Error(),
			Field:  validationErr.Field,
			Reason: validationErr.Reason,
		})
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case store.Retryable(err):
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, err.Error(), op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("settlement request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
