package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dvloznov/dompet-cerdas/internal/advisor"
	"github.com/dvloznov/dompet-cerdas/internal/amount"
	"github.com/dvloznov/dompet-cerdas/internal/api/middleware"
	"github.com/dvloznov/dompet-cerdas/internal/ledger"
	"github.com/dvloznov/dompet-cerdas/internal/logger"
	"github.com/dvloznov/dompet-cerdas/internal/report"
	"github.com/dvloznov/dompet-cerdas/internal/tracker"
)

// LedgerHandler handles transaction and balance endpoints. Handlers log
// through the request-scoped logger placed in the context by the
// RequestID middleware.
type LedgerHandler struct {
	tracker *tracker.Tracker
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(t *tracker.Tracker) *LedgerHandler {
	return &LedgerHandler{tracker: t}
}

// ListTransactions handles GET /api/transactions.
// Transactions are returned newest-date-first: the list view is a
// chronological view, so it sorts by date rather than insertion order.
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	snap := h.tracker.Snapshot()
	txs := report.Chronological(snap)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

// CreateTransaction handles POST /api/transactions.
// The amount arrives as the grouped-digit display string the form shows
// (e.g. "15.000.000") and is decoded through the amount codec.
func (h *LedgerHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date        string `json:"date"`
		Description string `json:"description"`
		Amount      string `json:"amount"`
		Type        string `json:"type"`
		Category    string `json:"category"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Description == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Description is required")
		return
	}

	txType := ledger.Type(req.Type)
	if !txType.Valid() {
		middleware.WriteError(w, http.StatusBadRequest, "Type must be INCOME or EXPENSE")
		return
	}

	value := amount.Parse(req.Amount)
	if value == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Amount must be a positive number")
		return
	}

	if req.Category == "" {
		req.Category = ledger.DefaultCategory(txType)
	}
	if req.Date == "" {
		req.Date = time.Now().UTC().Format(time.RFC3339)
	}

	tx := h.tracker.AddTransaction(r.Context(), ledger.TransactionData{
		Date:        req.Date,
		Description: req.Description,
		Amount:      value,
		Type:        txType,
		Category:    req.Category,
	})

	log := logger.FromContext(r.Context())
	log.Info().
		Str("id", tx.ID).
		Str("type", string(tx.Type)).
		Int64("amount", tx.Amount).
		Msg("Transaction added")

	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// DeleteTransaction handles DELETE /api/transactions/{id}. Deleting an
// unknown ID still succeeds; the ledger is simply unchanged.
func (h *LedgerHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	h.tracker.DeleteTransaction(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// GetSummary handles GET /api/summary.
func (h *LedgerHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, report.Summarize(h.tracker.Snapshot()))
}

// GetDistribution handles GET /api/distribution. Entries are ordered by
// descending amount; categories with no expense are absent.
func (h *LedgerHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	dist := report.SortedDistribution(h.tracker.Snapshot())
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"distribution": dist,
	})
}

// UpdateBalance handles PUT /api/balance. The initial balance is a signed
// scalar, so unlike transaction amounts it is not routed through the
// non-negative amount codec.
func (h *LedgerHandler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InitialBalance int64 `json:"initial_balance"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.tracker.SetInitialBalance(r.Context(), req.InitialBalance)
	middleware.WriteJSON(w, http.StatusOK, map[string]int64{
		"initial_balance": req.InitialBalance,
	})
}

// PreviewAmount handles POST /api/amount/preview: it reformats an amount
// input field after a change event. When the edit touched only grouping
// separators the previous display is returned unchanged, so the client
// does not reformat and move the caret.
func (h *LedgerHandler) PreviewAmount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Previous string `json:"previous"`
		Input    string `json:"input"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if amount.SeparatorOnlyEdit(req.Previous, req.Input) {
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"display": req.Previous,
			"changed": false,
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"display": amount.Format(req.Input),
		"changed": true,
	})
}

// CategoriesHandler serves the category taxonomy.
type CategoriesHandler struct{}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler() *CategoriesHandler {
	return &CategoriesHandler{}
}

// ListCategories handles GET /api/categories.
func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string][]string{
		string(ledger.TypeIncome):  ledger.CategoriesFor(ledger.TypeIncome),
		string(ledger.TypeExpense): ledger.CategoriesFor(ledger.TypeExpense),
	})
}

// AdvisorHandler handles the advisory endpoints.
type AdvisorHandler struct {
	tracker  *tracker.Tracker
	gateway  advisor.Gateway
	requests *advisor.Requests
}

// NewAdvisorHandler creates a new advisor handler.
func NewAdvisorHandler(t *tracker.Tracker, gateway advisor.Gateway) *AdvisorHandler {
	return &AdvisorHandler{
		tracker:  t,
		gateway:  gateway,
		requests: advisor.NewRequests(),
	}
}

// SuggestCategory handles POST /api/suggest. A suggestion outside the
// taxonomy for the given type is discarded, mirroring the entry form.
func (h *AdvisorHandler) SuggestCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	txType := ledger.Type(req.Type)
	if req.Description == "" || !txType.Valid() {
		middleware.WriteError(w, http.StatusBadRequest, "Description and a valid type are required")
		return
	}

	suggestion := h.gateway.SuggestCategory(r.Context(), req.Description, txType)
	if suggestion != "" && !ledger.ValidCategory(txType, suggestion) {
		log := logger.FromContext(r.Context())
		log.Debug().
			Str("suggestion", suggestion).
			Msg("Discarding suggestion outside taxonomy")
		suggestion = ""
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"category": suggestion,
	})
}

// GetAdvice handles POST /api/advice. The response carries the request
// sequence number and a stale flag: when a newer advice request was issued
// while this one was in flight, the client must discard this response
// (last-resolved-wins).
func (h *AdvisorHandler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	seq := h.requests.Begin()
	snap := h.tracker.Snapshot()

	advice := h.gateway.GetFinancialAdvice(r.Context(), snap.Transactions)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"advice": advice,
		"seq":    seq,
		"stale":  !h.requests.Adopt(seq),
	})
}
