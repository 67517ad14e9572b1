package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dvloznov/dompet-cerdas/internal/advisor"
	"github.com/dvloznov/dompet-cerdas/internal/ledger"
	"github.com/dvloznov/dompet-cerdas/internal/logger"
	"github.com/dvloznov/dompet-cerdas/internal/storage"
	"github.com/dvloznov/dompet-cerdas/internal/tracker"
	"github.com/rs/zerolog"
)

// quietRequest attaches a discarded logger to the request context, the
// way the RequestID middleware attaches the request-scoped one.
func quietRequest(r *http.Request) *http.Request {
	return r.WithContext(logger.WithContext(r.Context(), logger.NewWithWriter(&bytes.Buffer{})))
}

// MockGateway is a mock implementation of advisor.Gateway for testing.
type MockGateway struct {
	SuggestCategoryFunc    func(ctx context.Context, description string, t ledger.Type) string
	GetFinancialAdviceFunc func(ctx context.Context, txs []ledger.Transaction) string
}

func (m *MockGateway) SuggestCategory(ctx context.Context, description string, t ledger.Type) string {
	if m.SuggestCategoryFunc != nil {
		return m.SuggestCategoryFunc(ctx, description, t)
	}
	return ""
}

func (m *MockGateway) GetFinancialAdvice(ctx context.Context, txs []ledger.Transaction) string {
	if m.GetFinancialAdviceFunc != nil {
		return m.GetFinancialAdviceFunc(ctx, txs)
	}
	return advisor.FallbackNoAdvice
}

func newTestTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	log := zerolog.New(&bytes.Buffer{})
	tr := tracker.New(ledger.NewStore(), storage.NewAdapter(storage.NewMemoryKV(), log), log)
	tr.Hydrate(context.Background())
	return tr
}

func TestLedgerHandler_CreateAndList(t *testing.T) {
	tr := newTestTracker(t)
	h := NewLedgerHandler(tr)

	body := `{"description":"Gaji Bulanan","amount":"15.000.000","type":"INCOME","category":"Gaji","date":"2024-03-01T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateTransaction(rec, quietRequest(req))

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	var created ledger.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	if created.ID == "" {
		t.Error("expected assigned ID")
	}
	if created.Amount != 15000000 {
		t.Errorf("amount = %d, want 15000000 (decoded from display string)", created.Amount)
	}

	rec = httptest.NewRecorder()
	h.ListTransactions(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	var listResp struct {
		Transactions []ledger.Transaction `json:"transactions"`
		Count        int                  `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decoding list response: %v", err)
	}
	if listResp.Count != 1 || len(listResp.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got count=%d len=%d", listResp.Count, len(listResp.Transactions))
	}
}

func TestLedgerHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing description", body: `{"amount":"100","type":"EXPENSE"}`},
		{name: "bad type", body: `{"description":"x","amount":"100","type":"TRANSFER"}`},
		{name: "not json", body: `{{{`},
		{name: "missing amount", body: `{"description":"Misteri","type":"EXPENSE"}`},
		{name: "amount without digits", body: `{"description":"Misteri","amount":"Rp ,-","type":"EXPENSE"}`},
		{name: "explicit zero amount", body: `{"description":"Misteri","amount":"0","type":"EXPENSE"}`},
		{name: "overflowing amount", body: `{"description":"Misteri","amount":"99999999999999999999","type":"EXPENSE"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTracker(t)
			h := NewLedgerHandler(tr)
			req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.CreateTransaction(rec, quietRequest(req))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
			}
			if got := len(tr.Snapshot().Transactions); got != 0 {
				t.Errorf("rejected request must not touch the ledger, got %d transactions", got)
			}
		})
	}
}

func TestLedgerHandler_DeleteIsIdempotent(t *testing.T) {
	tr := newTestTracker(t)
	h := NewLedgerHandler(tr)

	tx := tr.AddTransaction(context.Background(), ledger.TransactionData{
		Date: "2024-03-01T00:00:00Z", Description: "Belanja", Amount: 500,
		Type: ledger.TypeExpense, Category: "Belanja",
	})

	for _, id := range []string{tx.ID, tx.ID, "never-existed"} {
		rec := httptest.NewRecorder()
		h.DeleteTransaction(rec, httptest.NewRequest(http.MethodDelete, "/api/transactions/"+id, nil), id)
		if rec.Code != http.StatusNoContent {
			t.Errorf("delete %q status = %d, want 204", id, rec.Code)
		}
	}

	if got := len(tr.Snapshot().Transactions); got != 0 {
		t.Errorf("expected empty ledger, got %d transactions", got)
	}
}

func TestLedgerHandler_SummaryAndBalance(t *testing.T) {
	tr := newTestTracker(t)
	h := NewLedgerHandler(tr)

	req := httptest.NewRequest(http.MethodPut, "/api/balance", strings.NewReader(`{"initial_balance":-250000}`))
	rec := httptest.NewRecorder()
	h.UpdateBalance(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance status = %d, want 200", rec.Code)
	}

	tr.AddTransaction(context.Background(), ledger.TransactionData{
		Date: "2024-03-01T00:00:00Z", Description: "Gaji", Amount: 1000000,
		Type: ledger.TypeIncome, Category: "Gaji",
	})

	rec = httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))

	var sum struct {
		TotalIncome  int64 `json:"total_income"`
		TotalExpense int64 `json:"total_expense"`
		Balance      int64 `json:"balance"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if sum.Balance != 750000 {
		t.Errorf("balance = %d, want 750000", sum.Balance)
	}
}

func TestLedgerHandler_PreviewAmount(t *testing.T) {
	h := NewLedgerHandler(newTestTracker(t))

	tests := []struct {
		name        string
		body        string
		wantDisplay string
		wantChanged bool
	}{
		{
			name:        "digit appended reformats",
			body:        `{"previous":"1.234","input":"1.2345"}`,
			wantDisplay: "12.345",
			wantChanged: true,
		},
		{
			name:        "separator-only edit is a no-op",
			body:        `{"previous":"1.234","input":"1234"}`,
			wantDisplay: "1.234",
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/amount/preview", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.PreviewAmount(rec, req)

			var resp struct {
				Display string `json:"display"`
				Changed bool   `json:"changed"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.Display != tt.wantDisplay || resp.Changed != tt.wantChanged {
				t.Errorf("got (%q, %v), want (%q, %v)", resp.Display, resp.Changed, tt.wantDisplay, tt.wantChanged)
			}
		})
	}
}

func TestAdvisorHandler_SuggestValidatesTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		suggestion string
		want       string
	}{
		{name: "valid suggestion kept", suggestion: "Transportasi", want: "Transportasi"},
		{name: "suggestion outside taxonomy dropped", suggestion: "Cryptocurrency", want: ""},
		{name: "no suggestion", suggestion: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &MockGateway{
				SuggestCategoryFunc: func(ctx context.Context, description string, typ ledger.Type) string {
					return tt.suggestion
				},
			}
			h := NewAdvisorHandler(newTestTracker(t), gateway)

			body := `{"description":"Naik ojek ke kantor","type":"EXPENSE"}`
			req := httptest.NewRequest(http.MethodPost, "/api/suggest", strings.NewReader(body))
			rec := httptest.NewRecorder()
			h.SuggestCategory(rec, quietRequest(req))

			var resp struct {
				Category string `json:"category"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.Category != tt.want {
				t.Errorf("category = %q, want %q", resp.Category, tt.want)
			}
		})
	}
}

func TestAdvisorHandler_GetAdvice(t *testing.T) {
	gateway := &MockGateway{
		GetFinancialAdviceFunc: func(ctx context.Context, txs []ledger.Transaction) string {
			return "Pengeluaran Anda sehat."
		},
	}
	h := NewAdvisorHandler(newTestTracker(t), gateway)

	rec := httptest.NewRecorder()
	h.GetAdvice(rec, httptest.NewRequest(http.MethodPost, "/api/advice", nil))

	var resp struct {
		Advice string `json:"advice"`
		Seq    uint64 `json:"seq"`
		Stale  bool   `json:"stale"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Advice != "Pengeluaran Anda sehat." {
		t.Errorf("advice = %q", resp.Advice)
	}
	if resp.Seq == 0 {
		t.Error("expected a non-zero sequence number")
	}
	if resp.Stale {
		t.Error("single request must not be stale")
	}
}
