// Package advisor talks to Gemini for budgeting commentary and category
// suggestions. Both calls are best effort: every failure degrades to an
// empty suggestion or a human-readable fallback text, never to an error at
// the surface.
package advisor

import (
	"context"

	"github.com/dvloznov/dompet-cerdas/internal/ledger"
)

// Gateway is the advisory surface the rest of the app depends on. It is an
// interface so handlers and the CLI can be tested without network access.
type Gateway interface {
	// SuggestCategory proposes a category for a transaction description.
	// An empty string means no usable suggestion; callers must still
	// validate the result against the taxonomy for the given type.
	SuggestCategory(ctx context.Context, description string, t ledger.Type) string

	// GetFinancialAdvice analyzes the given transactions and returns
	// free-text commentary, or a fallback message when the model is
	// unavailable.
	GetFinancialAdvice(ctx context.Context, txs []ledger.Transaction) string
}

// Fallback texts shown in place of advice when the model cannot be reached.
const (
	FallbackMissingKey = "Maaf, kunci API belum dikonfigurasi."
	FallbackNoAdvice   = "Tidak ada saran yang tersedia saat ini."
	FallbackError      = "Maaf, terjadi kesalahan saat menganalisis data keuangan Anda."
)

// adviceEntry is the simplified transaction shape sent to the model. Only
// the day part of the date is kept, for token efficiency.
type adviceEntry struct {
	Date string `json:"date"`
	Desc string `json:"desc"`
	Amt  int64  `json:"amt"`
	Type string `json:"type"`
	Cat  string `json:"cat"`
}

func simplify(txs []ledger.Transaction) []adviceEntry {
	out := make([]adviceEntry, 0, len(txs))
	for _, tx := range txs {
		out = append(out, adviceEntry{
			Date: datePart(tx.Date),
			Desc: tx.Description,
			Amt:  tx.Amount,
			Type: string(tx.Type),
			Cat:  tx.Category,
		})
	}
	return out
}

// datePart trims an ISO-8601 timestamp to its calendar-date prefix.
func datePart(iso string) string {
	for i := 0; i < len(iso); i++ {
		if iso[i] == 'T' {
			return iso[:i]
		}
	}
	return iso
}
