// Package report computes derived metrics from a ledger snapshot. All
// functions are pure, O(n) in the number of transactions, and tolerate an
// empty ledger.
package report

import (
	"sort"
	"time"

	"github.com/dvloznov/dompet-cerdas/internal/ledger"
)

// Summary holds the headline figures shown on the dashboard.
type Summary struct {
	TotalIncome  int64 `json:"total_income"`
	TotalExpense int64 `json:"total_expense"`
	Balance      int64 `json:"balance"`
}

// TotalByType sums the amounts of all transactions matching the given type.
func TotalByType(s ledger.Snapshot, t ledger.Type) int64 {
	var total int64
	for _, tx := range s.Transactions {
		if tx.Type == t {
			total += tx.Amount
		}
	}
	return total
}

// CurrentBalance is initial balance plus total income minus total expense.
func CurrentBalance(s ledger.Snapshot) int64 {
	return s.InitialBalance + TotalByType(s, ledger.TypeIncome) - TotalByType(s, ledger.TypeExpense)
}

// Summarize computes the dashboard summary in a single pass.
func Summarize(s ledger.Snapshot) Summary {
	var sum Summary
	for _, tx := range s.Transactions {
		switch tx.Type {
		case ledger.TypeIncome:
			sum.TotalIncome += tx.Amount
		case ledger.TypeExpense:
			sum.TotalExpense += tx.Amount
		}
	}
	sum.Balance = s.InitialBalance + sum.TotalIncome - sum.TotalExpense
	return sum
}

// ExpenseDistribution sums expense amounts grouped by category. Categories
// with no expense are absent from the result, never present with value 0.
// Map iteration order is not meaningful; use SortedDistribution for a
// stable presentation order.
func ExpenseDistribution(s ledger.Snapshot) map[string]int64 {
	dist := make(map[string]int64)
	for _, tx := range s.Transactions {
		if tx.Type == ledger.TypeExpense {
			dist[tx.Category] += tx.Amount
		}
	}
	return dist
}

// CategoryAmount is one slice of the expense distribution.
type CategoryAmount struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// SortedDistribution returns the expense distribution ordered by descending
// amount, ties broken by category name for determinism.
func SortedDistribution(s ledger.Snapshot) []CategoryAmount {
	dist := ExpenseDistribution(s)
	out := make([]CategoryAmount, 0, len(dist))
	for cat, amt := range dist {
		out = append(out, CategoryAmount{Category: cat, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Chronological returns the transactions sorted by date, newest first.
// Insertion order is not a chronological guarantee, so this sorts
// explicitly; transactions with unparseable dates sort last.
func Chronological(s ledger.Snapshot) []ledger.Transaction {
	out := make([]ledger.Transaction, len(s.Transactions))
	copy(out, s.Transactions)

	sort.SliceStable(out, func(i, j int) bool {
		return parseDate(out[i].Date).After(parseDate(out[j].Date))
	})
	return out
}

func parseDate(iso string) time.Time {
	ts, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Date-only inputs are accepted too.
		ts, err = time.Parse("2006-01-02", iso)
		if err != nil {
			return time.Time{}
		}
	}
	return ts
}
