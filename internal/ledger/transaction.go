// Package ledger holds the transaction ledger: an ordered collection of
// income/expense transactions plus an initial-balance scalar.
package ledger

// Type is the closed income/expense tag of a transaction.
type Type string

const (
	// TypeIncome marks money coming in.
	TypeIncome Type = "INCOME"
	// TypeExpense marks money going out.
	TypeExpense Type = "EXPENSE"
)

// Valid reports whether t is one of the two known transaction types.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single ledger entry. Amount is a whole-unit IDR value;
// the store accepts any well-typed record, validation of amount and
// description is the entry surface's responsibility.
type Transaction struct {
	ID          string `json:"id"`
	Date        string `json:"date"` // ISO-8601, user supplied
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Type        Type   `json:"type"`
	Category    string `json:"category"`
}

// TransactionData is a transaction before the store has assigned it an ID.
type TransactionData struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Type        Type   `json:"type"`
	Category    string `json:"category"`
}

// Snapshot is an immutable read of the ledger at a point in time.
type Snapshot struct {
	Transactions   []Transaction `json:"transactions"`
	InitialBalance int64         `json:"initial_balance"`
}
