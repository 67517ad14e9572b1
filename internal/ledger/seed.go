package ledger

import "time"

// Seed returns demo transactions for a first run with an empty ledger.
func Seed() []TransactionData {
	now := time.Now().UTC().Format(time.RFC3339)
	return []TransactionData{
		{
			Date:        now,
			Description: "Gaji Bulanan",
			Amount:      15000000,
			Type:        TypeIncome,
			Category:    "Gaji",
		},
		{
			Date:        now,
			Description: "Belanja Mingguan",
			Amount:      500000,
			Type:        TypeExpense,
			Category:    "Makanan & Minuman",
		},
	}
}
