package ledger

// Category taxonomy per transaction type. The store does not enforce
// membership; entry surfaces and the advisory gateway validate against
// these lists before accepting a category.

// ExpenseCategories are the allowed categories for EXPENSE transactions.
var ExpenseCategories = []string{
	"Makanan & Minuman",
	"Transportasi",
	"Tempat Tinggal",
	"Belanja",
	"Hiburan",
	"Kesehatan",
	"Tagihan & Utilitas",
	"Pendidikan",
	"Lainnya",
}

// IncomeCategories are the allowed categories for INCOME transactions.
var IncomeCategories = []string{
	"Gaji",
	"Bonus",
	"Investasi",
	"Paruh Waktu",
	"Hadiah",
	"Lainnya",
}

// CategoriesFor returns a copy of the category list for the given type.
func CategoriesFor(t Type) []string {
	var src []string
	switch t {
	case TypeIncome:
		src = IncomeCategories
	case TypeExpense:
		src = ExpenseCategories
	default:
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// DefaultCategory returns the first category of the taxonomy for t, used
// when an entry surface receives no category.
func DefaultCategory(t Type) string {
	cats := CategoriesFor(t)
	if len(cats) == 0 {
		return ""
	}
	return cats[0]
}

// ValidCategory reports whether name is part of the taxonomy for t.
func ValidCategory(t Type, name string) bool {
	for _, c := range CategoriesFor(t) {
		if c == name {
			return true
		}
	}
	return false
}
