package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dvloznov/dompet-cerdas/internal/advisor"
	"github.com/dvloznov/dompet-cerdas/internal/amount"
	"github.com/dvloznov/dompet-cerdas/internal/config"
	"github.com/dvloznov/dompet-cerdas/internal/ledger"
	"github.com/dvloznov/dompet-cerdas/internal/logger"
	"github.com/dvloznov/dompet-cerdas/internal/report"
	"github.com/dvloznov/dompet-cerdas/internal/storage"
	"github.com/dvloznov/dompet-cerdas/internal/tracker"
	"github.com/rs/zerolog"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		runAdd(log)
	case "delete":
		runDelete(log)
	case "list":
		runList(log)
	case "summary":
		runSummary(log)
	case "balance":
		runBalance(log)
	case "suggest":
		runSuggest(log)
	case "advise":
		runAdvise(log)
	case "seed":
		runSeed(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("DompetCerdas CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  add       Record an income or expense transaction")
	fmt.Println("  delete    Delete a transaction by ID")
	fmt.Println("  list      List transactions, newest date first")
	fmt.Println("  summary   Show totals, balance and expense distribution")
	fmt.Println("  balance   Set the initial balance")
	fmt.Println("  suggest   Ask the AI for a category suggestion")
	fmt.Println("  advise    Ask the AI for budgeting advice")
	fmt.Println("  seed      Add demo transactions to an empty ledger")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// openTracker opens the configured substrate and hydrates the ledger.
// The returned close function must run before the process exits.
func openTracker(ctx context.Context, log zerolog.Logger) (*tracker.Tracker, *config.Config, func()) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	var kv storage.KV
	switch cfg.StorageBackend {
	case "memory":
		kv = storage.NewMemoryKV()
	default:
		sqliteKV, err := storage.NewSQLiteKV(cfg.SQLiteDBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SQLiteDBPath).Msg("Failed to open ledger database")
		}
		kv = sqliteKV
	}

	tr := tracker.New(ledger.NewStore(), storage.NewAdapter(kv, log), log)
	tr.Hydrate(ctx)
	return tr, cfg, func() { kv.Close() }
}

func runAdd(log zerolog.Logger) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	description := fs.String("description", "", "Transaction description")
	amountStr := fs.String("amount", "", "Amount, plain or grouped digits (e.g. 15.000.000)")
	typeStr := fs.String("type", "EXPENSE", "Transaction type: INCOME or EXPENSE")
	category := fs.String("category", "", "Category (defaults to the first of the taxonomy)")
	date := fs.String("date", "", "ISO-8601 date (defaults to now)")
	fs.Parse(os.Args[2:])

	if *description == "" {
		log.Fatal().Msg("Error: --description is required")
	}
	txType := ledger.Type(*typeStr)
	if !txType.Valid() {
		log.Fatal().Str("type", *typeStr).Msg("Error: type must be INCOME or EXPENSE")
	}
	value := amount.Parse(*amountStr)
	if value == 0 {
		log.Fatal().Str("amount", *amountStr).Msg("Error: --amount must be a positive number")
	}
	if *category == "" {
		*category = ledger.DefaultCategory(txType)
	} else if !ledger.ValidCategory(txType, *category) {
		log.Fatal().Str("category", *category).Msg("Error: category is not in the taxonomy for this type")
	}
	if *date == "" {
		*date = time.Now().UTC().Format(time.RFC3339)
	}

	ctx := logger.WithContext(context.Background(), log)
	tr, _, closeKV := openTracker(ctx, log)
	defer closeKV()

	tx := tr.AddTransaction(ctx, ledger.TransactionData{
		Date:        *date,
		Description: *description,
		Amount:      value,
		Type:        txType,
		Category:    *category,
	})

	fmt.Printf("Added %s: %s Rp %s (%s)\n", tx.ID, tx.Description, formatAmount(tx.Amount), tx.Category)
}

func runDelete(log zerolog.Logger) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "Transaction ID to delete")
	fs.Parse(os.Args[2:])

	if *id == "" {
		log.Fatal().Msg("Error: --id is required")
	}

	ctx := logger.WithContext(context.Background(), log)
	tr, _, closeKV := openTracker(ctx, log)
	defer closeKV()

	before := len(tr.Snapshot().Transactions)
	tr.DeleteTransaction(ctx, *id)
	after := len(tr.Snapshot().Transactions)

	if before == after {
		fmt.Printf("No transaction with ID %s, ledger unchanged.\n", *id)
		return
	}
	fmt.Printf("Deleted %s.\n", *id)
}

func runList(log zerolog.Logger) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("limit", 0, "Show at most this many transactions (0 = all)")
	fs.Parse(os.Args[2:])

	ctx := logger.WithContext(context.Background(), log)
	tr, _, closeKV := openTracker(ctx, log)
	defer closeKV()

	txs := report.Chronological(tr.Snapshot())
	if *limit > 0 && *limit < len(txs) {
		txs = txs[:*limit]
	}

	if len(txs) == 0 {
		fmt.Println("No transactions yet.")
		return
	}

	fmt.Printf("\n=== Transactions (%d) ===\n", len(txs))
	for i, tx := range txs {
		sign := "-"
		if tx.Type == ledger.TypeIncome {
			sign = "+"
		}
		fmt.Printf("\n%d. %s\n", i+1, tx.Description)
		fmt.Printf("   ID:       %s\n", tx.ID)
		fmt.Printf("   Date:     %s\n", tx.Date)
		fmt.Printf("   Amount:   %sRp %s\n", sign, formatAmount(tx.Amount))
		fmt.Printf("   Category: %s\n", tx.Category)
	}
	fmt.Println()
}

func runSummary(log zerolog.Logger) {
	ctx := logger.WithContext(context.Background(), log)
	tr, _, closeKV := openTracker(ctx, log)
	defer closeKV()

	snap := tr.Snapshot()
	sum := report.Summarize(snap)

	fmt.Println("\n=== Summary ===")
	fmt.Printf("Initial balance: Rp %s\n", formatSigned(snap.InitialBalance))
	fmt.Printf("Total income:    Rp %s\n", formatAmount(sum.TotalIncome))
	fmt.Printf("Total expense:   Rp %s\n", formatAmount(sum.TotalExpense))
	fmt.Printf("Current balance: Rp %s\n", formatSigned(sum.Balance))

	dist := report.SortedDistribution(snap)
	if len(dist) > 0 {
		fmt.Println("\n=== Expenses by category ===")
		for _, entry := range dist {
			fmt.Printf("%-22s Rp %s\n", entry.Category, formatAmount(entry.Amount))
		}
	}
	fmt.Println()
}

func runBalance(log zerolog.Logger) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	set := fs.String("set", "", "New initial balance (signed integer)")
	fs.Parse(os.Args[2:])

	if *set == "" {
		log.Fatal().Msg("Error: --set is required")
	}
	value, err := strconv.ParseInt(*set, 10, 64)
	if err != nil {
		log.Fatal().Str("value", *set).Msg("Error: --set must be a signed integer")
	}

	ctx := logger.WithContext(context.Background(), log)
	tr, _, closeKV := openTracker(ctx, log)
	defer closeKV()

	tr.SetInitialBalance(ctx, value)
	fmt.Printf("Initial balance set to Rp %s.\n", formatSigned(value))
}

func runSuggest(log zerolog.Logger) {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	description := fs.String("description", "", "Transaction description to categorize")
	typeStr := fs.String("type", "EXPENSE", "Transaction type: INCOME or EXPENSE")
	fs.Parse(os.Args[2:])

	if *description == "" {
		log.Fatal().Msg("Error: --description is required")
	}
	txType := ledger.Type(*typeStr)
	if !txType.Valid() {
		log.Fatal().Str("type", *typeStr).Msg("Error: type must be INCOME or EXPENSE")
	}

	cfg := config.Load()
	gateway := advisor.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	suggestion := gateway.SuggestCategory(ctx, *description, txType)
	if suggestion == "" || !ledger.ValidCategory(txType, suggestion) {
		fmt.Println("No suggestion available.")
		return
	}
	fmt.Printf("Suggested category: %s\n", suggestion)
}

func runAdvise(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	tr, cfg, closeKV := openTracker(ctx, log)
	defer closeKV()

	gateway := advisor.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, log)
	advice := gateway.GetFinancialAdvice(ctx, tr.Snapshot().Transactions)

	fmt.Println("\n=== Financial advice ===")
	fmt.Println(advice)
	fmt.Println()
}

func runSeed(log zerolog.Logger) {
	ctx := logger.WithContext(context.Background(), log)
	tr, _, closeKV := openTracker(ctx, log)
	defer closeKV()

	if len(tr.Snapshot().Transactions) > 0 {
		fmt.Println("Ledger is not empty, skipping seed.")
		return
	}

	for _, data := range ledger.Seed() {
		tx := tr.AddTransaction(ctx, data)
		fmt.Printf("Seeded %s: %s\n", tx.ID, tx.Description)
	}
}

func formatAmount(v int64) string {
	return amount.Format(strconv.FormatInt(v, 10))
}

// formatSigned groups the magnitude's digits without negating v, so
// math.MinInt64 formats correctly.
func formatSigned(v int64) string {
	s := strconv.FormatInt(v, 10)
	if v < 0 {
		return "-" + amount.Format(s[1:])
	}
	return amount.Format(s)
}
