package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/dvloznov/dompet-cerdas/internal/ledger"
	"github.com/rs/zerolog"
)

// Keys of the two persisted entries. They match the web client's local
// storage keys so a migrated profile keeps its data.
const (
	TransactionsKey = "dompetCerdasTransactions"
	BalanceKey      = "dompetCerdasInitialBalance"
)

// Adapter serializes the ledger into the KV substrate on every committed
// mutation and hydrates it back once at startup.
//
// Writes are gated by an initialized flag that is set only after the first
// Load attempt finishes, successfully or not. A save issued before
// hydration would overwrite persisted state with the empty default, so it
// is silently skipped instead.
type Adapter struct {
	kv  KV
	log zerolog.Logger

	mu          sync.Mutex
	initialized bool
}

// NewAdapter creates a persistence adapter over the given substrate.
func NewAdapter(kv KV, log zerolog.Logger) *Adapter {
	return &Adapter{
		kv:  kv,
		log: log,
	}
}

// Load reads both entries and returns the resulting snapshot. A missing or
// unparseable transaction entry degrades to an empty sequence, a missing or
// unparseable balance entry degrades to zero. Load never fails; after it
// returns, saves are unlocked.
func (a *Adapter) Load(ctx context.Context) ledger.Snapshot {
	defer func() {
		a.mu.Lock()
		a.initialized = true
		a.mu.Unlock()
	}()

	snap := ledger.Snapshot{}

	raw, ok, err := a.kv.Get(ctx, TransactionsKey)
	if err != nil {
		a.log.Warn().Err(err).Msg("Reading transactions entry failed, starting empty")
	} else if ok {
		var txs []ledger.Transaction
		if err := json.Unmarshal([]byte(raw), &txs); err != nil {
			a.log.Warn().Err(err).Msg("Transactions entry is unparseable, starting empty")
		} else {
			snap.Transactions = txs
		}
	}

	raw, ok, err = a.kv.Get(ctx, BalanceKey)
	if err != nil {
		a.log.Warn().Err(err).Msg("Reading balance entry failed, starting at zero")
	} else if ok {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			a.log.Warn().Err(err).Str("value", raw).Msg("Balance entry is unparseable, starting at zero")
		} else {
			snap.InitialBalance = v
		}
	}

	return snap
}

// Save serializes the snapshot into both entries. Every field round-trips
// exactly through Load. Saves before the initial hydration are skipped.
func (a *Adapter) Save(ctx context.Context, snap ledger.Snapshot) error {
	a.mu.Lock()
	initialized := a.initialized
	a.mu.Unlock()

	if !initialized {
		a.log.Debug().Msg("Skipping save before hydration")
		return nil
	}

	txs := snap.Transactions
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	data, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("Save: marshal transactions: %w", err)
	}

	entries := map[string]string{
		TransactionsKey: string(data),
		BalanceKey:      strconv.FormatInt(snap.InitialBalance, 10),
	}
	if err := a.kv.SetAll(ctx, entries); err != nil {
		return fmt.Errorf("Save: write entries: %w", err)
	}
	return nil
}
