// Package tracker wires the ledger store to the persistence adapter:
// hydrate once at startup, then persist after every committed mutation.
package tracker

import (
	"context"

	"github.com/dvloznov/dompet-cerdas/internal/ledger"
	"github.com/rs/zerolog"
)

// Persister is the slice of the persistence adapter the tracker needs.
type Persister interface {
	Load(ctx context.Context) ledger.Snapshot
	Save(ctx context.Context, snap ledger.Snapshot) error
}

// Tracker owns the ledger lifecycle. Every mutation issues exactly one
// synchronous save, strictly after the mutation it reflects; there is no
// batching or debouncing. A failed save is logged and the in-memory
// mutation stands - the previously persisted state remains untouched.
type Tracker struct {
	store     *ledger.Store
	persister Persister
	log       zerolog.Logger
}

// New creates a tracker around the given store and persister.
func New(store *ledger.Store, persister Persister, log zerolog.Logger) *Tracker {
	return &Tracker{
		store:     store,
		persister: persister,
		log:       log,
	}
}

// Hydrate loads the persisted snapshot into the store. It must run once
// before any mutation; it never fails, a broken persisted state degrades
// to an empty ledger.
func (t *Tracker) Hydrate(ctx context.Context) {
	snap := t.persister.Load(ctx)
	t.store.Load(snap)
	t.log.Info().
		Int("transactions", len(snap.Transactions)).
		Int64("initial_balance", snap.InitialBalance).
		Msg("Ledger hydrated")
}

// AddTransaction appends a new transaction and persists the ledger.
func (t *Tracker) AddTransaction(ctx context.Context, data ledger.TransactionData) ledger.Transaction {
	tx := t.store.Add(data)
	t.save(ctx)
	return tx
}

// DeleteTransaction removes the transaction with the given ID (a no-op for
// an unknown ID) and persists the ledger.
func (t *Tracker) DeleteTransaction(ctx context.Context, id string) {
	t.store.Delete(id)
	t.save(ctx)
}

// SetInitialBalance replaces the initial balance and persists the ledger.
func (t *Tracker) SetInitialBalance(ctx context.Context, v int64) {
	t.store.SetInitialBalance(v)
	t.save(ctx)
}

// Snapshot returns the current ledger snapshot.
func (t *Tracker) Snapshot() ledger.Snapshot {
	return t.store.Snapshot()
}

func (t *Tracker) save(ctx context.Context) {
	if err := t.persister.Save(ctx, t.store.Snapshot()); err != nil {
		t.log.Error().Err(err).Msg("Persisting ledger failed")
	}
}
