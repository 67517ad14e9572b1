package ledger

import (
	"sync"

	"github.com/google/uuid"
)

// Store is the in-memory ledger: an ordered transaction sequence plus the
// initial-balance scalar. It is safe for concurrent use and always hands
// out copies, so a snapshot is never mutated behind a reader's back.
//
// Insertion order is newest-first by construction: Add prepends. That is a
// documented contract, not a chronological guarantee - user-supplied dates
// may be in the past or future, so any chronological view must re-sort by
// date explicitly.
type Store struct {
	mu             sync.RWMutex
	transactions   []Transaction
	initialBalance int64
}

// NewStore creates an empty ledger store.
func NewStore() *Store {
	return &Store{}
}

// Add assigns a fresh unique ID to data, prepends the resulting transaction
// to the sequence and returns it. The store performs no validation of
// amount or description; that belongs to the entry surface.
func (s *Store) Add(data TransactionData) Transaction {
	tx := Transaction{
		ID:          uuid.NewString(),
		Date:        data.Date,
		Description: data.Description,
		Amount:      data.Amount,
		Type:        data.Type,
		Category:    data.Category,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = append([]Transaction{tx}, s.transactions...)
	return tx
}

// Delete removes the transaction with the given ID. Deleting an ID that is
// not present is a no-op, not an error.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range s.transactions {
		if tx.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return
		}
	}
}

// SetInitialBalance replaces the initial-balance scalar unconditionally.
// Any finite value is accepted, including negative starting capital.
func (s *Store) SetInitialBalance(v int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialBalance = v
}

// Load replaces the entire ledger state with the given snapshot. It is used
// exactly once at startup hydration and deliberately has no persistence
// side effects - hydrating must never overwrite persisted state with itself.
func (s *Store) Load(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = make([]Transaction, len(snapshot.Transactions))
	copy(s.transactions, snapshot.Transactions)
	s.initialBalance = snapshot.InitialBalance
}

// Snapshot returns a copy of the current ledger state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]Transaction, len(s.transactions))
	copy(txs, s.transactions)
	return Snapshot{
		Transactions:   txs,
		InitialBalance: s.initialBalance,
	}
}

// Len returns the number of transactions in the ledger.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transactions)
}
