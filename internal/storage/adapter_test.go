package storage

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"github.com/dvloznov/dompet-cerdas/internal/ledger"
	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.New(&bytes.Buffer{})
}

func sampleSnapshot() ledger.Snapshot {
	return ledger.Snapshot{
		Transactions: []ledger.Transaction{
			{
				ID:          "a3f2",
				Date:        "2024-03-01T10:30:00Z",
				Description: "Gaji Bulanan",
				Amount:      15000000,
				Type:        ledger.TypeIncome,
				Category:    "Gaji",
			},
			{
				ID:          "b7c1",
				Date:        "2024-03-02T08:00:00Z",
				Description: "Belanja Mingguan",
				Amount:      500000,
				Type:        ledger.TypeExpense,
				Category:    "Makanan & Minuman",
			},
		},
		InitialBalance: -250000,
	}
}

func TestAdapter_SaveBeforeLoadIsSkipped(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	adapter := NewAdapter(kv, testLogger())

	if err := adapter.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("Save before hydration returned error: %v", err)
	}

	if _, ok, _ := kv.Get(ctx, TransactionsKey); ok {
		t.Error("save before hydration wrote the transactions entry")
	}
	if _, ok, _ := kv.Get(ctx, BalanceKey); ok {
		t.Error("save before hydration wrote the balance entry")
	}
}

func TestAdapter_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		snap ledger.Snapshot
	}{
		{name: "empty snapshot", snap: ledger.Snapshot{}},
		{name: "negative initial balance", snap: ledger.Snapshot{InitialBalance: -1000000}},
		{name: "full snapshot", snap: sampleSnapshot()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := NewMemoryKV()
			adapter := NewAdapter(kv, testLogger())

			adapter.Load(ctx) // hydrate to unlock saves
			if err := adapter.Save(ctx, tt.snap); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got := NewAdapter(kv, testLogger()).Load(ctx)

			want := tt.snap
			if want.Transactions == nil {
				want.Transactions = []ledger.Transaction{}
			}
			if got.Transactions == nil {
				got.Transactions = []ledger.Transaction{}
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round-trip mismatch:\ngot  %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestAdapter_LoadDegradesToDefaults(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
	}{
		{name: "no entries", entries: map[string]string{}},
		{
			name: "unparseable transactions",
			entries: map[string]string{
				TransactionsKey: "{not json",
				BalanceKey:      "garbage",
			},
		},
		{
			name: "transactions entry holds wrong shape",
			entries: map[string]string{
				TransactionsKey: `{"id":"x"}`,
				BalanceKey:      "12.5",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := NewMemoryKV()
			if err := kv.SetAll(ctx, tt.entries); err != nil {
				t.Fatalf("seeding kv: %v", err)
			}

			snap := NewAdapter(kv, testLogger()).Load(ctx)
			if len(snap.Transactions) != 0 {
				t.Errorf("expected empty transactions, got %d", len(snap.Transactions))
			}
			if snap.InitialBalance != 0 {
				t.Errorf("expected zero balance, got %d", snap.InitialBalance)
			}
		})
	}
}

func TestAdapter_LoadUnlocksSavesEvenOnFailure(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	if err := kv.SetAll(ctx, map[string]string{TransactionsKey: "broken"}); err != nil {
		t.Fatalf("seeding kv: %v", err)
	}

	adapter := NewAdapter(kv, testLogger())
	adapter.Load(ctx)

	if err := adapter.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("Save after failed load returned error: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, TransactionsKey); !ok {
		t.Error("expected transactions entry after save")
	}
}
