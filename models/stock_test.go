package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func track(itemId int, debit, credit int64, at time.Time) *ItemTrack {
	return &ItemTrack{
		ItemId:         itemId,
		DebitQuantity:  decimal.NewFromInt(debit),
		CreditQuantity: decimal.NewFromInt(credit),
		CreatedAt:      at,
	}
}

func TestComputeStockSnapshots_FoldsDebitsMinusCredits(t *testing.T) {
	now := time.Now()
	items := []*Item{{ID: 1, Name: "Rice 25kg"}}
	movements := []*ItemTrack{
		track(1, 10, 0, now.Add(-3*time.Hour)),
		track(1, 0, 3, now.Add(-2*time.Hour)),
		track(1, 2, 0, now.Add(-1*time.Hour)),
	}

	snapshots := ComputeStockSnapshots(items, movements)
	snapshot := snapshots[1]
	if snapshot == nil {
		t.Fatalf("missing snapshot for item 1")
	}
	if !snapshot.CurrentStock.Equal(decimal.NewFromInt(9)) {
		t.Fatalf("expected stock 9, got %s", snapshot.CurrentStock)
	}
	if !snapshot.HasLedgerData {
		t.Fatalf("expected ledger data flag")
	}
	if !snapshot.LastMovementAt.Equal(now.Add(-1 * time.Hour)) {
		t.Fatalf("expected last movement at most recent entry, got %s", snapshot.LastMovementAt)
	}
}

func TestComputeStockSnapshots_OrderIndependent(t *testing.T) {
	now := time.Now()
	items := []*Item{{ID: 1}}
	forward := []*ItemTrack{
		track(1, 10, 0, now.Add(-3*time.Hour)),
		track(1, 0, 3, now.Add(-2*time.Hour)),
		track(1, 2, 0, now.Add(-1*time.Hour)),
	}
	reversed := []*ItemTrack{forward[2], forward[1], forward[0]}

	a := ComputeStockSnapshots(items, forward)[1]
	b := ComputeStockSnapshots(items, reversed)[1]
	if !a.CurrentStock.Equal(b.CurrentStock) {
		t.Fatalf("stock depends on ledger order: %s vs %s", a.CurrentStock, b.CurrentStock)
	}
	if !a.LastMovementAt.Equal(b.LastMovementAt) {
		t.Fatalf("last movement depends on ledger order")
	}
}

func TestComputeStockSnapshots_NoMovements(t *testing.T) {
	items := []*Item{{ID: 7, Name: "Cooking Oil"}}

	snapshots := ComputeStockSnapshots(items, nil)
	snapshot := snapshots[7]
	if snapshot == nil {
		t.Fatalf("item without movements must still get a snapshot")
	}
	if !snapshot.CurrentStock.Equal(decimal.Zero) {
		t.Fatalf("expected zero stock, got %s", snapshot.CurrentStock)
	}
	if snapshot.HasLedgerData {
		t.Fatalf("expected HasLedgerData=false for item without movements")
	}
}

func TestComputeStockSnapshots_OversoldGoesNegative(t *testing.T) {
	now := time.Now()
	items := []*Item{{ID: 1}}
	movements := []*ItemTrack{
		track(1, 5, 0, now.Add(-2*time.Hour)),
		track(1, 0, 8, now.Add(-1*time.Hour)),
	}

	snapshot := ComputeStockSnapshots(items, movements)[1]
	if !snapshot.CurrentStock.Equal(decimal.NewFromInt(-3)) {
		t.Fatalf("oversold stock must stay negative, got %s", snapshot.CurrentStock)
	}
}

func TestComputeStockSnapshots_IgnoresUnknownItems(t *testing.T) {
	now := time.Now()
	items := []*Item{{ID: 1}}
	movements := []*ItemTrack{
		track(1, 4, 0, now),
		track(99, 100, 0, now),
	}

	snapshots := ComputeStockSnapshots(items, movements)
	if len(snapshots) != 1 {
		t.Fatalf("expected snapshots only for known items, got %d", len(snapshots))
	}
	if !snapshots[1].CurrentStock.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("unknown-item movement leaked into known item: %s", snapshots[1].CurrentStock)
	}
}
