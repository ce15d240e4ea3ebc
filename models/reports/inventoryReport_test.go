package reports

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/insights_backend/models"
	"bitbucket.org/mmdatafocus/insights_backend/utils"
	"github.com/shopspring/decimal"
)

func TestInventoryMetrics_ScopedToItemsCreatedInMonth(t *testing.T) {
	period, _ := utils.GetMonthRange("2024-02", "UTC")
	inWindow := period.Start.Add(9 * 24 * time.Hour)
	beforeWindow := period.Start.AddDate(0, -2, 0)

	items := []*models.Item{
		{ID: 1, CostPrice: d("10"), CreatedAt: inWindow},
		{ID: 2, CostPrice: d("4"), CreatedAt: inWindow},
		// Held stock, but created 2023-12: excluded from the month's metrics.
		{ID: 3, CostPrice: d("10"), CreatedAt: beforeWindow},
	}
	movements := []*models.ItemTrack{
		{ItemId: 1, DebitQuantity: d("3"), CreatedAt: inWindow},
		{ItemId: 2, DebitQuantity: d("2"), CreditQuantity: d("2"), CreatedAt: inWindow},
		{ItemId: 3, DebitQuantity: d("5"), CreatedAt: beforeWindow},
	}

	snapshots := models.ComputeStockSnapshots(items, movements)
	filteredItems := FilterByPeriod(items, period,
		func(item *models.Item) time.Time { return item.CreatedAt })

	totalInventoryValue := decimal.Zero
	totalItemCount := decimal.Zero
	totalOutOfStock := 0
	one := decimal.NewFromInt(1)
	for _, item := range filteredItems {
		snapshot := snapshots[item.ID]
		totalInventoryValue = totalInventoryValue.Add(snapshot.CurrentStock.Mul(item.CostPrice))
		totalItemCount = totalItemCount.Add(snapshot.CurrentStock)
		if snapshot.CurrentStock.LessThan(one) {
			totalOutOfStock++
		}
	}

	// Item 3's 5×10 must not leak in: only item 1 (3×10) counts value.
	if !totalInventoryValue.Equal(d("30")) {
		t.Fatalf("expected inventory value 30, got %s", totalInventoryValue)
	}
	if !totalItemCount.Equal(d("3")) {
		t.Fatalf("expected item count 3, got %s", totalItemCount)
	}
	// Item 2 netted to zero stock; item 3 is out of scope.
	if totalOutOfStock != 1 {
		t.Fatalf("expected 1 out-of-stock item, got %d", totalOutOfStock)
	}
	if len(filteredItems) != 2 {
		t.Fatalf("expected 2 new items, got %d", len(filteredItems))
	}
}
