package models

import (
	"time"

	"bitbucket.org/mmdatafocus/insights_backend/config"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// StockSnapshot is the current on-hand quantity for an item, computed fresh
// per request from the full movement ledger. The balance is never clamped:
// overselling leaves it negative.
type StockSnapshot struct {
	ItemId         int             `json:"item_id"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	LastMovementAt time.Time       `json:"last_movement_at"`
	HasLedgerData  bool            `json:"has_ledger_data"`
}

// ComputeStockSnapshots folds the movement ledger into per-item snapshots.
// The balance is Σdebit − Σcredit over the whole ledger, so it is independent
// of input order; only LastMovementAt is a max over created-at instants.
// Items without any movement get a zero balance and HasLedgerData=false.
func ComputeStockSnapshots(items []*Item, movements []*ItemTrack) map[int]*StockSnapshot {

	snapshots := make(map[int]*StockSnapshot, len(items))
	for _, item := range items {
		snapshots[item.ID] = &StockSnapshot{
			ItemId:       item.ID,
			CurrentStock: decimal.Zero,
		}
	}

	for _, movement := range movements {
		snapshot, ok := snapshots[movement.ItemId]
		if !ok {
			// Ledger entry for an item outside the current set; ignored.
			continue
		}
		snapshot.CurrentStock = snapshot.CurrentStock.
			Add(movement.DebitQuantity).
			Sub(movement.CreditQuantity)
		if movement.CreatedAt.After(snapshot.LastMovementAt) {
			snapshot.LastMovementAt = movement.CreatedAt
		}
		snapshot.HasLedgerData = true
	}

	logger := config.GetLogger()
	for _, item := range items {
		if snapshot := snapshots[item.ID]; !snapshot.HasLedgerData && logger != nil {
			logger.WithFields(logrus.Fields{
				"item_id":   item.ID,
				"item_name": item.Name,
			}).Warn("no stock ledger data found for item")
		}
	}

	return snapshots
}
