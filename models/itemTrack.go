package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemTrack is one entry in the append-only stock movement ledger.
// Debits add to on-hand stock, credits remove from it. Entries are never
// mutated or deleted once recorded.
type ItemTrack struct {
	ID             int             `gorm:"primary_key" json:"id"`
	OrganizationId string          `gorm:"index;not null" json:"organization_id" binding:"required"`
	ItemId         int             `gorm:"index;not null" json:"item_id" binding:"required"`
	CreditQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit_quantity"`
	DebitQuantity  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debit_quantity"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}
