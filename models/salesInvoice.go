package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesInvoice is the denormalized invoice projection for reporting.
// CustomerName is carried on the row so the aggregators never need a join
// back to the customer table.
type SalesInvoice struct {
	ID             int                 `gorm:"primary_key" json:"id"`
	OrganizationId string              `gorm:"index;not null" json:"organization_id" binding:"required"`
	CustomerId     int                 `gorm:"index" json:"customer_id"`
	CustomerName   string              `gorm:"size:100" json:"customer_name"`
	PaidStatus     PaidStatus          `gorm:"type:enum('Pending','Completed','Partial','Overdue','Cancelled');default:'Pending'" json:"paid_status"`
	PaidAmount     decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	TotalAmount    decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	SaleAmount     decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"sale_amount"`
	LineItems      []*InvoiceLineItem  `gorm:"foreignKey:InvoiceId" json:"line_items"`
	CreatedAt      time.Time           `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// InvoiceLineItem carries the item reference plus the denormalized item name.
type InvoiceLineItem struct {
	ID        int             `gorm:"primary_key" json:"id"`
	InvoiceId int             `gorm:"index;not null" json:"invoice_id"`
	ItemId    int             `gorm:"index" json:"item_id"`
	ItemName  string          `gorm:"size:100" json:"item_name"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
}
