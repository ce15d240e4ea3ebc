package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the flat expense projection for the dashboard. Category may be
// empty; the expense-by-category report excludes such rows rather than
// grouping them under a default bucket.
type Expense struct {
	ID             int             `gorm:"primary_key" json:"id"`
	OrganizationId string          `gorm:"index;not null" json:"organization_id" binding:"required"`
	Category       string          `gorm:"size:100" json:"category"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"grand_total"`
	Lines          []*ExpenseLine  `gorm:"foreignKey:ExpenseId" json:"lines"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ExpenseLine carries the expense account reference with its denormalized name.
type ExpenseLine struct {
	ID          int    `gorm:"primary_key" json:"id"`
	ExpenseId   int    `gorm:"index;not null" json:"expense_id"`
	AccountId   int    `gorm:"index" json:"account_id"`
	AccountName string `gorm:"size:100" json:"account_name"`
}
