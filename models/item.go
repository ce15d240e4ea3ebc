package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is the flat inventory item projection used by the dashboard:
// cost price for valuation, categories/image for top-seller enrichment.
type Item struct {
	ID             int             `gorm:"primary_key" json:"id"`
	OrganizationId string          `gorm:"index;not null" json:"organization_id" binding:"required"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	Image          string          `gorm:"size:255" json:"image"`
	CostPrice      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_price"`
	Categories     string          `gorm:"size:255" json:"categories"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
