package models

import (
	"time"
)

// Customer is the flat projection the dashboard reads: identity, status and
// creation instant. The full customer record lives in the upstream accounting
// service.
type Customer struct {
	ID             int            `gorm:"primary_key" json:"id"`
	OrganizationId string         `gorm:"index;not null" json:"organization_id" binding:"required"`
	DisplayName    string         `gorm:"size:100;not null" json:"display_name"`
	Status         CustomerStatus `gorm:"type:enum('Active','Inactive','Blocked');default:'Active'" json:"status"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
