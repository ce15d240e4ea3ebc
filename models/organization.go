package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/insights_backend/config"
	"bitbucket.org/mmdatafocus/insights_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the tenant record. Read-only for this service; its timezone
// anchors every date comparison in the reporting pipeline.
type Organization struct {
	ID         uuid.UUID `gorm:"primary_key" json:"id"`
	Name       string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Country    string    `gorm:"size:100" json:"country"`
	Timezone   string    `gorm:"size:64" json:"timezone"`
	DateFormat string    `gorm:"size:20" json:"date_format"`
	DateSplit  string    `gorm:"size:5" json:"date_split"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *Organization) StoreRedis() error {
	return config.SetRedisObject("Organization:"+o.ID.String(), o, 10*time.Minute)
}

func GetOrganizationById(ctx context.Context, id string) (*Organization, error) {

	var result Organization

	exists, err := config.GetRedisObject("Organization:"+id, &result)
	if err != nil {
		return nil, err
	}

	if !exists {
		db := config.GetDB()
		err := db.WithContext(ctx).Where("id = ?", id).First(&result).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: organization not found", utils.ErrNotFound)
		}
		// Connection loss, timeouts and the like stay unexpected errors.
		if err != nil {
			return nil, err
		}
		if err := result.StoreRedis(); err != nil {
			return nil, err
		}
	}
	return &result, nil
}
