package reports

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/insights_backend/models"
	"bitbucket.org/mmdatafocus/insights_backend/utils"
	"github.com/shopspring/decimal"
)

type InventoryOverviewResponse struct {
	TotalInventoryValue decimal.Decimal `json:"totalInventoryValue"`
	TotalItemCount      decimal.Decimal `json:"totalItemCount"`
	TotalOutOfStock     int             `json:"totalOutOfStock"`
	NewItems            int             `json:"newItems"`
}

// GetInventoryOverview reports inventory health for the given month. The
// metrics cover items created in the month window; each item's stock level
// itself reflects the full ledger as of now.
func GetInventoryOverview(ctx context.Context, date string) (*InventoryOverviewResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "dashboard_inventory_overview", started, map[string]any{"date": date})

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	data, err := models.FetchDashboardData(ctx, organizationId)
	if err != nil {
		return nil, err
	}

	period, err := utils.GetMonthRange(date, data.Organization.Timezone)
	if err != nil {
		return nil, err
	}

	snapshots := models.ComputeStockSnapshots(data.Items, data.ItemTracks)
	filteredItems := FilterByPeriod(data.Items, period,
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

	newItems := len(filteredItems)

	return &InventoryOverviewResponse{
		TotalInventoryValue: totalInventoryValue,
		TotalItemCount:      totalItemCount,
		TotalOutOfStock:     totalOutOfStock,
		NewItems:            newItems,
	}, nil
}
