package reports

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/insights_backend/models"
	"bitbucket.org/mmdatafocus/insights_backend/utils"
	"github.com/shopspring/decimal"
)

type CustomerRetentionResponse struct {
	RetentionRate  decimal.Decimal       `json:"retentionRate"`
	ChurnRate      decimal.Decimal       `json:"churnRate"`
	DailyRetention []DailyRetentionPoint `json:"dailyRetention"`
}

// GetCustomerRetention compares the requested month against the month before
// it. Retention discounts the previous month's active base by the customers
// newly created in the requested month; churn compares the active base at the
// end of each month. Both headline rates come with a per-day retention series.
func GetCustomerRetention(ctx context.Context, date string) (*CustomerRetentionResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "dashboard_customer_retention", started, map[string]any{"date": date})

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
	prevPeriod, err := utils.GetPreviousMonthRange(date, data.Organization.Timezone)
	if err != nil {
		return nil, err
	}

	// Active base as of an instant: Active-status customers created up to it.
	activeAt := func(end time.Time) int {
		return CountWhere(data.Customers, func(c *models.Customer) bool {
			return c.Status == models.CustomerStatusActive && !c.CreatedAt.After(end)
		})
	}
	prevActive := activeAt(prevPeriod.End)
	currentActive := activeAt(period.End)

	newInPeriod := CountWhere(data.Customers,
		func(c *models.Customer) bool { return period.Contains(c.CreatedAt) })

	loc := period.Start.Location()
	newByDay := make(map[string]int)
	for _, c := range data.Customers {
		if period.Contains(c.CreatedAt) {
			newByDay[c.CreatedAt.In(loc).Format("2006-01-02")]++
		}
	}

	return &CustomerRetentionResponse{
		RetentionRate:  RetentionRate(prevActive, newInPeriod),
		ChurnRate:      ChurnRate(prevActive, currentActive),
		DailyRetention: DailyRetentionSeries(period, prevActive, newByDay),
	}, nil
}
