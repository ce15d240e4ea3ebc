package reports

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/insights_backend/models"
	"bitbucket.org/mmdatafocus/insights_backend/utils"
	"github.com/shopspring/decimal"
)

type ExpenseCategoryTotal struct {
	Category string `json:"category"`
	// Total is formatted as a fixed 2-decimal string in the payload.
	Total string `json:"total"`
}

type ExpenseByCategoryResponse struct {
	Category []ExpenseCategoryTotal `json:"category"`
}

// GetExpenseByCategory groups the window's expenses by category and totals
// grandTotal per bucket. Expenses without a category are excluded.
func GetExpenseByCategory(ctx context.Context, date string, filterType string) (*ExpenseByCategoryResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "dashboard_expense_by_category", started, map[string]any{"date": date, "filterType": filterType})

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	data, err := models.FetchDashboardData(ctx, organizationId)
	if err != nil {
		return nil, err
	}

	period, err := utils.GetDateRange(filterType, date, data.Organization.Timezone)
	if err != nil {
		return nil, err
	}

	filteredExpenses := FilterByPeriod(data.Expenses, period,
		func(exp *models.Expense) time.Time { return exp.CreatedAt })

	buckets := GroupSum(filteredExpenses,
		func(exp *models.Expense) string { return exp.Category },
		func(exp *models.Expense) decimal.Decimal { return exp.GrandTotal },
	)

	response := &ExpenseByCategoryResponse{Category: []ExpenseCategoryTotal{}}
	for _, bucket := range buckets {
		response.Category = append(response.Category, ExpenseCategoryTotal{
			Category: bucket.Key,
			Total:    bucket.Total.StringFixed(2),
		})
	}
	return response, nil
}
