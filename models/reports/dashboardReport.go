package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/insights_backend/models"
	"bitbucket.org/mmdatafocus/insights_backend/utils"
	"github.com/shopspring/decimal"
)

type OverviewResponse struct {
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	TotalInventoryValue decimal.Decimal `json:"totalInventoryValue"`
	TotalExpenses       decimal.Decimal `json:"totalExpenses"`
	NewCustomer         int             `json:"newCustomer"`
	TotalSales          decimal.Decimal `json:"totalSales"`
}

type SalesOverTimeResponse struct {
	TotalSales decimal.Decimal `json:"totalSales"`
}

type AverageOrderValueResponse struct {
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// GetOverviewData computes the headline dashboard numbers for the requested
// day/month/year window:
//   - totalRevenue: paidAmount summed over invoices with paidStatus Completed
//   - totalInventoryValue: Σ currentStock × costPrice over items created in
//     the window (the stock balance itself is always as-of-now)
//   - totalExpenses: Σ grandTotal
//   - newCustomer: customers created in the window
//   - totalSales: Σ totalAmount over all invoices in the window
func GetOverviewData(ctx context.Context, date string, filterType string) (*OverviewResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "dashboard_overview", started, map[string]any{"date": date, "filterType": filterType})

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	cacheKey := fmt.Sprintf("report:overview:%s:%s:%s", organizationId, filterType, date)
	if reportCacheEnabled() {
		var cached OverviewResponse
		if hit, err := cacheGet(cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	data, err := models.FetchDashboardData(ctx, organizationId)
	if err != nil {
		return nil, err
	}

	period, err := utils.GetDateRange(filterType, date, data.Organization.Timezone)
	if err != nil {
		return nil, err
	}

	invoiceAt := func(inv *models.SalesInvoice) time.Time { return inv.CreatedAt }
	filteredInvoices := FilterByPeriod(data.Invoices, period, invoiceAt)

	totalRevenue := SumWhere(filteredInvoices,
		func(inv *models.SalesInvoice) bool { return inv.PaidStatus == models.PaidStatusCompleted },
		func(inv *models.SalesInvoice) decimal.Decimal { return inv.PaidAmount },
	)

	totalSales := SumWhere(filteredInvoices,
		func(inv *models.SalesInvoice) bool { return true },
		func(inv *models.SalesInvoice) decimal.Decimal { return inv.TotalAmount },
	)

	// Inventory value only counts items created in the window; the stock
	// level per item reflects the full ledger regardless of the window.
	snapshots := models.ComputeStockSnapshots(data.Items, data.ItemTracks)
	filteredItems := FilterByPeriod(data.Items, period,
		func(item *models.Item) time.Time { return item.CreatedAt })
	totalInventoryValue := decimal.Zero
	for _, item := range filteredItems {
		totalInventoryValue = totalInventoryValue.Add(snapshots[item.ID].CurrentStock.Mul(item.CostPrice))
	}

	filteredExpenses := FilterByPeriod(data.Expenses, period,
		func(exp *models.Expense) time.Time { return exp.CreatedAt })
	totalExpenses := SumWhere(filteredExpenses,
		func(exp *models.Expense) bool { return true },
		func(exp *models.Expense) decimal.Decimal { return exp.GrandTotal },
	)

	newCustomer := CountWhere(data.Customers,
		func(c *models.Customer) bool { return period.Contains(c.CreatedAt) })

	response := &OverviewResponse{
		TotalRevenue:        totalRevenue,
		TotalInventoryValue: totalInventoryValue,
		TotalExpenses:       totalExpenses,
		NewCustomer:         newCustomer,
		TotalSales:          totalSales,
	}

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, response, reportCacheTTL())
	}
	return response, nil
}

// GetSalesOverTime sums invoice totalAmount over the requested window.
func GetSalesOverTime(ctx context.Context, date string, filterType string) (*SalesOverTimeResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "dashboard_sales_over_time", started, map[string]any{"date": date, "filterType": filterType})

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

	filteredInvoices := FilterByPeriod(data.Invoices, period,
		func(inv *models.SalesInvoice) time.Time { return inv.CreatedAt })

	totalSales := SumWhere(filteredInvoices,
		func(inv *models.SalesInvoice) bool { return true },
		func(inv *models.SalesInvoice) decimal.Decimal { return inv.TotalAmount },
	)

	return &SalesOverTimeResponse{TotalSales: totalSales}, nil
}

// GetAverageOrderValue is total saleAmount over the window divided by the
// order count, 0 when there are no orders.
func GetAverageOrderValue(ctx context.Context, date string, filterType string) (*AverageOrderValueResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "dashboard_average_order_value", started, map[string]any{"date": date, "filterType": filterType})

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

	filteredInvoices := FilterByPeriod(data.Invoices, period,
		func(inv *models.SalesInvoice) time.Time { return inv.CreatedAt })

	totalSaleAmount := SumWhere(filteredInvoices,
		func(inv *models.SalesInvoice) bool { return true },
		func(inv *models.SalesInvoice) decimal.Decimal { return inv.SaleAmount },
	)

	return &AverageOrderValueResponse{
		AverageOrderValue: AverageOrderValue(totalSaleAmount, len(filteredInvoices)),
	}, nil
}
