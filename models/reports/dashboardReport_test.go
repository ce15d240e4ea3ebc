package reports

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/insights_backend/models"
	"bitbucket.org/mmdatafocus/insights_backend/utils"
	"github.com/shopspring/decimal"
)

func invoice(status models.PaidStatus, paid, total string, at time.Time) *models.SalesInvoice {
	return &models.SalesInvoice{
		PaidStatus:  status,
		PaidAmount:  d(paid),
		TotalAmount: d(total),
		CreatedAt:   at,
	}
}

func TestRevenue_CountsOnlyCompletedInvoices(t *testing.T) {
	period, _ := utils.GetDateRange("month", "2024-03-01", "UTC")
	inWindow := period.Start.Add(24 * time.Hour)

	invoices := []*models.SalesInvoice{
		invoice(models.PaidStatusCompleted, "100", "120", inWindow),
		invoice(models.PaidStatusPending, "50", "80", inWindow),
		invoice(models.PaidStatusPartial, "30", "90", inWindow),
		invoice(models.PaidStatusCompleted, "200", "200", period.End.Add(time.Nanosecond)),
	}

	filtered := FilterByPeriod(invoices, period,
		func(inv *models.SalesInvoice) time.Time { return inv.CreatedAt })

	revenue := SumWhere(filtered,
		func(inv *models.SalesInvoice) bool { return inv.PaidStatus == models.PaidStatusCompleted },
		func(inv *models.SalesInvoice) decimal.Decimal { return inv.PaidAmount },
	)
	if !revenue.Equal(d("100")) {
		t.Fatalf("expected revenue 100, got %s", revenue)
	}

	// Total sales covers every invoice in the window regardless of status.
	totalSales := SumWhere(filtered,
		func(inv *models.SalesInvoice) bool { return true },
		func(inv *models.SalesInvoice) decimal.Decimal { return inv.TotalAmount },
	)
	if !totalSales.Equal(d("290")) {
		t.Fatalf("expected total sales 290, got %s", totalSales)
	}
}

func TestExpenseCategoryTotals_FixedTwoDecimalStrings(t *testing.T) {
	period, _ := utils.GetDateRange("month", "2024-03-01", "UTC")
	at := period.Start.Add(time.Hour)

	expenses := []*models.Expense{
		{Category: "Utilities", GrandTotal: d("30.5"), CreatedAt: at},
		{Category: "Utilities", GrandTotal: d("12"), CreatedAt: at},
		{Category: "", GrandTotal: d("99"), CreatedAt: at},
	}

	filtered := FilterByPeriod(expenses, period,
		func(exp *models.Expense) time.Time { return exp.CreatedAt })
	buckets := GroupSum(filtered,
		func(exp *models.Expense) string { return exp.Category },
		func(exp *models.Expense) decimal.Decimal { return exp.GrandTotal },
	)

	if len(buckets) != 1 {
		t.Fatalf("uncategorized expenses must be excluded, got %d buckets", len(buckets))
	}
	if got := buckets[0].Total.StringFixed(2); got != "42.50" {
		t.Fatalf("expected \"42.50\", got %q", got)
	}
}

func TestTopInvoices_RankedByTotalAmount(t *testing.T) {
	period, _ := utils.GetDateRange("month", "2024-03-01", "UTC")
	at := period.Start.Add(time.Hour)

	invoices := []*models.SalesInvoice{}
	for _, total := range []string{"10", "500", "40", "250", "90", "320", "15"} {
		invoices = append(invoices, invoice(models.PaidStatusCompleted, total, total, at))
	}

	top := TopN(invoices,
		func(inv *models.SalesInvoice) decimal.Decimal { return inv.TotalAmount }, 5)
	if len(top) != 5 {
		t.Fatalf("expected 5 invoices, got %d", len(top))
	}
	if !top[0].TotalAmount.Equal(d("500")) || !top[4].TotalAmount.Equal(d("40")) {
		t.Fatalf("unexpected ranking: first %s, last %s", top[0].TotalAmount, top[4].TotalAmount)
	}
}
