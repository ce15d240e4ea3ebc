package models

import (
	"context"

	"bitbucket.org/mmdatafocus/insights_backend/config"
	"golang.org/x/sync/errgroup"
)

// DashboardData is the per-request snapshot every report works from.
// All record sets belong to a single organization.
type DashboardData struct {
	Organization *Organization
	Invoices     []*SalesInvoice
	Customers    []*Customer
	Items        []*Item
	ItemTracks   []*ItemTrack
	Expenses     []*Expense
}

// FetchDashboardData resolves the organization, then issues the five record
// reads concurrently. The reads are independent read-only queries against
// disjoint record sets, so fan-out is safe; the first failure cancels the
// rest and fails the whole request (no partial results).
func FetchDashboardData(ctx context.Context, organizationId string) (*DashboardData, error) {

	organization, err := GetOrganizationById(ctx, organizationId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	data := &DashboardData{Organization: organization}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return db.WithContext(gctx).
			Select("id", "organization_id", "customer_id", "customer_name",
				"paid_status", "paid_amount", "total_amount", "sale_amount", "created_at").
			Where("organization_id = ?", organizationId).
			Preload("LineItems").
			Find(&data.Invoices).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).
			Select("id", "organization_id", "display_name", "status", "created_at").
			Where("organization_id = ?", organizationId).
			Find(&data.Customers).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).
			Select("id", "organization_id", "name", "image", "cost_price", "categories", "created_at").
			Where("organization_id = ?", organizationId).
			Find(&data.Items).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).
			Select("id", "organization_id", "item_id", "credit_quantity", "debit_quantity", "created_at").
			Where("organization_id = ?", organizationId).
			Find(&data.ItemTracks).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).
			Select("id", "organization_id", "category", "grand_total", "created_at").
			Where("organization_id = ?", organizationId).
			Preload("Lines").
			Find(&data.Expenses).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}
