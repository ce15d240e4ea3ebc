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

type TopSoldProduct struct {
	ItemId    int             `json:"itemId"`
	ItemName  string          `json:"itemName"`
	TotalSold decimal.Decimal `json:"totalSold"`
}

type TopCustomer struct {
	CustomerId   int             `json:"customerId"`
	CustomerName string          `json:"customerName"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
}

type TopProductCustomerResponse struct {
	TopProducts  []*TopSoldProduct `json:"topProducts"`
	TopCustomers []*TopCustomer    `json:"topCustomers"`
}

type TopSellingProduct struct {
	ItemId       int             `json:"itemId"`
	ItemName     string          `json:"itemName"`
	TotalSold    decimal.Decimal `json:"totalSold"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Category     string          `json:"category"`
	ItemImage    string          `json:"itemImage"`
	CurrentStock string          `json:"currentStock"`
}

type TopSellingProductsResponse struct {
	TopProducts []*TopSellingProduct `json:"topProducts"`
}

// GetTopProductCustomer ranks products by how often they appear on the
// window's five highest-value invoices, and customers by total spend across
// all invoices in the window (top 7).
func GetTopProductCustomer(ctx context.Context, date string, filterType string) (*TopProductCustomerResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "dashboard_top_product_customer", started, map[string]any{"date": date, "filterType": filterType})

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

	topInvoices := TopN(filteredInvoices,
		func(inv *models.SalesInvoice) decimal.Decimal { return inv.TotalAmount }, 5)

	// Count line-item occurrences across the top invoices, first-seen order.
	productIndex := make(map[int]int)
	products := []*TopSoldProduct{}
	for _, inv := range topInvoices {
		for _, line := range inv.LineItems {
			if line.ItemId == 0 {
				continue
			}
			i, seen := productIndex[line.ItemId]
			if !seen {
				itemName := line.ItemName
				if itemName == "" {
					itemName = "Undefined"
				}
				i = len(products)
				productIndex[line.ItemId] = i
				products = append(products, &TopSoldProduct{
					ItemId:   line.ItemId,
					ItemName: itemName,
				})
			}
			products[i].TotalSold = products[i].TotalSold.Add(decimal.NewFromInt(1))
		}
	}

	topProducts := TopN(products,
		func(p *TopSoldProduct) decimal.Decimal { return p.TotalSold }, 5)

	customerIndex := make(map[int]int)
	customers := []*TopCustomer{}
	for _, inv := range filteredInvoices {
		if inv.CustomerId == 0 {
			continue
		}
		i, seen := customerIndex[inv.CustomerId]
		if !seen {
			customerName := inv.CustomerName
			if customerName == "" {
				customerName = "Unknown Customer"
			}
			i = len(customers)
			customerIndex[inv.CustomerId] = i
			customers = append(customers, &TopCustomer{
				CustomerId:   inv.CustomerId,
				CustomerName: customerName,
			})
		}
		customers[i].TotalSpent = customers[i].TotalSpent.Add(inv.TotalAmount)
	}

	topCustomers := TopN(customers,
		func(c *TopCustomer) decimal.Decimal { return c.TotalSpent }, 7)

	return &TopProductCustomerResponse{
		TopProducts:  topProducts,
		TopCustomers: topCustomers,
	}, nil
}

// GetTopSellingProducts ranks the month's products by units sold and enriches
// each with category, image and a stock status derived from the as-of-now
// snapshot. The date is the YYYY-MM / YYYY/MM month variant.
func GetTopSellingProducts(ctx context.Context, date string) (*TopSellingProductsResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "dashboard_top_selling_products", started, map[string]any{"date": date})

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	cacheKey := fmt.Sprintf("report:top-selling:%s:%s", organizationId, date)
	if reportCacheEnabled() {
		var cached TopSellingProductsResponse
		if hit, err := cacheGet(cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
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
	itemsById := make(map[int]*models.Item, len(data.Items))
	for _, item := range data.Items {
		itemsById[item.ID] = item
	}

	filteredInvoices := FilterByPeriod(data.Invoices, period,
		func(inv *models.SalesInvoice) time.Time { return inv.CreatedAt })

	productIndex := make(map[int]int)
	products := []*TopSellingProduct{}
	for _, inv := range filteredInvoices {
		for _, line := range inv.LineItems {
			if line.ItemId == 0 {
				continue
			}
			i, seen := productIndex[line.ItemId]
			if !seen {
				itemName := line.ItemName
				if itemName == "" {
					itemName = "Undefined"
				}
				product := &TopSellingProduct{
					ItemId:       line.ItemId,
					ItemName:     itemName,
					CurrentStock: "undefined",
				}
				if item, found := itemsById[line.ItemId]; found {
					product.Category = item.Categories
					product.ItemImage = item.Image
					if snapshots[item.ID].CurrentStock.LessThan(decimal.NewFromInt(1)) {
						product.CurrentStock = "Out of Stock"
					} else {
						product.CurrentStock = "In Stock"
					}
				}
				i = len(products)
				productIndex[line.ItemId] = i
				products = append(products, product)
			}
			products[i].TotalSold = products[i].TotalSold.Add(line.Quantity)
			products[i].TotalAmount = products[i].TotalAmount.Add(inv.SaleAmount)
		}
	}

	response := &TopSellingProductsResponse{
		TopProducts: TopN(products,
			func(p *TopSellingProduct) decimal.Decimal { return p.TotalSold }, 5),
	}

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, response, reportCacheTTL())
	}
	return response, nil
}
