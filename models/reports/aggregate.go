package reports

import (
	"sort"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/insights_backend/utils"
	"github.com/shopspring/decimal"
)

// The metric primitives below are pure: filter -> group -> reduce -> sort
// stages over already-fetched record sets, with no state between requests.

// FilterByPeriod keeps the records whose instant falls within the closed
// period. The period carries the organization-timezone anchoring; instant
// comparison itself is timezone-independent.
func FilterByPeriod[T any](records []T, period utils.Period, at func(T) time.Time) []T {
	filtered := make([]T, 0, len(records))
	for _, record := range records {
		if period.Contains(at(record)) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// SumWhere totals a decimal field over the records matching the predicate.
// Decimal zero values stand in for missing amounts, so no NaN can propagate.
func SumWhere[T any](records []T, predicate func(T) bool, field func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, record := range records {
		if predicate(record) {
			total = total.Add(field(record))
		}
	}
	return total
}

func CountWhere[T any](records []T, predicate func(T) bool) int {
	count := 0
	for _, record := range records {
		if predicate(record) {
			count++
		}
	}
	return count
}

// Bucket is one key's total from GroupSum, in first-seen key order.
type Bucket struct {
	Key   string
	Total decimal.Decimal
}

// GroupSum totals a value per grouping key. Records with an empty (or
// whitespace-only) key are excluded entirely rather than grouped under a
// default bucket. Bucket order is the order keys were first seen, which keeps
// downstream TopN tie-breaking deterministic.
func GroupSum[T any](records []T, keyFn func(T) string, valueFn func(T) decimal.Decimal) []Bucket {
	index := make(map[string]int)
	buckets := []Bucket{}
	for _, record := range records {
		key := keyFn(record)
		if strings.TrimSpace(key) == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key, Total: decimal.Zero})
		}
		buckets[i].Total = buckets[i].Total.Add(valueFn(record))
	}
	return buckets
}

// TopN sorts entries descending by rank and truncates to n. The sort is
// stable: equal ranks keep their original relative order.
func TopN[T any](entries []T, rank func(T) decimal.Decimal, n int) []T {
	ranked := make([]T, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return rank(ranked[i]).GreaterThan(rank(ranked[j]))
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// RetentionRate is ((prevActive - newInPeriod) / prevActive) * 100, exactly 0
// when there were no previously active customers. The result is deliberately
// not clamped to [0,100]; values outside that range reflect net growth or
// data anomalies and are valid outputs.
func RetentionRate(prevActive int, newInPeriod int) decimal.Decimal {
	if prevActive <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(prevActive - newInPeriod)).
		Div(decimal.NewFromInt(int64(prevActive))).
		Mul(decimal.NewFromInt(100))
}

// ChurnRate is ((prevActive - currentActive) / prevActive) * 100, exactly 0
// when there were no previously active customers. Not clamped.
func ChurnRate(prevActive int, currentActive int) decimal.Decimal {
	if prevActive <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(prevActive - currentActive)).
		Div(decimal.NewFromInt(int64(prevActive))).
		Mul(decimal.NewFromInt(100))
}

// AverageOrderValue is totalSaleAmount / orderCount, 0 when there are no orders.
func AverageOrderValue(totalSaleAmount decimal.Decimal, orderCount int) decimal.Decimal {
	if orderCount <= 0 {
		return decimal.Zero
	}
	return totalSaleAmount.Div(decimal.NewFromInt(int64(orderCount)))
}

// DailyRetentionPoint is one day of the retention series.
type DailyRetentionPoint struct {
	Date          string          `json:"date"`
	RetentionRate decimal.Decimal `json:"retentionRate"`
}

// DailyRetentionSeries walks every calendar day of the period in its timezone
// anchor. A running "remaining customers" counter is seeded with the previous
// period's active count; each day subtracts that day's new-customer count and
// reports remaining_after / remaining_before * 100, then carries the post-day
// remainder forward. The fold is strictly sequential, not per-day independent.
func DailyRetentionSeries(period utils.Period, prevActive int, newByDay map[string]int) []DailyRetentionPoint {
	points := []DailyRetentionPoint{}
	remaining := prevActive
	for day := period.Start; !day.After(period.End); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		before := remaining
		after := before - newByDay[date]
		rate := decimal.Zero
		if before > 0 {
			rate = decimal.NewFromInt(int64(after)).
				Div(decimal.NewFromInt(int64(before))).
				Mul(decimal.NewFromInt(100))
		}
		points = append(points, DailyRetentionPoint{Date: date, RetentionRate: rate})
		remaining = after
	}
	return points
}
