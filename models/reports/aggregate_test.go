package reports

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/insights_backend/utils"
	"github.com/shopspring/decimal"
)

type rec struct {
	key    string
	amount decimal.Decimal
	at     time.Time
}

func d(v string) decimal.Decimal {
	out, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return out
}

func TestFilterByPeriod_ClosedBounds(t *testing.T) {
	period, _ := utils.GetDateRange("day", "2024-03-15", "UTC")
	records := []rec{
		{key: "before", at: period.Start.Add(-time.Nanosecond)},
		{key: "start", at: period.Start},
		{key: "end", at: period.End},
		{key: "after", at: period.End.Add(time.Nanosecond)},
	}

	filtered := FilterByPeriod(records, period, func(r rec) time.Time { return r.at })
	if len(filtered) != 2 {
		t.Fatalf("expected 2 records inside the window, got %d", len(filtered))
	}
	if filtered[0].key != "start" || filtered[1].key != "end" {
		t.Fatalf("boundary records must be included: %v", filtered)
	}
}

func TestSumWhere_OnlyMatchingRecords(t *testing.T) {
	records := []rec{
		{key: "Completed", amount: d("100")},
		{key: "Pending", amount: d("40")},
		{key: "Completed", amount: d("60.50")},
	}

	total := SumWhere(records,
		func(r rec) bool { return r.key == "Completed" },
		func(r rec) decimal.Decimal { return r.amount },
	)
	if !total.Equal(d("160.50")) {
		t.Fatalf("expected 160.50, got %s", total)
	}
}

func TestGroupSum_ExcludesEmptyKeysAndConservesTotal(t *testing.T) {
	records := []rec{
		{key: "Utilities", amount: d("30")},
		{key: "Rent", amount: d("500")},
		{key: "", amount: d("25")},
		{key: "   ", amount: d("10")},
		{key: "Utilities", amount: d("12.25")},
	}

	buckets := GroupSum(records,
		func(r rec) string { return r.key },
		func(r rec) decimal.Decimal { return r.amount },
	)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	// First-seen order.
	if buckets[0].Key != "Utilities" || buckets[1].Key != "Rent" {
		t.Fatalf("unexpected bucket order: %v", buckets)
	}
	if !buckets[0].Total.Equal(d("42.25")) {
		t.Fatalf("Utilities expected 42.25, got %s", buckets[0].Total)
	}

	// Bucket totals equal the sum over keyed records; blanks are dropped.
	keyed := SumWhere(records,
		func(r rec) bool { return r.key == "Utilities" || r.key == "Rent" },
		func(r rec) decimal.Decimal { return r.amount },
	)
	sum := decimal.Zero
	for _, b := range buckets {
		sum = sum.Add(b.Total)
	}
	if !sum.Equal(keyed) {
		t.Fatalf("bucket totals %s do not conserve keyed sum %s", sum, keyed)
	}
}

func TestTopN_DescendingStableTruncated(t *testing.T) {
	entries := []rec{
		{key: "a", amount: d("5")},
		{key: "b", amount: d("9")},
		{key: "c", amount: d("5")},
		{key: "d", amount: d("12")},
	}

	top := TopN(entries, func(r rec) decimal.Decimal { return r.amount }, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].key != "d" || top[1].key != "b" {
		t.Fatalf("unexpected ranking: %v", top)
	}
	// Equal ranks keep insertion order: "a" before "c".
	if top[2].key != "a" {
		t.Fatalf("tie must keep first-seen order, got %q", top[2].key)
	}

	all := TopN(entries, func(r rec) decimal.Decimal { return r.amount }, 10)
	if len(all) != len(entries) {
		t.Fatalf("n larger than input must return all entries")
	}
}

func TestRetentionRate(t *testing.T) {
	if !RetentionRate(0, 5).Equal(decimal.Zero) {
		t.Fatalf("zero previous base must yield exactly 0")
	}
	// 10 previously active, 3 new: (10-3)/10*100 = 70
	if !RetentionRate(10, 3).Equal(d("70")) {
		t.Fatalf("expected 70, got %s", RetentionRate(10, 3))
	}
	// More new customers than the base: negative, not clamped.
	if !RetentionRate(10, 15).Equal(d("-50")) {
		t.Fatalf("expected -50, got %s", RetentionRate(10, 15))
	}
}

func TestChurnRate(t *testing.T) {
	if !ChurnRate(0, 10).Equal(decimal.Zero) {
		t.Fatalf("zero previous base must yield exactly 0")
	}
	// 10 then 8: 20% churn.
	if !ChurnRate(10, 8).Equal(d("20")) {
		t.Fatalf("expected 20, got %s", ChurnRate(10, 8))
	}
	// Growth yields negative churn, not clamped.
	if !ChurnRate(10, 12).Equal(d("-20")) {
		t.Fatalf("expected -20, got %s", ChurnRate(10, 12))
	}
}

func TestAverageOrderValue(t *testing.T) {
	if !AverageOrderValue(d("100"), 0).Equal(decimal.Zero) {
		t.Fatalf("no orders must yield exactly 0")
	}
	if !AverageOrderValue(d("150"), 4).Equal(d("37.5")) {
		t.Fatalf("expected 37.5, got %s", AverageOrderValue(d("150"), 4))
	}
}

func TestDailyRetentionSeries_SequentialFold(t *testing.T) {
	period, _ := utils.GetMonthRange("2024-02", "UTC")
	newByDay := map[string]int{
		"2024-02-01": 2,
		"2024-02-03": 5,
	}

	points := DailyRetentionSeries(period, 10, newByDay)
	if len(points) != 29 {
		t.Fatalf("February 2024 must have 29 points, got %d", len(points))
	}
	if points[0].Date != "2024-02-01" || points[28].Date != "2024-02-29" {
		t.Fatalf("unexpected date bounds: %s .. %s", points[0].Date, points[28].Date)
	}

	// Day 1: 8/10 remain.
	if !points[0].RetentionRate.Equal(d("80")) {
		t.Fatalf("day 1 expected 80, got %s", points[0].RetentionRate)
	}
	// Day 2: no new customers, remainder carries: 8/8 = 100.
	if !points[1].RetentionRate.Equal(d("100")) {
		t.Fatalf("day 2 expected 100, got %s", points[1].RetentionRate)
	}
	// Day 3: 3/8 = 37.5.
	if !points[2].RetentionRate.Equal(d("37.5")) {
		t.Fatalf("day 3 expected 37.5, got %s", points[2].RetentionRate)
	}
	// Day 4 onward carries 3/3 = 100.
	if !points[3].RetentionRate.Equal(d("100")) {
		t.Fatalf("day 4 expected 100, got %s", points[3].RetentionRate)
	}
}

func TestDailyRetentionSeries_ZeroBase(t *testing.T) {
	period, _ := utils.GetMonthRange("2024-02", "UTC")
	points := DailyRetentionSeries(period, 0, map[string]int{"2024-02-01": 3})
	for _, p := range points {
		if !p.RetentionRate.Equal(decimal.Zero) {
			t.Fatalf("zero base must yield exactly 0 on %s, got %s", p.Date, p.RetentionRate)
		}
	}
}
