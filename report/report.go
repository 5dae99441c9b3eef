/*
Package report is the read-side query layer over the sales history.

PURPOSE:
  Pure functions that slice the sales ledger into date-range buckets for the
  three report flows: last seven days (one bucket per day), the current
  calendar month (one bucket per Monday-aligned week), and the last six
  months (one bucket per calendar month). Buckets that contain no sales are
  dropped so no empty documents are produced.

RANGE SEMANTICS:
  All ranges are inclusive of both endpoints at day granularity: a day
  bucket covers [00:00, 24:00) of that day in the reference time's location.
  The weekly buckets cover seven days from their Monday. A week overlapping
  the month boundary is still one bucket; its sales outside the month are
  included, matching how a paper ledger would bind whole weeks.

SEE ALSO:
  - render.go: turning a bucket into a document
  - bot: the chat flows that request reports
*/
package report

import (
	"fmt"
	"time"

	"github.com/vinoteca/stockbot/ledger"
)

// Bucket is one date range worth of sales plus the labels the chat layer
// attaches to the generated document.
type Bucket struct {
	Sales    []ledger.Sale
	Start    time.Time
	End      time.Time // inclusive day
	Period   string    // document subtitle, e.g. "Ziua: 15.06.2025"
	Caption  string    // chat caption for the document message
	Filename string    // without extension
}

// =============================================================================
// RANGE FILTERS
// =============================================================================

// FilterByRange returns the sales with from <= CreatedAt < until.
func FilterByRange(sales []ledger.Sale, from, until time.Time) []ledger.Sale {
	var out []ledger.Sale
	for _, s := range sales {
		if !s.CreatedAt.Before(from) && s.CreatedAt.Before(until) {
			out = append(out, s)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// salesForDay returns the sales recorded on the given calendar day.
func salesForDay(sales []ledger.Sale, day time.Time) []ledger.Sale {
	start := startOfDay(day)
	return FilterByRange(sales, start, start.AddDate(0, 0, 1))
}

// salesForWeek returns the sales of the seven days starting at weekStart.
func salesForWeek(sales []ledger.Sale, weekStart time.Time) []ledger.Sale {
	start := startOfDay(weekStart)
	return FilterByRange(sales, start, start.AddDate(0, 0, 7))
}

// salesForMonth returns the sales of one calendar month.
func salesForMonth(sales []ledger.Sale, year int, month time.Month, loc *time.Location) []ledger.Sale {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return FilterByRange(sales, start, start.AddDate(0, 1, 0))
}

// =============================================================================
// BUCKET SEQUENCES
// =============================================================================

// DaysInLastWeek returns the last seven calendar days ending with now's day,
// oldest first.
func DaysInLastWeek(now time.Time) []time.Time {
	days := make([]time.Time, 0, 7)
	for i := 6; i >= 0; i-- {
		days = append(days, startOfDay(now.AddDate(0, 0, -i)))
	}
	return days
}

// WeeksInLastMonth returns the Monday of every week that overlaps now's
// calendar month, oldest first. The first Monday may fall in the previous
// month.
func WeeksInLastMonth(now time.Time) []time.Time {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	// Back up to the Monday on or before the 1st.
	weekStart := firstOfMonth
	for weekStart.Weekday() != time.Monday {
		weekStart = weekStart.AddDate(0, 0, -1)
	}

	var weeks []time.Time
	for !weekStart.After(lastOfMonth) {
		weeks = append(weeks, weekStart)
		weekStart = weekStart.AddDate(0, 0, 7)
	}
	return weeks
}

// LastSixMonths returns the first day of each of the six calendar months
// ending with now's month, oldest first.
func LastSixMonths(now time.Time) []time.Time {
	months := make([]time.Time, 0, 6)
	for i := 5; i >= 0; i-- {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		months = append(months, first)
	}
	return months
}

// =============================================================================
// BUCKET BUILDERS - empty buckets are dropped
// =============================================================================

// DailyBuckets groups the last seven days of sales, one bucket per non-empty
// day.
func DailyBuckets(sales []ledger.Sale, now time.Time) []Bucket {
	var out []Bucket
	for _, day := range DaysInLastWeek(now) {
		daySales := salesForDay(sales, day)
		if len(daySales) == 0 {
			continue
		}
		label := day.Format("02.01.2006")
		out = append(out, Bucket{
			Sales:    daySales,
			Start:    day,
			End:      day,
			Period:   "Ziua: " + label,
			Caption:  "Raport pentru " + label,
			Filename: "raport_vanzari_" + day.Format("2006-01-02"),
		})
	}
	return out
}

// WeeklyBuckets groups the current month's sales by Monday-aligned week, one
// bucket per non-empty week. Week numbering counts all weeks of the month,
// so skipped empty weeks leave gaps in the numbering.
func WeeklyBuckets(sales []ledger.Sale, now time.Time) []Bucket {
	var out []Bucket
	for i, weekStart := range WeeksInLastMonth(now) {
		weekSales := salesForWeek(sales, weekStart)
		if len(weekSales) == 0 {
			continue
		}
		weekEnd := weekStart.AddDate(0, 0, 6)
		label := fmt.Sprintf("%s - %s", weekStart.Format("02.01"), weekEnd.Format("02.01.2006"))
		out = append(out, Bucket{
			Sales:    weekSales,
			Start:    weekStart,
			End:      weekEnd,
			Period:   "Săptămâna: " + label,
			Caption:  fmt.Sprintf("Raport pentru săptămâna %d: %s", i+1, label),
			Filename: fmt.Sprintf("raport_vanzari_saptamana_%d_%s", i+1, weekStart.Format("2006-01-02")),
		})
	}
	return out
}

// MonthlyBuckets groups the last six months of sales, one bucket per
// non-empty calendar month.
func MonthlyBuckets(sales []ledger.Sale, now time.Time) []Bucket {
	var out []Bucket
	for _, first := range LastSixMonths(now) {
		monthSales := salesForMonth(sales, first.Year(), first.Month(), first.Location())
		if len(monthSales) == 0 {
			continue
		}
		label := monthName(first.Month()) + " " + first.Format("2006")
		out = append(out, Bucket{
			Sales:    monthSales,
			Start:    first,
			End:      first.AddDate(0, 1, -1),
			Period:   "Luna: " + label,
			Caption:  "Raport pentru " + label,
			Filename: "raport_vanzari_" + first.Format("2006_01"),
		})
	}
	return out
}

var monthNames = [...]string{
	"ianuarie", "februarie", "martie", "aprilie", "mai", "iunie",
	"iulie", "august", "septembrie", "octombrie", "noiembrie", "decembrie",
}

func monthName(m time.Month) string {
	return monthNames[m-1]
}
