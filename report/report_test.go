package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinoteca/stockbot/ledger"
	"github.com/vinoteca/stockbot/report"
)

func at(day string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", day)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func sale(id int, productID, qty int, ts time.Time) ledger.Sale {
	return ledger.Sale{ID: id, ProductID: productID, Qty: qty, CreatedAt: ts}
}

// =============================================================================
// RANGE AND BUCKET SEQUENCE TESTS
// =============================================================================

func TestFilterByRange_InclusiveStartExclusiveEnd(t *testing.T) {
	sales := []ledger.Sale{
		sale(1, 1, 1, at("2025-06-10 00:00")),
		sale(2, 1, 1, at("2025-06-10 23:59")),
		sale(3, 1, 1, at("2025-06-11 00:00")),
	}

	got := report.FilterByRange(sales, at("2025-06-10 00:00"), at("2025-06-11 00:00"))
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
}

func TestDaysInLastWeek(t *testing.T) {
	now := at("2025-06-15 14:30")
	days := report.DaysInLastWeek(now)

	require.Len(t, days, 7)
	assert.Equal(t, at("2025-06-09 00:00"), days[0])
	assert.Equal(t, at("2025-06-15 00:00"), days[6])
}

func TestWeeksInLastMonth_MondayAligned(t *testing.T) {
	// June 2025 starts on a Sunday, so the first week's Monday is May 26.
	now := at("2025-06-15 14:30")
	weeks := report.WeeksInLastMonth(now)

	require.Len(t, weeks, 6)
	assert.Equal(t, at("2025-05-26 00:00"), weeks[0])
	assert.Equal(t, time.Monday, weeks[0].Weekday())
	assert.Equal(t, at("2025-06-30 00:00"), weeks[5])
}

func TestWeeksInLastMonth_MonthStartingOnMonday(t *testing.T) {
	// September 2025 starts on a Monday.
	now := at("2025-09-10 09:00")
	weeks := report.WeeksInLastMonth(now)

	require.NotEmpty(t, weeks)
	assert.Equal(t, at("2025-09-01 00:00"), weeks[0])
	require.Len(t, weeks, 5)
}

func TestLastSixMonths_CrossesYearBoundary(t *testing.T) {
	now := at("2025-02-10 09:00")
	months := report.LastSixMonths(now)

	require.Len(t, months, 6)
	assert.Equal(t, at("2024-09-01 00:00"), months[0])
	assert.Equal(t, at("2025-02-01 00:00"), months[5])
}

// =============================================================================
// BUCKET BUILDER TESTS
// =============================================================================

func TestDailyBuckets_SkipsEmptyDays(t *testing.T) {
	now := at("2025-06-15 18:00")
	sales := []ledger.Sale{
		sale(1, 1, 2, at("2025-06-12 10:00")),
		sale(2, 1, 1, at("2025-06-12 16:00")),
		sale(3, 1, 3, at("2025-06-14 11:00")),
		sale(4, 1, 1, at("2025-06-01 11:00")), // outside the window
	}

	buckets := report.DailyBuckets(sales, now)
	require.Len(t, buckets, 2)

	assert.Len(t, buckets[0].Sales, 2)
	assert.Equal(t, "Ziua: 12.06.2025", buckets[0].Period)
	assert.Equal(t, "raport_vanzari_2025-06-12", buckets[0].Filename)
	assert.Equal(t, "Raport pentru 12.06.2025", buckets[0].Caption)

	assert.Len(t, buckets[1].Sales, 1)
	assert.Equal(t, "raport_vanzari_2025-06-14", buckets[1].Filename)
}

func TestWeeklyBuckets_NumbersAllWeeksOfMonth(t *testing.T) {
	// Sales only in the third week of June 2025; the caption still says
	// "săptămâna 3" because numbering counts every week of the month.
	now := at("2025-06-20 18:00")
	sales := []ledger.Sale{
		sale(1, 1, 2, at("2025-06-10 10:00")), // week 3 (Mon Jun 9)
	}

	buckets := report.WeeklyBuckets(sales, now)
	require.Len(t, buckets, 1)
	assert.Equal(t, "raport_vanzari_saptamana_3_2025-06-09", buckets[0].Filename)
	assert.Contains(t, buckets[0].Caption, "săptămâna 3")
	assert.Equal(t, "Săptămâna: 09.06 - 15.06.2025", buckets[0].Period)
}

func TestWeeklyBuckets_WeekOverlappingPreviousMonth(t *testing.T) {
	// A sale on May 31 falls inside June's first Monday-aligned week
	// (May 26 - Jun 1) and is included in that bucket.
	now := at("2025-06-15 18:00")
	sales := []ledger.Sale{
		sale(1, 1, 2, at("2025-05-31 10:00")),
	}

	buckets := report.WeeklyBuckets(sales, now)
	require.Len(t, buckets, 1)
	assert.Equal(t, "raport_vanzari_saptamana_1_2025-05-26", buckets[0].Filename)
}

func TestMonthlyBuckets_SkipsEmptyMonths(t *testing.T) {
	now := at("2025-06-15 18:00")
	sales := []ledger.Sale{
		sale(1, 1, 2, at("2025-03-10 10:00")),
		sale(2, 1, 5, at("2025-06-01 00:00")),
		sale(3, 1, 9, at("2024-11-30 10:00")), // older than six months
	}

	buckets := report.MonthlyBuckets(sales, now)
	require.Len(t, buckets, 2)
	assert.Equal(t, "raport_vanzari_2025_03", buckets[0].Filename)
	assert.Equal(t, "Luna: martie 2025", buckets[0].Period)
	assert.Equal(t, "raport_vanzari_2025_06", buckets[1].Filename)
	assert.Equal(t, "Raport pentru iunie 2025", buckets[1].Caption)
}

// =============================================================================
// RENDERER TESTS
// =============================================================================

func TestTextRenderer_ResolvesNames(t *testing.T) {
	doc := report.Document{
		Title:  "Raport vânzări",
		Period: "Ziua: 12.06.2025",
		Sales: []ledger.Sale{
			{ID: 1, ProductID: 1, Qty: 2, ClientID: 1, SellerID: "100", CreatedAt: at("2025-06-12 10:00")},
			{ID: 2, ProductID: 99, Qty: 1, CreatedAt: at("2025-06-12 11:00")},
		},
		Products: []ledger.Product{{ID: 1, Name: "Fetească Neagră"}},
		Clients:  []ledger.Client{{ID: 1, NameKey: "ana", NameDisplay: "Ana"}},
		Users:    []ledger.User{{ID: "100", Role: ledger.RoleSeller, Name: "Maria"}},
	}

	r := &report.TextRenderer{Clock: func() time.Time { return at("2025-06-15 09:00") }}
	data, ext, err := r.Render(doc)
	require.NoError(t, err)
	assert.Equal(t, "txt", ext)

	out := string(data)
	assert.Contains(t, out, "Raport vanzari", "diacritics are folded")
	assert.Contains(t, out, "Feteasca Neagra")
	assert.Contains(t, out, "Produs necunoscut", "deleted products still render")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "Maria (100)")
	assert.Contains(t, out, "Total vanzari: 3 bucati")
	assert.Contains(t, out, "Generat la: 15.06.2025 09:00")
}

func TestTextRenderer_EmptyDocument(t *testing.T) {
	r := &report.TextRenderer{Clock: func() time.Time { return at("2025-06-15 09:00") }}
	data, _, err := r.Render(report.Document{Title: "Raport vânzări"})
	require.NoError(t, err)
	assert.Contains(t, string(data), "Nu exista vanzari inregistrate.")
}

func TestNormalizeDiacritics(t *testing.T) {
	assert.Equal(t, "Sapt. Inapoi ati tanar", report.NormalizeDiacritics("Săpt. Înapoi ați tânăr"))
}
