package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekOfYear(t *testing.T) {
	// 2023-01-01 是週日，因此當天即第 1 週
	assert.Equal(t, 1, WeekOfYear(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, WeekOfYear(time.Date(2023, 1, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, WeekOfYear(time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC)))
	// 2024-01-01 是週一，第一個週日（1/7）之前為第 0 週
	assert.Equal(t, 0, WeekOfYear(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, WeekOfYear(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, WeekOfYear(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 52, WeekOfYear(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestTruncateBucket(t *testing.T) {
	ts := time.Date(2024, 3, 14, 15, 9, 26, 535000000, time.UTC)

	cases := []struct {
		name string
		g    Granularity
		want time.Time
	}{
		{"minute", GranularityMinute, time.Date(2024, 3, 14, 15, 9, 0, 0, time.UTC)},
		{"hour", GranularityHour, time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)},
		{"day", GranularityDay, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"week", GranularityWeek, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"month", GranularityMonth, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"none", GranularityNone, time.Time{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TruncateBucket(ts, tc.g))
		})
	}
}

func TestTruncateBucket_WeekDoesNotCrossNewYear(t *testing.T) {
	// 2024-01-03 (週三) 的週日在 2023 年，分桶應停在 1/1
	got := TruncateBucket(time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC), GranularityWeek)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestWeekStartMatchesTruncate(t *testing.T) {
	for d := time.Date(2023, 12, 20, 12, 0, 0, 0, time.UTC); d.Before(time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)); d = d.AddDate(0, 0, 1) {
		assert.Equal(t, TruncateBucket(d, GranularityWeek), WeekStart(d.Year(), WeekOfYear(d)), d.Format("2006-01-02"))
	}
}

func TestEventMatchContains(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)
	m := EventMatch{From: from, To: to}

	assert.True(t, m.Contains(from))
	assert.True(t, m.Contains(to.Add(-time.Millisecond)))
	assert.False(t, m.Contains(to))
	assert.False(t, m.Contains(from.Add(-time.Millisecond)))
	assert.True(t, EventMatch{}.Contains(from))
}

func TestInclusiveEndAndPeriod(t *testing.T) {
	end := time.Date(2024, 2, 29, 23, 59, 59, 999_400_000, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), InclusiveEnd(end))
	assert.True(t, InclusiveEnd(time.Time{}).IsZero())
	assert.Equal(t, "2024-02", PeriodOf(end))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), MonthStart(end))
}

func TestBucketLabel(t *testing.T) {
	ts := time.Date(2024, 1, 7, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-07 13:00", BucketLabel(ts, GranularityHour))
	assert.Equal(t, "2024-01-07", BucketLabel(ts, GranularityDay))
	assert.Equal(t, "2024-W01", BucketLabel(ts, GranularityWeek))
	assert.Equal(t, "2024-01", BucketLabel(ts, GranularityMonth))
}

func TestPageSkip(t *testing.T) {
	assert.Equal(t, int64(0), Page{Page: 1, Size: 50}.Skip())
	assert.Equal(t, int64(100), Page{Page: 3, Size: 50}.Skip())
	assert.Equal(t, int64(0), Page{Page: 0, Size: 50}.Skip())
}
