package core

import (
	"fmt"
	"time"
)

// Granularity 時間分桶粒度（封閉列舉，不接受任意表達式）
type Granularity string

const (
	GranularityNone   Granularity = ""
	GranularityMinute Granularity = "minute"
	GranularityHour   Granularity = "hour"
	GranularityDay    Granularity = "day"
	GranularityWeek   Granularity = "week"
	GranularityMonth  Granularity = "month"
)

// GroupField 事件可分組的欄位
type GroupField string

const (
	GroupByProvider    GroupField = "provider"
	GroupByFeature     GroupField = "feature"
	GroupByEndpoint    GroupField = "endpoint"
	GroupByFingerprint GroupField = "requestFingerprint"
)

// EventMatch 事件篩選條件；時間區間為 [From, To)，零值代表不設限
type EventMatch struct {
	From     time.Time
	To       time.Time
	Provider string
	Feature  string
	Status   EventStatus
}

func (m EventMatch) Contains(ts time.Time) bool {
	if !m.From.IsZero() && ts.Before(m.From) {
		return false
	}
	if !m.To.IsZero() && !ts.Before(m.To) {
		return false
	}
	return true
}

// GroupQuery 分組彙總查詢
type GroupQuery struct {
	Match  EventMatch
	By     []GroupField
	Bucket Granularity
}

func (q GroupQuery) Has(field GroupField) bool {
	for _, f := range q.By {
		if f == field {
			return true
		}
	}
	return false
}

// GroupKey 只有在 GroupQuery.By / Bucket 有指定的欄位才會有值
type GroupKey struct {
	Provider           string
	Feature            string
	Endpoint           string
	RequestFingerprint string
	Bucket             time.Time
}

// GroupRow 一組彙總結果。Requests 為 requestCount 加總，Documents 為事件筆數
type GroupRow struct {
	Key               GroupKey
	Documents         int64
	Requests          int64
	SuccessRequests   int64
	FailedRequests    int64
	Cost              float64
	AvgResponseTimeMs float64
}

// AlertLookup 去重用：找同型別、同 provider 的未解決告警
type AlertLookup struct {
	Type         AlertType
	Provider     string
	CreatedSince time.Time
	// 非空時比對 metadata.period
	Period string
}

// AlertQuery 告警列表篩選
type AlertQuery struct {
	IsRead     *bool
	IsResolved *bool
	Type       AlertType
	Severity   AlertSeverity
	Limit      int64
}

// BudgetQuery 預算列表篩選
type BudgetQuery struct {
	Provider string
	Period   string
	Active   *bool
}

// NormalizeTime 所有寫入的時間統一為 UTC、毫秒精度（與 Mongo date 精度一致）
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// InclusiveEnd 把閉區間的結束時間轉成 EventMatch 的開區間上界
func InclusiveEnd(end time.Time) time.Time {
	if end.IsZero() {
		return end
	}
	return NormalizeTime(end).Add(time.Millisecond)
}

// MonthStart 當月 1 號 00:00
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// PeriodOf 預算週期字串 YYYY-MM
func PeriodOf(t time.Time) string {
	return t.Format("2006-01")
}

// WeekOfYear 與 strftime %U / Mongo $week 相同：週日為一週開始，第一個週日之前為第 0 週
func WeekOfYear(t time.Time) int {
	return (t.YearDay() + 6 - int(t.Weekday())) / 7
}

// TruncateBucket 依粒度取分桶起點；週不跨年，第 0 週從 1/1 開始
func TruncateBucket(t time.Time, g Granularity) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case GranularityMinute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
	case GranularityHour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc)
	case GranularityDay:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case GranularityWeek:
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		start := day.AddDate(0, 0, -int(day.Weekday()))
		if start.Year() != y {
			return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		}
		return start
	case GranularityMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	default:
		return time.Time{}
	}
}

// WeekStart 由年份與 %U 週數還原該週起點（UTC）
func WeekStart(year, week int) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if week <= 0 {
		return jan1
	}
	firstSunday := jan1.AddDate(0, 0, (7-int(jan1.Weekday()))%7)
	return firstSunday.AddDate(0, 0, (week-1)*7)
}

// BucketLabel 趨勢圖使用的分桶字串
func BucketLabel(t time.Time, g Granularity) string {
	switch g {
	case GranularityMinute:
		return t.Format("2006-01-02 15:04")
	case GranularityHour:
		return t.Format("2006-01-02 15:00")
	case GranularityWeek:
		return fmt.Sprintf("%d-W%02d", t.Year(), WeekOfYear(t))
	case GranularityMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
