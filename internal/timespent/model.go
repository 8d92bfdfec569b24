// Package timespent accumulates foreground minutes per day, flushes them to the remote store
// by commutative accumulation and merges the local week with the server's.
package timespent

import (
	"sort"
	"time"
)

const (
	dayLayout = "2006-01-02"
	// WeekDays is the length of the chart series.
	WeekDays = 7
	// retainDays bounds the local day map.
	retainDays = 31
)

// Day returns the UTC calendar day of t, e.g. "2025-03-01".
func Day(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// normalizeDay accepts dates with a time part and keeps the date.
func normalizeDay(s string) string {
	if len(s) > len(dayLayout) {
		return s[:len(dayLayout)]
	}
	return s
}

// DayMinutes maps a day to accumulated minutes.
type DayMinutes map[string]int

func (d DayMinutes) Sum() int {
	total := 0
	for _, m := range d {
		total += m
	}
	return total
}

// Days returns the keys in ascending order.
func (d DayMinutes) Days() []string {
	days := make([]string, 0, len(d))
	for day := range d {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

func (d DayMinutes) clone() DayMinutes {
	out := make(DayMinutes, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// DayTotal is one point of the 7-day series.
type DayTotal struct {
	Day     string `db:"day" json:"day"`
	Minutes int    `db:"minutes" json:"minutes"`
}

// WeekEnding returns the WeekDays days ending with today, oldest first.
func WeekEnding(today time.Time) []string {
	days := make([]string, WeekDays)
	for i := 0; i < WeekDays; i++ {
		days[i] = Day(today.AddDate(0, 0, i-(WeekDays-1)))
	}
	return days
}

// MergeWeek builds the series of the week ending today taking, per day, the larger of
// the server's and the local value.
func MergeWeek(server []DayTotal, local DayMinutes, today time.Time) []DayTotal {
	byDay := make(map[string]int, len(server))
	for _, s := range server {
		day := normalizeDay(s.Day)
		if s.Minutes > byDay[day] {
			byDay[day] = s.Minutes
		}
	}

	days := WeekEnding(today)
	week := make([]DayTotal, len(days))
	for i, day := range days {
		minutes := byDay[day]
		if l := local[day]; l > minutes {
			minutes = l
		}
		week[i] = DayTotal{Day: day, Minutes: minutes}
	}
	return week
}
