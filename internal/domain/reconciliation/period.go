package reconciliation

import (
	"errors"
	"time"
)

// Period selects the statistics window for an office
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ParsePeriod converts a query string to a Period. An empty string
// defaults to day.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return PeriodDay, nil
	}
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return Period(s), nil
	}
	return "", errors.New("unknown stats period: " + s)
}

// Since returns the lower window bound relative to now. The zero time
// means unbounded (PeriodAll).
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodDay:
		return now.AddDate(0, 0, -1)
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, 0, -30)
	case PeriodYear:
		return now.AddDate(0, 0, -365)
	}
	return time.Time{}
}
