// Package schedule turns dated market data into the year-fraction cashflows
// the calibration packages consume: day-count conventions, EDATE-style month
// arithmetic, and periodic coupon schedules rolled backward from maturity.
package schedule

import (
	"fmt"
	"time"
)

// Convention is a day-count convention for converting date pairs to year
// fractions.
type Convention string

const (
	ACT360     Convention = "ACT/360"
	ACT365F    Convention = "ACT/365F"
	Thirty360  Convention = "30/360"   // US bond basis
	ThirtyE360 Convention = "30E/360"  // Eurobond basis
)

// ParseConvention validates a convention string, e.g. from a CLI flag.
func ParseConvention(s string) (Convention, error) {
	switch c := Convention(s); c {
	case ACT360, ACT365F, Thirty360, ThirtyE360:
		return c, nil
	default:
		return "", fmt.Errorf("schedule.ParseConvention: unknown day-count convention %q", s)
	}
}

// YearFraction computes the year fraction from start to end. Dates are
// compared calendar-day by calendar-day; intraday components are ignored.
func (c Convention) YearFraction(start, end time.Time) float64 {
	switch c {
	case ACT360:
		return daysBetween(start, end) / 360
	case ACT365F:
		return daysBetween(start, end) / 365
	case Thirty360:
		d1 := start.Day()
		d2 := end.Day()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2)
	case ThirtyE360:
		d1 := start.Day()
		if d1 > 30 {
			d1 = 30
		}
		d2 := end.Day()
		if d2 > 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2)
	default:
		return daysBetween(start, end) / 365
	}
}

func daysBetween(start, end time.Time) float64 {
	return float64(midnight(end).Sub(midnight(start)) / (24 * time.Hour))
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func thirty360(start, end time.Time, d1, d2 int) float64 {
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360
}
