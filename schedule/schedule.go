package schedule

import (
	"fmt"
	"time"

	"github.com/meenmo/termstruct/instrument"
)

// AddMonths adds months like a spreadsheet EDATE: day-of-month is preserved
// and clamped to the target month's last day, so month-end dates roll to
// month-end instead of spilling into the next month.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if last := daysInMonth(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Dates rolls a periodic payment schedule backward from maturity in steps of
// the given number of months, keeping only dates after asof. The result is
// ascending and always ends at maturity; a short first period is the stub.
func Dates(asof, maturity time.Time, months int) ([]time.Time, error) {
	if months <= 0 {
		return nil, fmt.Errorf("schedule.Dates: period must be positive, got %d months", months)
	}
	if !maturity.After(asof) {
		return nil, fmt.Errorf("schedule.Dates: maturity %s is not after %s",
			maturity.Format("2006-01-02"), asof.Format("2006-01-02"))
	}

	var reversed []time.Time
	for k := 0; ; k++ {
		d := AddMonths(maturity, -k*months)
		if !d.After(asof) {
			break
		}
		reversed = append(reversed, d)
	}

	dates := make([]time.Time, len(reversed))
	for i, d := range reversed {
		dates[len(dates)-1-i] = d
	}
	return dates, nil
}

// Cashflows converts dated amounts into year-fraction cashflows as of asof.
// Every date must be after asof.
func Cashflows(asof time.Time, conv Convention, dates []time.Time, amounts []float64) ([]instrument.Cashflow, error) {
	if len(dates) != len(amounts) {
		return nil, fmt.Errorf("schedule.Cashflows: %d dates vs %d amounts", len(dates), len(amounts))
	}
	out := make([]instrument.Cashflow, len(dates))
	for i, d := range dates {
		if !d.After(asof) {
			return nil, fmt.Errorf("schedule.Cashflows: date %s is not after %s",
				d.Format("2006-01-02"), asof.Format("2006-01-02"))
		}
		out[i] = instrument.Cashflow{
			Amount: amounts[i],
			Time:   conv.YearFraction(asof, d),
		}
	}
	return out, nil
}

// FixedLeg builds the cashflows of a unit-notional fixed-rate bond paying
// annualRate with the given period, accrued under the convention. The first
// period accrues from the schedule date before asof, so a seasoned bond's
// first coupon is a full one.
func FixedLeg(asof, maturity time.Time, annualRate float64, months int, conv Convention) ([]instrument.Cashflow, error) {
	dates, err := Dates(asof, maturity, months)
	if err != nil {
		return nil, fmt.Errorf("schedule.FixedLeg: %w", err)
	}

	out := make([]instrument.Cashflow, len(dates))
	prev := AddMonths(dates[0], -months)
	for i, d := range dates {
		amount := annualRate * conv.YearFraction(prev, d)
		if i == len(dates)-1 {
			amount += 1
		}
		out[i] = instrument.Cashflow{
			Amount: amount,
			Time:   conv.YearFraction(asof, d),
		}
		prev = d
	}
	return out, nil
}
