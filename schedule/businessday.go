package schedule

import "time"

// Holidays is a set of non-business dates keyed by "2006-01-02". A nil set
// means weekends are the only non-business days.
type Holidays map[string]struct{}

// NewHolidays builds a set from a list of dates.
func NewHolidays(dates ...time.Time) Holidays {
	h := make(Holidays, len(dates))
	for _, d := range dates {
		h[d.Format("2006-01-02")] = struct{}{}
	}
	return h
}

// IsBusinessDay checks weekends and the holiday set.
func (h Holidays) IsBusinessDay(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	_, holiday := h[t.Format("2006-01-02")]
	return !holiday
}

// Adjust applies Modified Following: roll forward to a business day, but
// fall back to the previous one rather than cross into the next month.
func (h Holidays) Adjust(t time.Time) time.Time {
	origMonth := t.Month()
	for !h.IsBusinessDay(t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !h.IsBusinessDay(t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// AdjustFollowing rolls forward to the next business day with no month
// preservation.
func (h Holidays) AdjustFollowing(t time.Time) time.Time {
	for !h.IsBusinessDay(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AddBusinessDays advances n business days; n can be negative.
func (h Holidays) AddBusinessDays(t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if h.IsBusinessDay(t) {
			n -= step
		}
	}
	return t
}

// AdjustedDates is Dates with every payment rolled to a business day under
// Modified Following. Duplicate dates after adjustment are kept; quoting
// conventions that cannot tolerate that should widen the period instead.
func AdjustedDates(asof, maturity time.Time, months int, h Holidays) ([]time.Time, error) {
	dates, err := Dates(asof, maturity, months)
	if err != nil {
		return nil, err
	}
	for i, d := range dates {
		dates[i] = h.Adjust(d)
	}
	return dates, nil
}
