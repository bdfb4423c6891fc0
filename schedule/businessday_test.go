package schedule_test

import (
	"testing"
	"time"

	"github.com/meenmo/termstruct/schedule"
)

func TestAdjustModifiedFollowing(t *testing.T) {
	t.Parallel()

	var weekendOnly schedule.Holidays

	// 2024-08-31 is a Saturday; Following would land on Monday 2024-09-02,
	// Modified Following stays in August.
	if got, want := weekendOnly.Adjust(date(2024, time.August, 31)), date(2024, time.August, 30); !got.Equal(want) {
		t.Errorf("Adjust(month-end Saturday): got %v want %v", got, want)
	}
	if got, want := weekendOnly.AdjustFollowing(date(2024, time.August, 31)), date(2024, time.September, 2); !got.Equal(want) {
		t.Errorf("AdjustFollowing(month-end Saturday): got %v want %v", got, want)
	}
	// Mid-month Saturday rolls forward.
	if got, want := weekendOnly.Adjust(date(2024, time.August, 10)), date(2024, time.August, 12); !got.Equal(want) {
		t.Errorf("Adjust(mid-month Saturday): got %v want %v", got, want)
	}
	// Business days pass through.
	if got, want := weekendOnly.Adjust(date(2024, time.August, 14)), date(2024, time.August, 14); !got.Equal(want) {
		t.Errorf("Adjust(Wednesday): got %v want %v", got, want)
	}
}

func TestHolidaySetBlocksDay(t *testing.T) {
	t.Parallel()

	h := schedule.NewHolidays(date(2024, time.August, 15))
	if h.IsBusinessDay(date(2024, time.August, 15)) {
		t.Error("holiday reported as business day")
	}
	// Thursday holiday rolls to Friday.
	if got, want := h.Adjust(date(2024, time.August, 15)), date(2024, time.August, 16); !got.Equal(want) {
		t.Errorf("Adjust(holiday): got %v want %v", got, want)
	}
}

func TestAddBusinessDays(t *testing.T) {
	t.Parallel()

	var weekendOnly schedule.Holidays
	// Friday + 2 business days skips the weekend.
	if got, want := weekendOnly.AddBusinessDays(date(2024, time.August, 9), 2), date(2024, time.August, 13); !got.Equal(want) {
		t.Errorf("+2 from Friday: got %v want %v", got, want)
	}
	if got, want := weekendOnly.AddBusinessDays(date(2024, time.August, 12), -1), date(2024, time.August, 9); !got.Equal(want) {
		t.Errorf("-1 from Monday: got %v want %v", got, want)
	}
}

func TestAdjustedDates(t *testing.T) {
	t.Parallel()

	var weekendOnly schedule.Holidays
	// 2024-08-31 maturity is a Saturday, adjusted back to Friday the 30th;
	// the 6-month prior date 2024-02-29 is a business day and unchanged.
	got, err := schedule.AdjustedDates(date(2024, time.January, 15), date(2024, time.August, 31), 6, weekendOnly)
	if err != nil {
		t.Fatalf("AdjustedDates: %v", err)
	}
	want := []time.Time{date(2024, time.February, 29), date(2024, time.August, 30)}
	if len(got) != len(want) {
		t.Fatalf("AdjustedDates: got %v want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("AdjustedDates[%d]: got %v want %v", i, got[i], want[i])
		}
	}
}
