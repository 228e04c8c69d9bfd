package domain

import "time"

// WeekendKeyLayout is the layout of Weekend.Formatted and every stored
// weekend key.
const WeekendKeyLayout = "2006-01-02"

// Weekend is a Saturday/Sunday pair, the unit of availability voting.
// Formatted is the Saturday as "2006-01-02" and is the only key other data
// uses to refer to a weekend, even when the Saturday falls in another month.
type Weekend struct {
	Saturday  time.Time
	Sunday    time.Time
	Formatted string
}

func newWeekend(saturday time.Time) Weekend {
	return Weekend{
		Saturday:  saturday,
		Sunday:    saturday.AddDate(0, 0, 1),
		Formatted: saturday.Format(WeekendKeyLayout),
	}
}

// DeriveWeekends returns the weekends of the given calendar month in
// ascending Saturday order.
//
// A Saturday on the last day of the month still yields a weekend whose
// Sunday is the 1st of the next month. A month starting on a Sunday gets a
// leading weekend whose Saturday is the last day of the previous month.
// Each call is month-scoped; neighbouring months are not deduplicated.
// All dates are midnight UTC.
func DeriveWeekends(year int, month time.Month) []Weekend {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	weekends := make([]Weekend, 0, 6)
	if first.Weekday() == time.Sunday {
		weekends = append(weekends, newWeekend(first.AddDate(0, 0, -1)))
	}

	var open *time.Time
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		switch day.Weekday() {
		case time.Saturday:
			sat := day
			open = &sat
		case time.Sunday:
			// A Sunday with nothing open belongs to last month's Saturday,
			// which the leading weekend above already covers.
			if open != nil {
				weekends = append(weekends, Weekend{
					Saturday:  *open,
					Sunday:    day,
					Formatted: open.Format(WeekendKeyLayout),
				})
				open = nil
			}
		}
	}
	if open != nil {
		weekends = append(weekends, newWeekend(*open))
	}
	return weekends
}

// ParseWeekendKey parses a "2006-01-02" key into a midnight UTC date.
func ParseWeekendKey(key string) (time.Time, error) {
	return time.Parse(WeekendKeyLayout, key)
}
