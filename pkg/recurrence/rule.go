package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/harrisonrobin/tend/pkg/clock"
)

// ErrInvalidRule is wrapped by every validation failure so callers can
// test with errors.Is regardless of the specific complaint.
var ErrInvalidRule = errors.New("invalid recurrence rule")

// Unit selects which repetition scheme a rule follows. The calendar
// units (day/week/month) are evaluated against calendar days; the
// after-completion unit is driven purely by when the task was finished
// and has no calendar meaning.
type Unit string

const (
	Daily           Unit = "day"
	Weekly          Unit = "week"
	Monthly         Unit = "month"
	AfterCompletion Unit = "after_completion"
)

// Rule describes when a recurring task repeats.
//
// Interval means "every N units" and applies to all units. DaysOfWeek is
// only meaningful for Weekly rules (Monday=1 .. Sunday=7). Monthly rules
// use exactly one of DayOfMonth (absolute, clamped to short months) or
// Weekday+WeekdayOrdinal (relative, e.g. first Monday; negative ordinal
// counts from the end of the month).
type Rule struct {
	Unit           Unit  `yaml:"unit" json:"unit"`
	Interval       int   `yaml:"interval" json:"interval"`
	DaysOfWeek     []int `yaml:"days_of_week,omitempty" json:"days_of_week,omitempty"`
	DayOfMonth     int   `yaml:"day_of_month,omitempty" json:"day_of_month,omitempty"`
	Weekday        int   `yaml:"weekday,omitempty" json:"weekday,omitempty"`
	WeekdayOrdinal int   `yaml:"weekday_ordinal,omitempty" json:"weekday_ordinal,omitempty"`
}

// NewDaily returns a rule repeating every interval days.
func NewDaily(interval int) (*Rule, error) {
	r := &Rule{Unit: Daily, Interval: interval}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewWeekly returns a rule repeating every interval weeks. With no days
// given the rule fires on the anchor's weekday; otherwise on each listed
// weekday (Monday=1 .. Sunday=7) within matching weeks.
func NewWeekly(interval int, daysOfWeek ...int) (*Rule, error) {
	r := &Rule{Unit: Weekly, Interval: interval, DaysOfWeek: daysOfWeek}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewMonthlyAbsolute returns a rule firing on a fixed day of the month,
// clamped to the last day of shorter months.
func NewMonthlyAbsolute(interval, dayOfMonth int) (*Rule, error) {
	r := &Rule{Unit: Monthly, Interval: interval, DayOfMonth: dayOfMonth}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewMonthlyRelative returns a rule firing on the ordinal-th weekday of
// the month. ordinal -1 means the last such weekday.
func NewMonthlyRelative(interval, weekday, ordinal int) (*Rule, error) {
	r := &Rule{Unit: Monthly, Interval: interval, Weekday: weekday, WeekdayOrdinal: ordinal}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewAfterCompletion returns a rule firing interval days after the task
// was last completed.
func NewAfterCompletion(interval int) (*Rule, error) {
	r := &Rule{Unit: AfterCompletion, Interval: interval}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the rule's internal consistency. Malformed rules are
// rejected here, at construction or load time, never coerced later.
func (r *Rule) Validate() error {
	if r.Interval < 1 {
		return fmt.Errorf("%w: interval %d, must be >= 1", ErrInvalidRule, r.Interval)
	}
	switch r.Unit {
	case Daily, AfterCompletion:
		// Interval is the whole story.
	case Weekly:
		for _, d := range r.DaysOfWeek {
			if d < 1 || d > 7 {
				return fmt.Errorf("%w: weekday %d outside 1..7", ErrInvalidRule, d)
			}
		}
	case Monthly:
		absolute := r.DayOfMonth != 0
		relative := r.Weekday != 0 || r.WeekdayOrdinal != 0
		if absolute == relative {
			return fmt.Errorf("%w: monthly rule needs exactly one of day-of-month or weekday+ordinal", ErrInvalidRule)
		}
		if absolute && (r.DayOfMonth < 1 || r.DayOfMonth > 31) {
			return fmt.Errorf("%w: day of month %d outside 1..31", ErrInvalidRule, r.DayOfMonth)
		}
		if relative {
			if r.Weekday < 1 || r.Weekday > 7 {
				return fmt.Errorf("%w: weekday %d outside 1..7", ErrInvalidRule, r.Weekday)
			}
			if r.WeekdayOrdinal == 0 || r.WeekdayOrdinal < -5 || r.WeekdayOrdinal > 5 {
				return fmt.Errorf("%w: weekday ordinal %d outside -5..5 and nonzero", ErrInvalidRule, r.WeekdayOrdinal)
			}
		}
	default:
		return fmt.Errorf("%w: unknown unit %q", ErrInvalidRule, r.Unit)
	}
	return nil
}

// OccursOn reports whether the rule fires on date's calendar day, with
// the repetition phase anchored at anchor. Dates before the anchor never
// match. AfterCompletion rules have no calendar meaning and always
// return false; use NextOccurrence with the completion time instead.
func (r *Rule) OccursOn(date, anchor time.Time) bool {
	switch r.Unit {
	case Daily:
		days := clock.DaysBetween(anchor, date)
		return days >= 0 && days%r.Interval == 0
	case Weekly:
		weeks := clock.DaysBetween(clock.WeekStart(anchor), clock.WeekStart(date)) / 7
		if weeks < 0 || weeks%r.Interval != 0 {
			return false
		}
		wd := clock.WeekdayNumber(date)
		if len(r.DaysOfWeek) == 0 {
			return wd == clock.WeekdayNumber(anchor)
		}
		for _, d := range r.DaysOfWeek {
			if d == wd {
				return true
			}
		}
		return false
	case Monthly:
		months := monthsBetween(anchor, date)
		if months < 0 || months%r.Interval != 0 {
			return false
		}
		if r.DayOfMonth != 0 {
			want := r.DayOfMonth
			if last := lastDayOfMonth(date); want > last {
				want = last
			}
			return date.Day() == want
		}
		return matchesNthWeekday(date, r.Weekday, r.WeekdayOrdinal)
	default:
		return false
	}
}

// nextOccurrenceHorizonDays bounds the forward scan for calendar rules.
// Five years comfortably covers any valid monthly interval.
const nextOccurrenceHorizonDays = 366 * 5

// NextOccurrence returns the first occurrence strictly after the given
// reference time, preserving the reference's time of day. For
// AfterCompletion rules the reference is the completion time and the
// result is exactly interval days later; anchor is ignored. For calendar
// rules the result is the next matching calendar day after the
// reference, with the repetition phase anchored at anchor. Returns the
// zero time if no occurrence exists within the scan horizon, which only
// happens for rules that never fire again (not constructible through
// Validate).
func (r *Rule) NextOccurrence(after, anchor time.Time) time.Time {
	if r.Unit == AfterCompletion {
		return after.AddDate(0, 0, r.Interval)
	}
	day := clock.StartOfDay(after)
	for i := 1; i <= nextOccurrenceHorizonDays; i++ {
		candidate := day.AddDate(0, 0, i)
		if r.OccursOn(candidate, anchor) {
			return time.Date(candidate.Year(), candidate.Month(), candidate.Day(),
				after.Hour(), after.Minute(), after.Second(), 0, after.Location())
		}
	}
	return time.Time{}
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func lastDayOfMonth(t time.Time) int {
	// Day zero of the following month.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// matchesNthWeekday reports whether date is the ordinal-th occurrence of
// weekday in its month. Negative ordinals count from the end.
func matchesNthWeekday(date time.Time, weekday, ordinal int) bool {
	if clock.WeekdayNumber(date) != weekday {
		return false
	}
	if ordinal > 0 {
		return (date.Day()-1)/7+1 == ordinal
	}
	fromEnd := (lastDayOfMonth(date)-date.Day())/7 + 1
	return ordinal == -fromEnd
}
