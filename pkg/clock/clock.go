package clock

import "time"

// Clock supplies "now" plus the calendar comparisons the engine needs.
// Everything downstream takes a Clock instead of calling time.Now so the
// temporal logic is testable against a pinned instant.
type Clock interface {
	Now() time.Time
	StartOfDay(t time.Time) time.Time
	IsSameDay(a, b time.Time) bool
	IsTomorrow(t, relativeTo time.Time) bool
	WeekdayNumber(t time.Time) int
}

// System reads the ambient wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }
func (System) StartOfDay(t time.Time) time.Time { return StartOfDay(t) }
func (System) IsSameDay(a, b time.Time) bool { return SameDay(a, b) }
func (System) IsTomorrow(t, rel time.Time) bool { return IsTomorrow(t, rel) }
func (System) WeekdayNumber(t time.Time) int { return WeekdayNumber(t) }

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time { return f.Instant }
func (f Fixed) StartOfDay(t time.Time) time.Time { return StartOfDay(t) }
func (f Fixed) IsSameDay(a, b time.Time) bool { return SameDay(a, b) }
func (f Fixed) IsTomorrow(t, rel time.Time) bool { return IsTomorrow(t, rel) }
func (f Fixed) WeekdayNumber(t time.Time) int { return WeekdayNumber(t) }

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
// Calendar-day equality, not a 24-hour delta, so comparisons behave
// correctly across midnight.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsTomorrow reports whether t falls on the calendar day after rel.
func IsTomorrow(t, rel time.Time) bool {
	return SameDay(t, StartOfDay(rel).AddDate(0, 0, 1))
}

// WeekdayNumber maps t's weekday to ISO numbering: Monday=1 .. Sunday=7.
func WeekdayNumber(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// WeekStart returns midnight of the Monday beginning t's week.
func WeekStart(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -(WeekdayNumber(t) - 1))
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b's day precedes a's. The dates are compared in UTC at
// midnight so DST transitions never produce off-by-one results.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
