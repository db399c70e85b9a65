package temporal

import (
	"fmt"
	"time"

	"github.com/harrisonrobin/tend/pkg/clock"
	"github.com/harrisonrobin/tend/pkg/model"
)

// Urgency is the discrete state assigned to a task relative to "now".
type Urgency int

const (
	Overdue Urgency = iota
	DueNow
	DueSoon
	DueTonight
	DueAt
	Tomorrow
	InDays
	ThisWeek
	Flexible
)

func (u Urgency) String() string {
	switch u {
	case Overdue:
		return "overdue"
	case DueNow:
		return "due-now"
	case DueSoon:
		return "due-soon"
	case DueTonight:
		return "due-tonight"
	case DueAt:
		return "due-at"
	case Tomorrow:
		return "tomorrow"
	case InDays:
		return "in-days"
	case ThisWeek:
		return "this-week"
	default:
		return "flexible"
	}
}

// Classification pairs the discrete urgency with its display label.
type Classification struct {
	Urgency Urgency
	Label   string
}

// Classify assigns an urgency to the task relative to now. The scheduled
// time always wins over the due date when both exist. All "today" and
// "tomorrow" tests are calendar-day comparisons, never 24-hour deltas.
// A due date earlier today is not overdue; only a past scheduled slot or
// a due date on a previous calendar day is.
func Classify(t model.Task, now time.Time) Classification {
	if t.ScheduledTime != nil {
		s := *t.ScheduledTime
		if s.Before(now) {
			return Classification{Overdue, "Overdue"}
		}
		if clock.SameDay(s, now) {
			hours := int(s.Sub(now).Hours())
			switch {
			case hours == 0:
				return Classification{DueNow, "Due now"}
			case hours <= 2:
				return Classification{DueSoon, "Due soon"}
			case hours >= 18:
				return Classification{DueTonight, "Due tonight"}
			default:
				return Classification{DueAt, "Due at " + s.Format(time.Kitchen)}
			}
		}
		if clock.IsTomorrow(s, now) {
			return Classification{Tomorrow, "Tomorrow"}
		}
	}
	if t.DueDate != nil {
		d := *t.DueDate
		if d.Before(now) && !clock.SameDay(d, now) && clock.DaysBetween(d, now) > 0 {
			return Classification{Overdue, "Overdue"}
		}
		if clock.SameDay(d, now) {
			return Classification{DueTonight, "Due tonight"}
		}
		if clock.IsTomorrow(d, now) {
			return Classification{Tomorrow, "Tomorrow"}
		}
		switch days := clock.DaysBetween(now, d); {
		case days == 1:
			return Classification{Tomorrow, "Tomorrow"}
		case days >= 2 && days <= 3:
			return Classification{InDays, fmt.Sprintf("In %d days", days)}
		case days >= 4 && days <= 7:
			return Classification{ThisWeek, "This week"}
		}
	}
	return Classification{Flexible, "Flexible"}
}

// ShortIndicator returns the compact badge variant of Classify: Overdue
// for any past slot or due day, "In Nm"/"In Nh" for a scheduled slot
// inside the next 30 minutes / 2 hours, or Today when due today. The
// second return is false when the task earns no badge, which is a valid
// outcome rather than an error.
func ShortIndicator(t model.Task, now time.Time) (string, bool) {
	if t.ScheduledTime != nil && t.ScheduledTime.Before(now) {
		return "Overdue", true
	}
	if t.DueDate != nil && t.DueDate.Before(now) && !clock.SameDay(*t.DueDate, now) {
		return "Overdue", true
	}
	if t.ScheduledTime != nil {
		until := t.ScheduledTime.Sub(now)
		if until <= 30*time.Minute {
			return fmt.Sprintf("In %dm", int(until.Minutes())), true
		}
		if until <= 2*time.Hour {
			return fmt.Sprintf("In %dh", int(until.Hours())), true
		}
	}
	if t.DueDate != nil && clock.SameDay(*t.DueDate, now) {
		return "Today", true
	}
	return "", false
}
