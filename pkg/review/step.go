package review

// Step is one stage of the guided review. The sequence is linear:
// celebrate, incomplete, overdue, upcoming, summary.
type Step int

const (
	StepCelebrate Step = iota
	StepIncomplete
	StepOverdue
	StepUpcoming
	StepSummary
)

func (s Step) String() string {
	switch s {
	case StepCelebrate:
		return "celebrate"
	case StepIncomplete:
		return "incomplete"
	case StepOverdue:
		return "overdue"
	case StepUpcoming:
		return "upcoming"
	case StepSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// Next returns the following step; summary is terminal.
func (s Step) Next() Step {
	if s >= StepSummary {
		return StepSummary
	}
	return s + 1
}

// Previous returns the preceding step; celebrate is initial.
func (s Step) Previous() Step {
	if s <= StepCelebrate {
		return StepCelebrate
	}
	return s - 1
}
