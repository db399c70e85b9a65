// Package rank orders tasks by urgency for display.
package rank

import (
	"sort"

	"github.com/harrisonrobin/tend/pkg/model"
)

// Rank returns the tasks in descending urgency: score first, then
// explicit priority tier, then earliest effective date, and finally the
// original input order (the sort is stable, so full ties keep their
// relative positions). The input slice is not modified. Completed tasks
// are ranked like any other; filtering is the caller's job.
func Rank(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	return out
}

func less(a, b *model.Task) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if at, bt := a.Priority.Tier(), b.Priority.Tier(); at != bt {
		return at > bt
	}
	ad, bd := a.EffectiveDate(), b.EffectiveDate()
	switch {
	case ad == nil || bd == nil:
		// A dated task outranks an undated one; two undated tasks tie.
		return ad != nil && bd == nil
	default:
		return ad.Before(*bd)
	}
}
