package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/tend/pkg/clock"
	"github.com/harrisonrobin/tend/pkg/model"
	"github.com/harrisonrobin/tend/pkg/review"
	"github.com/harrisonrobin/tend/pkg/temporal"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Walk through a triage of incomplete and overdue tasks",
	RunE:  runReview,
}

func runReview(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore()
	if err != nil {
		return err
	}
	hist, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer hist.Close()

	tasks, err := st.FetchAll()
	if err != nil {
		return err
	}

	clk := clock.System{}
	session := review.NewSession(tasks, st, hist, clk)
	in := bufio.NewReader(os.Stdin)

	// Celebrate: completed work since the last review.
	last, ok, err := hist.LastReviewed()
	if err != nil {
		return err
	}
	celebrated := 0
	for _, t := range tasks {
		if t.Completed && t.CompletedAt != nil && (!ok || t.CompletedAt.After(last)) {
			celebrated++
		}
	}
	if celebrated > 0 {
		fmt.Printf("Nice work! %d task(s) completed since your last review.\n\n", celebrated)
	} else {
		fmt.Print("Time for a review.\n\n")
	}
	// Skip actions advance the step on their own, so position each
	// stage explicitly instead of stepping relatively.
	session.GoToStep(review.StepIncomplete)
	if err := triageStep(session, in); err != nil {
		return err
	}
	session.GoToStep(review.StepOverdue)
	if err := triageStep(session, in); err != nil {
		return err
	}
	session.GoToStep(review.StepUpcoming)

	if upcoming := session.UpcomingTasks(); len(upcoming) > 0 {
		fmt.Println("Coming up:")
		now := clk.Now()
		for _, t := range upcoming {
			fmt.Printf("  %-12s %s\n", temporal.Classify(t, now).Label, t.Title)
		}
		fmt.Println()
	}

	if err := session.CompleteReview(); err != nil {
		return err
	}

	tally := session.Tally()
	fmt.Printf("Review complete: %d deleted, %d rescheduled, %d kept.\n",
		tally.Deleted, tally.Rescheduled, tally.Kept)

	streak, err := hist.Streak(clk.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Review streak: %d day(s).\n", streak)
	return nil
}

// triageStep runs the per-task prompt loop for the incomplete or
// overdue step. A "skip" answer bulk-resolves the rest of the step.
func triageStep(session *review.Session, in *bufio.Reader) error {
	step := session.Step()

	var remaining func() []model.Task
	var skip func()
	switch step {
	case review.StepIncomplete:
		remaining = session.IncompleteTasks
		skip = session.SkipIncomplete
		if len(remaining()) > 0 {
			fmt.Printf("%d task(s) without a date:\n", len(remaining()))
		}
	case review.StepOverdue:
		remaining = session.OverdueTasks
		skip = session.SkipOverdue
		if len(remaining()) > 0 {
			fmt.Printf("%d overdue task(s):\n", len(remaining()))
		}
	default:
		return fmt.Errorf("triage not applicable in step %s", step)
	}

	for len(remaining()) > 0 {
		t := remaining()[0]
		fmt.Printf("  %s — [d]elete [w] next week [t]omorrow [k]eep [s]kip rest: ", t.Title)

		line, err := in.ReadString('\n')
		if err != nil {
			// Treat EOF as skipping the rest of the step.
			skip()
			return nil
		}

		var d review.Disposition
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "d":
			d = review.Delete
		case "w":
			d = review.MoveToNextWeek
		case "t":
			d = review.RescheduleToTomorrow
		case "k", "":
			d = review.Keep
		case "s":
			skip()
			return nil
		default:
			fmt.Println("  (d, w, t, k, or s)")
			continue
		}

		if err := session.Apply(t.ID, d); err != nil {
			return err
		}
	}
	return nil
}
