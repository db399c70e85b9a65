package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/tend/pkg/model"
	"github.com/harrisonrobin/tend/pkg/recurrence"
)

var (
	addDue      string
	addAt       string
	addProject  string
	addPriority string
	addScore    float64
	addTags     []string

	addEvery   int
	addUnit    string
	addOn      string
	addDay     int
	addWeekday int
	addOrdinal int
)

var addCmd = &cobra.Command{
	Use:   "add <title>...",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	addCmd.Flags().StringVar(&addAt, "at", "", "Scheduled time slot (YYYY-MM-DD HH:MM)")
	addCmd.Flags().StringVarP(&addProject, "project", "p", "", "Project name")
	addCmd.Flags().StringVar(&addPriority, "priority", "", "Priority tier: none, medium, or high")
	addCmd.Flags().Float64Var(&addScore, "score", 0, "Priority score (higher ranks first)")
	addCmd.Flags().StringSliceVarP(&addTags, "tag", "t", nil, "Tags (repeatable)")

	addCmd.Flags().IntVar(&addEvery, "every", 0, "Recurrence interval (every N units)")
	addCmd.Flags().StringVar(&addUnit, "unit", "day", "Recurrence unit: day, week, month, or after (after completion)")
	addCmd.Flags().StringVar(&addOn, "on", "", "Weekdays for weekly rules, Monday=1..Sunday=7 (e.g. 1,3,5)")
	addCmd.Flags().IntVar(&addDay, "day", 0, "Day of month for monthly rules")
	addCmd.Flags().IntVar(&addWeekday, "weekday", 0, "Weekday for relative monthly rules, Monday=1..Sunday=7")
	addCmd.Flags().IntVar(&addOrdinal, "ordinal", 0, "Ordinal for relative monthly rules (1=first, -1=last)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}

	task := model.Task{
		Title:   strings.Join(args, " "),
		Project: addProject,
		Tags:    addTags,
		Score:   addScore,
	}

	if task.Priority, err = model.ParsePriority(addPriority); err != nil {
		return err
	}
	if addDue != "" {
		due, err := parseWhen(addDue)
		if err != nil {
			return err
		}
		task.DueDate = &due
	}
	if addAt != "" {
		at, err := parseWhen(addAt)
		if err != nil {
			return err
		}
		task.ScheduledTime = &at
	}
	if addEvery > 0 {
		rule, err := buildRule()
		if err != nil {
			return err
		}
		task.Recurrence = rule
	}

	created, err := st.Create(task)
	if err != nil {
		return err
	}
	fmt.Printf("Added %s: %s\n", shortID(created.ID), created.Title)
	return nil
}

func buildRule() (*recurrence.Rule, error) {
	switch addUnit {
	case "day":
		return recurrence.NewDaily(addEvery)
	case "week":
		days, err := parseWeekdays(addOn)
		if err != nil {
			return nil, err
		}
		return recurrence.NewWeekly(addEvery, days...)
	case "month":
		if addDay != 0 {
			return recurrence.NewMonthlyAbsolute(addEvery, addDay)
		}
		return recurrence.NewMonthlyRelative(addEvery, addWeekday, addOrdinal)
	case "after":
		return recurrence.NewAfterCompletion(addEvery)
	default:
		return nil, fmt.Errorf("unknown recurrence unit %q (want day, week, month, or after)", addUnit)
	}
}

func parseWeekdays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var days []int
	for _, part := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad weekday %q: %w", part, err)
		}
		days = append(days, d)
	}
	return days, nil
}
