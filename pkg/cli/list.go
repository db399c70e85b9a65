package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/tend/pkg/clock"
	"github.com/harrisonrobin/tend/pkg/colors"
	"github.com/harrisonrobin/tend/pkg/model"
	"github.com/harrisonrobin/tend/pkg/rank"
	"github.com/harrisonrobin/tend/pkg/temporal"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks ranked by urgency",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include completed tasks")
}

func runList(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}
	tasks, err := st.FetchAll()
	if err != nil {
		return err
	}

	pending := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if listAll || !t.Completed {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	cache, err := colors.NewCache()
	if err != nil {
		log.Printf("Warning: could not load color cache: %v", err)
		cache = nil
	}

	now := clock.System{}.Now()
	for _, t := range rank.Rank(pending) {
		label := temporal.Classify(t, now).Label
		if t.Completed {
			label = "Done"
		}

		badge := ""
		if s, ok := temporal.ShortIndicator(t, now); ok && !t.Completed {
			badge = " [" + s + "]"
		}

		project := t.Project
		if project != "" && cache != nil {
			project = cache.Paint(t.Project, t.Project)
		}
		if project != "" {
			project = " (" + project + ")"
		}

		fmt.Printf("%s  %-12s %s%s%s\n", shortID(t.ID), label, t.Title, project, badge)
	}

	if cache != nil {
		if err := cache.Save(); err != nil {
			log.Printf("Warning: could not save color cache: %v", err)
		}
	}
	return nil
}
