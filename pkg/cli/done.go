package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Complete a task (recurring tasks regenerate)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func runDone(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}
	task, err := resolveTask(st, args[0])
	if err != nil {
		return err
	}

	updated, err := st.Complete(task.ID, time.Now())
	if err != nil {
		return err
	}
	if updated.Completed {
		fmt.Printf("Done: %s\n", updated.Title)
	} else {
		// Recurring task rolled forward instead of closing.
		fmt.Printf("Done: %s (next due %s)\n", updated.Title, updated.DueDate.Format("Mon Jan 2"))
	}
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}
	task, err := resolveTask(st, args[0])
	if err != nil {
		return err
	}
	if err := st.Delete(task.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted: %s\n", task.Title)
	return nil
}
