package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent reviews and the current streak",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of reviews to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	_, cfg, err := openStore()
	if err != nil {
		return err
	}
	hist, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer hist.Close()

	reviews, err := hist.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		fmt.Println("No reviews yet. Run `tend review` to start a streak.")
		return nil
	}

	for _, r := range reviews {
		fmt.Printf("%s  %d deleted, %d rescheduled, %d kept\n",
			r.CompletedAt.Format("Mon Jan 2 15:04"), r.Deleted, r.Rescheduled, r.Kept)
	}

	streak, err := hist.Streak(time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("\nStreak: %d day(s)\n", streak)
	return nil
}
