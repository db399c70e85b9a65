package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/tend/pkg/orgmode"
)

var importTag string

var importCmd = &cobra.Command{
	Use:   "import <file.org>...",
	Short: "Import TODO entries from Org-mode files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importTag, "tag", "", "Only import entries carrying this tag")
}

func runImport(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}

	tasks, err := orgmode.ParseFiles(args)
	if err != nil {
		return err
	}
	if importTag != "" {
		tasks = orgmode.FilterTasks(tasks, importTag)
	}

	imported := 0
	for _, t := range tasks {
		if _, err := st.Create(t); err != nil {
			return fmt.Errorf("import %q: %w", t.Title, err)
		}
		imported++
	}
	fmt.Printf("Imported %d task(s) from %d file(s)\n", imported, len(args))
	return nil
}
