package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Store the current pseudo-code of the project",
	Long:  "Renders the whole project and replaces the stored snapshot that check compares against.",
	Args:  cobra.NoArgs,
	RunE:  runSnapshot,
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	a, err := e.openApp(appNeeds{store: true})
	if err != nil {
		return err
	}
	snap, res, err := a.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	printFailures(os.Stderr, res.Failures)

	fmt.Printf("⚡ snapshot %s: %d types", snap.RunID, len(snap.Entries))
	if n := len(res.Failures); n > 0 {
		fmt.Printf(", %s", paint(colorYellow, fmt.Sprintf("%d failed", n)))
	}
	fmt.Println()
	return nil
}
