package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var wipeForce bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete the stored snapshot of the project",
	Long:  "Removes the snapshot that check compares against. The next check fails until snapshot runs again.",
	Args:  cobra.NoArgs,
	RunE:  runWipe,
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeForce, "force", false, "Skip confirmation prompt")
}

func runWipe(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if _, err := os.Stat(e.paths.DB); os.IsNotExist(err) {
		fmt.Println("⚡ no snapshot to wipe")
		return nil
	}

	if !wipeForce {
		fmt.Printf("⚠ This will delete the stored snapshot of %s. Continue? [y/N] ", filepath.Base(e.root))
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("cancelled")
			return nil
		}
	}

	a, err := e.openApp(appNeeds{store: true})
	if err != nil {
		return err
	}
	if err := a.DeleteSnapshot(); err != nil {
		return err
	}
	fmt.Println("⚡ snapshot wiped")
	return nil
}
