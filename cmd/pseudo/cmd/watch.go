package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/pseudo/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render C# files as they change",
	Long:  "Watches the project and prints the pseudo-code of every saved source file until interrupted.",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	a, err := e.openApp(appNeeds{watcher: true})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("⚡ watching %s (Ctrl-C to stop)\n", a.Root())
	err = a.Watch(ctx, func(file string, res *app.Result) {
		fmt.Printf("%s %s\n", paint(colorGray, "──"), paint(colorCyan, file))
		printFailures(os.Stderr, res.Failures)
		if len(res.Outputs) == 0 {
			fmt.Println(paint(colorGray, "(no marked types)"))
			return
		}
		fmt.Println(strings.Join(res.Texts(), "\n\n"))
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	fmt.Println("\n⚡ stopped")
	return nil
}
