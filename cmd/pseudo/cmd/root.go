package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	rootDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pseudo",
	Short: "pseudo: structural summaries of C# types",
	Long: "Renders every C# type implementing a marker interface (IAnalyzable by default)\n" +
		"as pseudo-code: its signature and members, with bodies elided.",
	SilenceUsage: true,
}

// projectRoot returns the --root flag, or cwd by default.
func projectRoot() string {
	dir := rootDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return abs
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootDir, "root", "", "Project root (default: current directory)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log at debug level and echo logs to stderr")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(wipeCmd)
}
