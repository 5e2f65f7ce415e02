package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkQuiet bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare the project against the stored snapshot",
	Long: "Renders the project and prints a unified diff for every type that was added,\n" +
		"removed or changed since the last snapshot. Exit status: 0 clean, 1 drift, 2 error.",
	Args:          cobra.NoArgs,
	RunE:          runCheck,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Print nothing (exit status only)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return exitError{code: 2, err: err}
	}
	defer e.close()

	a, err := e.openApp(appNeeds{store: true})
	if err != nil {
		return exitError{code: 2, err: err}
	}
	report, err := a.Check(cmd.Context())
	if err != nil {
		return exitError{code: 2, err: err}
	}
	if checkQuiet {
		if report.Clean() {
			return nil
		}
		return exitError{code: 1}
	}

	printFailures(os.Stderr, report.Failures)
	baseline := fmt.Sprintf("snapshot %s (%s)", report.RunID, report.CreatedAt.Local().Format("2006-01-02 15:04"))
	if report.Clean() {
		fmt.Printf("%s no drift since %s\n", paint(colorGreen, "✓"), baseline)
		return nil
	}
	for _, d := range report.Drifts {
		fmt.Printf("%s %s\n", paint(colorBold, string(d.Kind)), d.Key)
		fmt.Print(colorDiff(d.Diff))
	}
	fmt.Printf("%s %d types drifted since %s\n", paint(colorYellow, "✗"), len(report.Drifts), baseline)
	return exitError{code: 1}
}
