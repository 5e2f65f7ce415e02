package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/pseudo/internal/app"
)

var (
	renderOutDir string
	renderAll    bool
	renderMarker string
)

var renderCmd = &cobra.Command{
	Use:   "render [path ...]",
	Short: "Print pseudo-code for marked types",
	Long: "Converts every type implementing the marker interface in the given files or\n" +
		"directories (default: the project root) and prints the results separated by a\n" +
		"blank line. Types that fail to convert are reported on stderr and skipped.",
	Args: cobra.ArbitraryArgs,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOutDir, "out", "o", "", "Write one <Type>.pseudo file per type into this directory")
	f.BoolVar(&renderAll, "all", false, "Render every type, ignoring the marker")
	f.StringVar(&renderMarker, "marker", "", "Marker interface name (overrides config)")
}

func runRender(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if renderMarker != "" {
		e.cfg.Marker = renderMarker
	}
	if renderAll {
		e.cfg.AllTypes = true
	}

	a, err := e.openApp(appNeeds{})
	if err != nil {
		return err
	}
	res, err := a.Render(cmd.Context(), args...)
	if err != nil {
		return err
	}
	printFailures(os.Stderr, res.Failures)

	if renderOutDir != "" {
		written, err := writeOutputs(renderOutDir, res.Outputs)
		if err != nil {
			return err
		}
		fmt.Printf("⚡ %d types written to %s\n", written, renderOutDir)
		return nil
	}

	fmt.Print(strings.Join(res.Texts(), "\n\n"))
	if len(res.Outputs) > 0 {
		fmt.Println()
	}
	return nil
}

// writeOutputs writes each output to dir/<Type>.pseudo. A type name seen
// twice gets a numeric suffix: <Type>.2.pseudo.
func writeOutputs(dir string, outputs []app.Output) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}
	seen := make(map[string]int)
	for _, o := range outputs {
		seen[o.Type]++
		name := o.Type + ".pseudo"
		if n := seen[o.Type]; n > 1 {
			name = fmt.Sprintf("%s.%d.pseudo", o.Type, n)
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(o.Text+"\n"), 0644); err != nil {
			return 0, fmt.Errorf("write %s: %w", name, err)
		}
	}
	return len(outputs), nil
}
