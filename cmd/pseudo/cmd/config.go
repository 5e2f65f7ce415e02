package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the project root, resolved configuration, storage paths and grammar source.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	cfgFile := e.cfgFile
	if cfgFile == "" {
		cfgFile = paint(colorGray, "(defaults)")
	}
	marker := e.cfg.EffectiveMarker()
	if marker == "" {
		marker = paint(colorGray, "(all types)")
	}

	fmt.Println(paint(colorBold, "⚡ pseudo config"))
	fmt.Printf("  Project:    %s\n", filepath.Base(e.root))
	fmt.Printf("  Root:       %s\n", e.root)
	fmt.Printf("  Config:     %s\n", cfgFile)
	fmt.Printf("  Marker:     %s\n", marker)
	fmt.Printf("  DB:         %s\n", e.paths.DB)
	fmt.Printf("  Log:        %s\n", e.paths.Log)
	fmt.Printf("  Grammar:    %s\n", grammarStatus(e.root, e.cfg.GrammarPaths))

	data, err := e.cfg.YAML()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(string(data))
	return nil
}
