package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/solidkit/boxcad"
	"github.com/solidkit/boxcad/paramfile"
)

var cavityOutput string

var cavityCmd = &cobra.Command{
	Use:   "cavity <params.yaml>",
	Short: "Export only the rounded inner-cavity tool solid",
	Long: `Cavity exports the solid that gets subtracted out of the base block,
in isolation. Useful for inspecting the rounded-corner cavity geometry
when a build produces an unexpected shell.

Only rectangular shapes with rounded corners have a distinct cavity
solid; for anything else the command reports that there is nothing to
export.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runCavity(args[0])
	},
}

func init() {
	cavityCmd.Flags().StringVarP(&cavityOutput, "output", "o", "", "output STEP file (default: parameter file name with -cavity.step)")
	rootCmd.AddCommand(cavityCmd)
}

func runCavity(paramPath string) error {
	params, err := paramfile.Load(paramPath)
	if err != nil {
		return fmt.Errorf("loading parameters: %w", err)
	}

	data, err := boxcad.BuildInnerCavityOnly(params)
	if err != nil {
		return err
	}
	if data == nil {
		fmt.Println("no rounded cavity for these parameters; nothing to export")
		return nil
	}

	out := cavityOutput
	if out == "" {
		out = strings.TrimSuffix(paramPath, filepath.Ext(paramPath)) + "-cavity.step"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", out, len(data))
	return nil
}
