package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/solidkit/boxcad"
	"github.com/solidkit/boxcad/kernel"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("boxcad %s\n", boxcad.Version)
		fmt.Printf("  go: %s\n", runtime.Version())
		fmt.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		if k, err := kernel.Default(); err == nil {
			fmt.Printf("  kernel: %s %s\n", k.Name(), k.Version())
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
