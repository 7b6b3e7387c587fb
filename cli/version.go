package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/selfiecli/selfie/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print build and dependency version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.GetBuildInfo()
		fmt.Printf("selfie %s (go %s)\n", version.GetSelfieVersion(), info.GoVersion)
		if verbose {
			for _, dep := range info.Dependencies {
				fmt.Printf("  %s %s\n", dep.Path, dep.Version)
			}
		}
		return nil
	},
}
