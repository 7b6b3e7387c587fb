package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "inspect and validate selfie's own configuration",
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "validate the loaded AppConfig",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		issues := a.Config.Validate()
		if len(issues) == 0 {
			a.Progress.Success(0, "configuration is valid")
			if a.Config.ConfigFile != "" {
				a.Progress.Info(0, "loaded from "+a.Config.ConfigFile)
			}
			return nil
		}

		for _, issue := range issues {
			a.Progress.Error(fmt.Sprintf("%s: %s", issue.Field, issue.Message))
		}
		return newUsageError("configuration is invalid")
	},
}
