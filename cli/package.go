package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/selfiecli/selfie/domain"
	"github.com/selfiecli/selfie/validator"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "manage and install declared packages",
}

var packagePath string

func init() {
	packageCmd.AddCommand(packageInstallCmd)
	packageCmd.AddCommand(packageListCmd)
	packageCmd.AddCommand(packageValidateCmd)
	packageCmd.AddCommand(packageInfoCmd)
	packageCmd.AddCommand(packageCreateCmd)

	packageValidateCmd.Flags().StringVar(&packagePath, "package-path", "", "validate an explicit file instead of resolving by name")
}

var packageInstallCmd = &cobra.Command{
	Use:   "install <name>",
	Short: "resolve and install a package and its dependencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		report, err := a.orchestrator().Run(cmd.Context(), args[0])
		if err != nil {
			a.Progress.Error(err.Error())
			if verbose {
				printVerboseError(a, err)
			}
			return err
		}

		printReport(a, *report)
		return nil
	},
}

var packageListCmd = &cobra.Command{
	Use:   "list",
	Short: "list packages in the package directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		packages, err := a.Repository.ListPackages(a.Progress)
		if err != nil {
			return err
		}

		sort.Slice(packages, func(i, j int) bool { return packages[i].Name < packages[j].Name })

		// Availability is checked for every package at once, bounded by
		// errgroup inside ValidatePackages, rather than one at a time.
		results := a.validator().ValidatePackages(cmd.Context(), packages)
		issuesByName := make(map[string][]validator.Issue, len(results))
		for _, r := range results {
			issuesByName[r.PackageName] = r.Issues
		}

		for _, pkg := range packages {
			_, hasEnv := pkg.Environment(a.Config.Environment)
			line := fmt.Sprintf("%s (%s)", pkg.Name, pkg.Version)
			if !hasEnv {
				line += fmt.Sprintf(" [no %s environment]", a.Config.Environment)
			} else if hasIssue(issuesByName[pkg.Name], validator.Availability) {
				line += " [install command unavailable]"
			}
			a.Progress.Info(0, line)
		}

		return nil
	},
}

var packageValidateCmd = &cobra.Command{
	Use:   "validate <name>",
	Short: "run the validator against a package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		v := a.validator()
		var result interface {
			IsValid() bool
		}

		if packagePath != "" {
			r, err := v.ValidateByPath(cmd.Context(), packagePath)
			if err != nil {
				return err
			}
			printValidation(a, r)
			result = r
		} else {
			r, err := v.ValidateByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printValidation(a, r)
			result = r
		}

		if !result.IsValid() {
			return newUsageError("package %s failed validation", args[0])
		}
		return nil
	},
}

var packageInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "print a package's declared metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		pkg, err := a.Repository.GetPackage(args[0])
		if err != nil {
			return err
		}

		a.Progress.Info(0, fmt.Sprintf("name: %s", pkg.Name))
		a.Progress.Info(0, fmt.Sprintf("version: %s", pkg.Version))
		if pkg.Homepage != "" {
			a.Progress.Info(0, fmt.Sprintf("homepage: %s", pkg.Homepage))
		}
		if pkg.Description != "" {
			a.Progress.Info(0, fmt.Sprintf("description: %s", pkg.Description))
		}
		envNames := make([]string, 0, len(pkg.Environments))
		for name := range pkg.Environments {
			envNames = append(envNames, name)
		}
		sort.Strings(envNames)
		a.Progress.Info(0, fmt.Sprintf("environments: %v", envNames))

		return nil
	},
}

var packageCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "print a scaffold for a new package file (nothing is written)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		name := args[0]
		if !domain.ValidName(name) {
			return newUsageError("invalid package name %q", name)
		}

		template := fmt.Sprintf(`name: %s
version: 0.1.0
environments:
  %s:
    install: echo "install %s here"
    check: which %s
`, name, envOrPlaceholder(a.Config.Environment), name, name)

		path := a.Config.PackageDirectory + "/" + name + ".yaml"
		if a.FS.PathExists(path) {
			return newUsageError("package file already exists: %s", path)
		}

		a.Progress.Info(0, "would write "+path+":")
		a.Progress.Info(1, template)
		return nil
	},
}

func envOrPlaceholder(env string) string {
	if env == "" {
		return "default"
	}
	return env
}
