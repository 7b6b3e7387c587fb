package cli

import (
	"fmt"

	"github.com/selfiecli/selfie/domain"
	"github.com/selfiecli/selfie/progress"
	"github.com/selfiecli/selfie/validator"
)

func hasIssue(issues []validator.Issue, category validator.Category) bool {
	for _, issue := range issues {
		if issue.Category == category {
			return true
		}
	}
	return false
}

func printReport(a *app, report domain.InstallationReport) {
	for _, dep := range report.Dependencies {
		statusLine(a, progress.Dependency, dep)
	}
	statusLine(a, progress.Root, report)
}

func statusLine(a *app, level progress.Level, r domain.InstallationReport) {
	switch r.Status {
	case domain.StatusAlreadyInstalled:
		a.Progress.Success(level, r.PackageName+" already installed")
	case domain.StatusComplete:
		a.Progress.Status(level, r.PackageName+" installed", r.Duration)
	case domain.StatusSkipped:
		a.Progress.Info(level, r.PackageName+" skipped: "+r.SkippedReason)
	case domain.StatusFailed:
		a.Progress.Error(r.PackageName + " failed: " + r.FailureReason)
	}
}

func printVerboseError(a *app, err error) {
	if ctxErr, ok := err.(interface{ Error() string }); ok {
		a.Progress.PrintVerbose(progress.Root, ctxErr.Error())
	}
}

func printValidation(a *app, result validator.ValidationResult) {
	a.Progress.Info(progress.Root, fmt.Sprintf("%s (%s)", result.PackageName, result.SourcePath))
	for _, issue := range result.Issues {
		line := fmt.Sprintf("[%s/%s] %s: %s", issue.Category, issue.Severity, issue.Field, issue.Message)
		if issue.Severity == validator.SeverityError {
			a.Progress.Error(line)
		} else {
			a.Progress.Warn(line)
		}
	}
	if result.IsValid() {
		a.Progress.Success(progress.Root, "valid")
	}
}
