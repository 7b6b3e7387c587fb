package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfiecli/selfie/domain"
	"github.com/selfiecli/selfie/ports/fakes"
)

func hasIssue(issues []Issue, category Category, field string) bool {
	for _, i := range issues {
		if i.Category == category && i.Field == field {
			return true
		}
	}
	return false
}

func hasIssueWithSeverity(issues []Issue, category Category, field string, severity Severity) bool {
	for _, i := range issues {
		if i.Category == category && i.Field == field && i.Severity == severity {
			return true
		}
	}
	return false
}

func TestValidateByPathWorkedExample(t *testing.T) {
	// Matches the worked example: bad version, unparseable homepage, and
	// an install command with an unmatched quote.
	yaml := `
name: test-package
version: abc
homepage: not-a-url
environments:
  macos:
    install: brew install "test-package
`
	fs := fakes.NewMemFS().WithFile("/pkgs/test-package.yaml", yaml)
	cfg := domain.AppConfig{Environment: "macos"}
	v := New(fs, nil, nil, cfg)

	result, err := v.ValidateByPath(context.Background(), "/pkgs/test-package.yaml")
	require.NoError(t, err)
	assert.False(t, result.IsValid())

	assert.True(t, hasIssue(result.Issues, InvalidValue, "version"))
	assert.True(t, hasIssueWithSeverity(result.Issues, UrlFormat, "homepage", SeverityError))
	assert.True(t, hasIssue(result.Issues, CommandSyntax, "environments.macos.install"))
}

func TestValidateByPathValidPackage(t *testing.T) {
	yaml := `
name: git
version: 2.40.0
homepage: https://git-scm.com
environments:
  macos:
    install: brew install git
    check: which git
`
	fs := fakes.NewMemFS().WithFile("/pkgs/git.yaml", yaml)
	cfg := domain.AppConfig{Environment: "macos"}
	v := New(fs, nil, nil, cfg)

	result, err := v.ValidateByPath(context.Background(), "/pkgs/git.yaml")
	require.NoError(t, err)
	assert.True(t, result.IsValid())
}

func TestValidateByPathMalformedYAMLIsFatal(t *testing.T) {
	fs := fakes.NewMemFS().WithFile("/pkgs/broken.yaml", "name: [unterminated")
	v := New(fs, nil, nil, domain.AppConfig{Environment: "macos"})

	result, err := v.ValidateByPath(context.Background(), "/pkgs/broken.yaml")
	require.NoError(t, err)
	assert.False(t, result.IsValid())
	require.Len(t, result.Issues, 1)
	assert.Equal(t, Other, result.Issues[0].Category)
}

func TestValidateByPathMissingRequiredFieldsAreNonFatalSeparately(t *testing.T) {
	yaml := `
name: ""
version: ""
environments: {}
`
	fs := fakes.NewMemFS().WithFile("/pkgs/empty.yaml", yaml)
	v := New(fs, nil, nil, domain.AppConfig{Environment: "macos"})

	result, err := v.ValidateByPath(context.Background(), "/pkgs/empty.yaml")
	require.NoError(t, err)
	assert.False(t, result.IsValid())
	assert.True(t, hasIssue(result.Issues, RequiredField, "name"))
	assert.True(t, hasIssue(result.Issues, RequiredField, "version"))
	assert.True(t, hasIssue(result.Issues, RequiredField, "environments"))
}

func TestValidateByPathUnsupportedActiveEnvironmentWarns(t *testing.T) {
	yaml := `
name: git
version: 2.40.0
environments:
  ubuntu:
    install: apt install git
`
	fs := fakes.NewMemFS().WithFile("/pkgs/git.yaml", yaml)
	v := New(fs, nil, nil, domain.AppConfig{Environment: "macos"})

	result, err := v.ValidateByPath(context.Background(), "/pkgs/git.yaml")
	require.NoError(t, err)
	assert.True(t, hasIssue(result.Issues, Environment, "environments.macos"))
	// A warning alone doesn't flip validity.
	for _, i := range result.Issues {
		assert.NotEqual(t, SeverityError, i.Severity)
	}
	assert.True(t, result.IsValid())
}

func TestValidateByPathAvailabilityWarnsWhenCommandMissing(t *testing.T) {
	yaml := `
name: git
version: 2.40.0
environments:
  macos:
    install: brew install git
`
	fs := fakes.NewMemFS().WithFile("/pkgs/git.yaml", yaml)
	runner := fakes.NewFakeRunner()
	v := New(fs, runner, nil, domain.AppConfig{Environment: "macos"})

	result, err := v.ValidateByPath(context.Background(), "/pkgs/git.yaml")
	require.NoError(t, err)
	assert.True(t, hasIssue(result.Issues, Availability, "environments.macos.install"))
}

func TestValidateByPathAppropriatenessWarnsOnWrongPackageManager(t *testing.T) {
	yaml := `
name: thing
version: 1.0.0
environments:
  ubuntu:
    install: brew install thing
`
	fs := fakes.NewMemFS().WithFile("/pkgs/thing.yaml", yaml)
	v := New(fs, nil, nil, domain.AppConfig{Environment: "ubuntu"})

	result, err := v.ValidateByPath(context.Background(), "/pkgs/thing.yaml")
	require.NoError(t, err)
	assert.True(t, hasIssue(result.Issues, Environment, "environments.ubuntu.install"))
}

func TestValidateByPathSudoAndDownloadIndicators(t *testing.T) {
	yaml := `
name: thing
version: 1.0.0
environments:
  macos:
    install: sudo curl -o /tmp/x https://example.com/x
`
	fs := fakes.NewMemFS().WithFile("/pkgs/thing.yaml", yaml)
	v := New(fs, nil, nil, domain.AppConfig{Environment: "macos"})

	result, err := v.ValidateByPath(context.Background(), "/pkgs/thing.yaml")
	require.NoError(t, err)
	messages := map[string]bool{}
	for _, i := range result.Issues {
		messages[i.Message] = true
	}
	var sudoFound, downloadFound bool
	for _, i := range result.Issues {
		if i.Field == "environments.macos.install" && i.Category == CommandSyntax {
			if i.Message == "install command elevates via sudo" {
				sudoFound = true
			}
			if i.Message == "install command downloads directly rather than using a package manager" {
				downloadFound = true
			}
		}
	}
	assert.True(t, sudoFound)
	assert.True(t, downloadFound)
}

func TestCommandSyntaxHeuristics(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		category Category
	}{
		{"unmatched quote", `echo "unterminated`, CommandSyntax},
		{"empty pipe segment", "echo a | | echo b", CommandSyntax},
		{"relative redirection target", "echo a > out.txt", CommandSyntax},
		{"backtick substitution", "echo `date`", CommandSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := commandSyntaxForString("environments.macos.install", tt.command)
			require.NotEmpty(t, issues)
			assert.Equal(t, tt.category, issues[0].Category)
		})
	}
}

func TestCommandSyntaxCleanCommandHasNoIssues(t *testing.T) {
	issues := commandSyntaxForString("environments.macos.install", "brew install git")
	assert.Empty(t, issues)
}
