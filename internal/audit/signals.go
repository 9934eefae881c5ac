package audit

import (
	"context"
	"regexp"

	"github.com/temirov/readiness/internal/gitrepo"
)

// Content patterns are handed to git grep -E and to Go's regexp in tests, so they stay
// within the common subset: POSIX classes instead of \s, no \b, no non-capturing groups.

var sourcePathspecs = []string{"*.js", "*.jsx", "*.ts", "*.tsx", "*.mjs", "*.cjs", "*.py", "*.go", "*.rb", "*.java", "*.php"}

var testPathspecs = []string{"*.test.*", "*.spec.*", "*_test.*", "*test_*.py", "*tests/*", "*test/*", "*__tests__/*", "*e2e/*"}

// CategoryCheck evaluates one readiness category.
type CategoryCheck func(executionContext context.Context, inspector RepositoryInspector, profile RiskProfile) CheckResult

var defaultCategoryChecks = []CategoryCheck{
	checkIdentityAccess,
	checkSecretsConfig,
	checkDataSafety,
	checkReliability,
	checkObservability,
	checkContinuousDelivery,
	checkSecurityHardening,
	checkTesting,
	checkPerformance,
	checkDocumentation,
}

// DefaultCategoryChecks returns the ten checks in report order.
func DefaultCategoryChecks() []CategoryCheck {
	return append([]CategoryCheck{}, defaultCategoryChecks...)
}

func searchSource(executionContext context.Context, inspector RepositoryInspector, pattern string) []string {
	return inspector.SearchContent(executionContext, gitrepo.ContentQuery{Pattern: pattern, IgnoreCase: true, Pathspecs: sourcePathspecs})
}

func searchTests(executionContext context.Context, inspector RepositoryInspector, pattern string) []string {
	return inspector.SearchContent(executionContext, gitrepo.ContentQuery{Pattern: pattern, IgnoreCase: true, Pathspecs: testPathspecs})
}

func searchEverywhere(executionContext context.Context, inspector RepositoryInspector, pattern string) []string {
	return inspector.SearchContent(executionContext, gitrepo.ContentQuery{Pattern: pattern, IgnoreCase: true})
}

func anyFileExists(inspector RepositoryInspector, relativePaths ...string) bool {
	for _, relativePath := range relativePaths {
		if inspector.FileExists(relativePath) {
			return true
		}
	}
	return false
}

// readFirst returns the content of the first readable candidate.
func readFirst(inspector RepositoryInspector, relativePaths ...string) (string, bool) {
	for _, relativePath := range relativePaths {
		if content, found := inspector.ReadFile(relativePath); found {
			return content, true
		}
	}
	return "", false
}

func anyFileContentMatches(inspector RepositoryInspector, relativePaths []string, pattern *regexp.Regexp) bool {
	for _, relativePath := range relativePaths {
		content, found := inspector.ReadFile(relativePath)
		if found && pattern.MatchString(content) {
			return true
		}
	}
	return false
}

var readmeCandidates = []string{"README.md", "README", "README.rst", "README.txt", "readme.md", "Readme.md"}
