package audit

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	testFilePattern      = regexp.MustCompile(`(?i)(\.test\.|\.spec\.|_test\.|(^|/)test_[^/]*\.py$|(^|/)tests?/|(^|/)__tests__/|(^|/)e2e/)`)
	coverageConfigFiles  = []string{"codecov.yml", ".codecov.yml", ".nycrc", ".nycrc.json", ".nycrc.yml", ".coveragerc", ".c8rc", ".c8rc.json"}
	coverageToolPackages = []string{"nyc", "c8", "istanbul", "@vitest/coverage-v8", "@vitest/coverage-istanbul", "coverage", "pytest-cov"}
)

const (
	integrationTestPattern = `(integration|e2e|end-to-end|supertest|playwright|cypress|testcontainers|httptest)`
	smokeTestPattern       = `(smoke|health)`
	packageManifestFile    = "package.json"
	coverageKeyword        = "coverage"
	manyTestFilesMinimum   = 20
	someTestFilesMinimum   = 5
)

func checkTesting(executionContext context.Context, inspector RepositoryInspector, profile RiskProfile) CheckResult {
	evaluation := newCategoryEvaluation(CategoryTesting)

	testFileCount := len(inspector.ListTrackedFiles(executionContext, testFilePattern, ""))
	switch {
	case testFileCount > manyTestFilesMinimum:
		evaluation.pass(2, fmt.Sprintf("Extensive test suite (%d test files)", testFileCount))
	case testFileCount > someTestFilesMinimum:
		evaluation.pass(1, fmt.Sprintf("Moderate test suite (%d test files)", testFileCount))
	case testFileCount > 0:
		evaluation.partial(0.5, fmt.Sprintf("Minimal test suite (%d test files)", testFileCount)).
			improve("Grow the automated test suite")
	default:
		evaluation.fail("No automated tests").
			critical("No automated tests")
	}

	if len(searchTests(executionContext, inspector, integrationTestPattern)) > 0 {
		evaluation.pass(1, "Integration or end-to-end tests present")
	} else {
		evaluation.warn("No integration or end-to-end tests").
			improve("Add integration tests for critical user flows")
	}

	if coverageConfigured(inspector) {
		evaluation.pass(1, "Test coverage tracking configured")
	} else {
		evaluation.warn("No test coverage tracking").
			improve("Measure test coverage in CI")
	}

	if len(searchTests(executionContext, inspector, smokeTestPattern)) > 0 {
		evaluation.pass(1, "Smoke or health-check tests present")
	} else {
		evaluation.fail("No smoke or health-check tests").
			publicLaunch("No smoke tests to verify a deployment is alive")
	}

	return evaluation.result()
}

// coverageConfigured looks for coverage settings in package.json scripts, jest or nyc sections,
// and coverage tooling in devDependencies, then for standalone coverage configuration files.
func coverageConfigured(inspector RepositoryInspector) bool {
	if manifest, found := inspector.ReadFile(packageManifestFile); found && gjson.Valid(manifest) {
		if manifestDeclaresCoverage(manifest) {
			return true
		}
	}
	return anyFileExists(inspector, coverageConfigFiles...)
}

func manifestDeclaresCoverage(manifest string) bool {
	declared := false
	gjson.Get(manifest, "scripts").ForEach(func(name gjson.Result, command gjson.Result) bool {
		declared = strings.Contains(strings.ToLower(name.String()+" "+command.String()), coverageKeyword)
		return !declared
	})
	if declared {
		return true
	}

	if gjson.Get(manifest, "jest.collectCoverage").Bool() || gjson.Get(manifest, "jest.coverageThreshold").Exists() {
		return true
	}
	if gjson.Get(manifest, "nyc").Exists() || gjson.Get(manifest, "c8").Exists() {
		return true
	}

	for _, dependencySection := range []string{"devDependencies", "dependencies"} {
		dependencies := gjson.Get(manifest, dependencySection)
		for _, coveragePackage := range coverageToolPackages {
			if dependencies.Get(gjson.Escape(coveragePackage)).Exists() {
				return true
			}
		}
	}
	return false
}
