package audit

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	apiDocumentationPattern  = regexp.MustCompile(`(?i)(openapi|swagger|api[-_]?docs?|(^|/)docs/api|(^|/)API\.md$|\.postman_collection\.json$)`)
	runbookPattern           = regexp.MustCompile(`(?i)(runbook|incident|playbook|on-?call|disaster[-_]?recovery)`)
	deploymentDocumentFiles  = []string{"DEPLOY.md", "DEPLOYMENT.md", "docs/DEPLOY.md", "docs/DEPLOYMENT.md", "docs/deployment.md"}
	contributorDocumentFiles = []string{"CONTRIBUTING.md", "ARCHITECTURE.md", "docs/CONTRIBUTING.md", "docs/ARCHITECTURE.md", "docs/architecture.md"}
	deploymentMentionPattern = regexp.MustCompile(`(?i)deploy`)
)

const detailedReadmeMinimumLength = 500

func checkDocumentation(executionContext context.Context, inspector RepositoryInspector, profile RiskProfile) CheckResult {
	evaluation := newCategoryEvaluation(CategoryDocumentation)

	readmeContent, readmeFound := readFirst(inspector, readmeCandidates...)
	readmeLength := utf8.RuneCountInString(strings.TrimSpace(readmeContent))
	switch {
	case readmeLength > detailedReadmeMinimumLength:
		evaluation.pass(1, "Detailed README")
	case readmeFound:
		evaluation.partial(0.5, fmt.Sprintf("README is brief (%d characters)", readmeLength)).
			improve("Expand the README with setup and usage instructions")
	default:
		evaluation.fail("No README").
			improve("Add a README describing setup and usage")
	}

	if len(inspector.ListTrackedFiles(executionContext, apiDocumentationPattern, "")) > 0 {
		evaluation.pass(1, "API documentation present")
	} else {
		evaluation.warn("No API documentation").
			improve("Publish API documentation such as an OpenAPI spec")
	}

	if anyFileExists(inspector, deploymentDocumentFiles...) || deploymentMentionPattern.MatchString(readmeContent) {
		evaluation.pass(1, "Deployment process documented")
	} else {
		evaluation.warn("Deployment process undocumented").
			improve("Document how to deploy and roll back")
	}

	if len(inspector.ListTrackedFiles(executionContext, runbookPattern, "")) > 0 {
		evaluation.pass(1, "Runbook or incident response documentation present")
	} else {
		evaluation.fail("No runbook or incident response documentation").
			publicLaunch("No runbook for responding to production incidents")
	}

	if anyFileExists(inspector, contributorDocumentFiles...) {
		evaluation.pass(1, "Contributor or architecture guide present")
	} else {
		evaluation.warn("No contributor or architecture guide").
			improve("Add CONTRIBUTING.md or ARCHITECTURE.md")
	}

	return evaluation.result()
}
