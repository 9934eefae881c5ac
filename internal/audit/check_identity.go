package audit

import (
	"context"
	"fmt"
	"regexp"
)

var (
	authenticationFilePattern = regexp.MustCompile(`(?i)(auth|login|session|passport)`)
	loginVocabularyPattern    = regexp.MustCompile(`(?i)(login|log_in|authenticate|sign[-_ ]?in)`)
	hardcodedCredentialNames  = []string{"password", "secret", "api_key", "apikey", "token"}
)

const (
	authorizationContentPattern = `(role|permission|authoriz|rbac)`
	environmentUsagePattern     = `(process\.env|import\.meta\.env|os\.Getenv|os\.LookupEnv|os\.environ|getenv|ENV\[)`
	credentialPatternTemplate   = `%s[[:space:]]*=[[:space:]]*["']`
	roleReferenceThreshold      = 5
)

func checkIdentityAccess(executionContext context.Context, inspector RepositoryInspector, profile RiskProfile) CheckResult {
	evaluation := newCategoryEvaluation(CategoryIdentityAccess)

	authenticationFiles := inspector.ListTrackedFiles(executionContext, authenticationFilePattern, "")
	if len(authenticationFiles) > 0 {
		evaluation.pass(1, fmt.Sprintf("Authentication files found (%d)", len(authenticationFiles)))
		if anyFileContentMatches(inspector, authenticationFiles, loginVocabularyPattern) {
			evaluation.pass(1, "Login flow implemented")
		} else {
			evaluation.warn("Authentication files contain no login flow").
				improve("Implement an explicit login and authentication flow")
		}
	} else {
		evaluation.fail("No authentication system detected").
			critical("No authentication system detected")
	}

	roleReferences := searchSource(executionContext, inspector, authorizationContentPattern)
	if len(roleReferences) > roleReferenceThreshold {
		evaluation.pass(1, fmt.Sprintf("Role-based authorization detected (%d references)", len(roleReferences)))
	} else {
		evaluation.fail(fmt.Sprintf("Limited authorization controls (%d references)", len(roleReferences))).
			publicLaunch("No role-based access control; every user can reach every action")
	}

	credentialHits := 0
	for _, credentialName := range hardcodedCredentialNames {
		credentialHits += len(searchSource(executionContext, inspector, fmt.Sprintf(credentialPatternTemplate, credentialName)))
	}
	if credentialHits > 0 {
		evaluation.fail(fmt.Sprintf("Hardcoded credentials detected (%d locations)", credentialHits)).
			critical("Hardcoded credentials found in source code")
	} else {
		evaluation.pass(1, "No hardcoded credentials detected")
	}

	if len(searchSource(executionContext, inspector, environmentUsagePattern)) > 0 {
		evaluation.pass(0.5, "Configuration read from environment variables")
	} else {
		evaluation.warn("No environment-based configuration").
			improve("Read credentials and settings from environment variables")
	}

	return evaluation.result()
}
