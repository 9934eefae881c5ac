package audit

import (
	"context"
	"regexp"
)

var dependencyScanningFilePattern = regexp.MustCompile(`(?i)^(\.github/dependabot\.ya?ml|renovate\.json5?|\.renovaterc(\.json)?|\.snyk|\.github/workflows/[^/]*(codeql|snyk|audit|security|trivy)[^/]*\.ya?ml)$`)

const (
	securityHeadersPattern    = `(helmet|secure_headers|secureheaders|Content-Security-Policy|X-Frame-Options|Strict-Transport-Security|SECURE_HSTS|django\.middleware\.security)`
	rateLimitingPattern       = `(rate[-_ ]?limit|ratelimit|throttl|slowapi|limiter)`
	corsPattern               = `(cors|Access-Control-Allow-Origin)`
	dependencyScanningPattern = `(npm audit|yarn audit|pnpm audit|snyk|trivy|dependabot|renovate|govulncheck|pip-audit|safety check|bundler-audit|osv-scanner)`
	sanitizationPattern       = `(sanitiz|dompurify|bleach|escapeHtml|html\.escape|xss|parameterized|prepared[-_ ]?statement|placeholder)`
)

func checkSecurityHardening(executionContext context.Context, inspector RepositoryInspector, profile RiskProfile) CheckResult {
	evaluation := newCategoryEvaluation(CategorySecurityHardening)

	if len(searchEverywhere(executionContext, inspector, securityHeadersPattern)) > 0 {
		evaluation.pass(1, "Security headers configured")
	} else {
		evaluation.fail("No security headers configured").
			publicLaunch("No security headers (CSP, HSTS, frame options)")
	}

	if len(searchSource(executionContext, inspector, rateLimitingPattern)) > 0 {
		evaluation.pass(1, "Rate limiting in place")
	} else {
		evaluation.fail("No rate limiting").
			publicLaunch("No rate limiting; endpoints are open to brute force and abuse")
	}

	if len(searchSource(executionContext, inspector, corsPattern)) > 0 {
		evaluation.pass(1, "CORS policy configured")
	} else {
		evaluation.warn("No explicit CORS policy").
			improve("Restrict cross-origin access with an explicit CORS policy")
	}

	if len(inspector.ListTrackedFiles(executionContext, dependencyScanningFilePattern, "")) > 0 ||
		len(searchEverywhere(executionContext, inspector, dependencyScanningPattern)) > 0 {
		evaluation.pass(1, "Dependency vulnerability scanning configured")
	} else {
		evaluation.warn("No dependency vulnerability scanning").
			improve("Enable automated dependency vulnerability scanning")
	}

	if len(searchSource(executionContext, inspector, sanitizationPattern)) > 0 {
		evaluation.pass(1, "Input sanitization or parameterized queries detected")
	} else {
		evaluation.warn("No input sanitization detected").
			improve("Sanitize rendered input and use parameterized queries")
	}

	return evaluation.result()
}
