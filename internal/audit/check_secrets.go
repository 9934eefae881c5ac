package audit

import (
	"context"
	"regexp"
)

var (
	environmentTemplateFiles   = []string{".env.example", ".env.template", ".env.sample", ".env.dist", "example.env"}
	configurationDocumentFiles = []string{"SETUP.md", "CONFIGURATION.md", "docs/SETUP.md", "docs/CONFIGURATION.md"}
	environmentMentionPattern  = regexp.MustCompile(`(?i)environment`)
)

const (
	secretsManagerPattern = `(vault|secrets?[-_ ]?manager|secretmanager|key[-_ ]?vault|doppler|infisical|sops|parameter[-_ ]?store)`
	environmentFileName   = ".env"
)

func checkSecretsConfig(executionContext context.Context, inspector RepositoryInspector, profile RiskProfile) CheckResult {
	evaluation := newCategoryEvaluation(CategorySecretsConfig)

	if anyFileExists(inspector, environmentTemplateFiles...) {
		evaluation.pass(1, "Environment template file present")
	} else {
		evaluation.warn("No environment template file").
			improve("Add a .env.example listing every required variable")
	}

	if inspector.IsIgnored(executionContext, environmentFileName) {
		evaluation.pass(1, ".env is gitignored")
	} else {
		evaluation.fail(".env is not gitignored").
			critical(".env files are not excluded by .gitignore")
	}

	if inspector.SecretsInHistory(executionContext) {
		evaluation.penalize(1, "Potential secrets found in git history").
			critical("Secrets committed to git history; rotate them and purge the history")
	} else {
		evaluation.pass(1, "No secrets found in git history")
	}

	readmeContent, _ := readFirst(inspector, readmeCandidates...)
	if anyFileExists(inspector, configurationDocumentFiles...) || environmentMentionPattern.MatchString(readmeContent) {
		evaluation.pass(1, "Configuration is documented")
	} else {
		evaluation.warn("Configuration is not documented").
			improve("Document required environment configuration in SETUP.md or the README")
	}

	if len(searchEverywhere(executionContext, inspector, secretsManagerPattern)) > 0 {
		evaluation.pass(1, "Secrets manager integration detected")
	} else {
		evaluation.fail("No secrets manager integration").
			publicLaunch("No secrets manager; production secrets live in plain environment files")
		if profile.HandlesSecrets {
			evaluation.critical("Handles sensitive secrets without a secrets manager")
		}
	}

	return evaluation.result()
}
