package audit

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	pipelineFilePattern       = regexp.MustCompile(`^(\.github/workflows/[^/]+\.ya?ml|\.gitlab-ci\.ya?ml|\.circleci/config\.ya?ml|Jenkinsfile|azure-pipelines\.ya?ml|bitbucket-pipelines\.ya?ml|\.travis\.ya?ml|\.drone\.ya?ml|\.buildkite/[^/]+\.ya?ml)$`)
	deploymentArtifactPattern = regexp.MustCompile(`(?i)((^|/)(Dockerfile[^/]*|docker-compose[^/]*\.ya?ml|compose\.ya?ml|Chart\.yaml|serverless\.ya?ml|fly\.toml|render\.yaml|vercel\.json|netlify\.toml|app\.yaml|Procfile)$|\.tf$|(^|/)(k8s|kubernetes|helm|terraform)/)`)
	pipelineTestPattern       = regexp.MustCompile(`(?i)(\btest\b|\btests\b|jest|vitest|pytest|mocha|rspec|phpunit|cypress|playwright|go test)`)
	pipelineLintPattern       = regexp.MustCompile(`(?i)(lint|eslint|golangci|flake8|ruff|rubocop|pylint|prettier|go vet|stylelint)`)
	pipelineDeployPattern     = regexp.MustCompile(`(?i)(deploy|release|publish|vercel|netlify|heroku|flyctl|kubectl|helm |terraform apply|docker push|gcloud|aws )`)
	pipelineCommandKeys       = map[string]struct{}{
		"run":           {},
		"script":        {},
		"before_script": {},
		"after_script":  {},
		"command":       {},
		"commands":      {},
		"uses":          {},
	}
)

func checkContinuousDelivery(executionContext context.Context, inspector RepositoryInspector, profile RiskProfile) CheckResult {
	evaluation := newCategoryEvaluation(CategoryContinuousDelivery)

	pipelineFiles := inspector.ListTrackedFiles(executionContext, pipelineFilePattern, "")
	if len(pipelineFiles) > 0 {
		evaluation.pass(1, fmt.Sprintf("CI pipeline configured (%d files)", len(pipelineFiles)))
	} else {
		evaluation.fail("No CI pipeline configured").
			critical("No CI pipeline configured")
	}

	pipelineCommands := collectPipelineCommands(inspector, pipelineFiles)

	if pipelineTestPattern.MatchString(pipelineCommands) {
		evaluation.pass(1, "CI runs automated tests")
	} else {
		evaluation.fail("CI does not run tests").
			publicLaunch("CI does not run the test suite; regressions ship unnoticed")
	}

	if pipelineLintPattern.MatchString(pipelineCommands) {
		evaluation.pass(1, "CI runs linting")
	} else {
		evaluation.warn("CI does not run linting").
			improve("Run a linter in CI")
	}

	if pipelineDeployPattern.MatchString(pipelineCommands) {
		evaluation.pass(1, "Deployment is automated")
	} else {
		evaluation.warn("No automated deployment").
			improve("Automate deployment from the main branch")
	}

	if len(inspector.ListTrackedFiles(executionContext, deploymentArtifactPattern, "")) > 0 {
		evaluation.pass(1, "Container or infrastructure definition present")
	} else {
		evaluation.warn("No container or infrastructure-as-code definition").
			improve("Describe the runtime with a Dockerfile or infrastructure-as-code")
	}

	return evaluation.result()
}

// collectPipelineCommands returns the commands declared in the pipeline files, one per line.
// Files that are not YAML, or do not parse, contribute their raw text.
func collectPipelineCommands(inspector RepositoryInspector, pipelineFiles []string) string {
	var commands strings.Builder
	for _, pipelineFile := range pipelineFiles {
		content, found := inspector.ReadFile(pipelineFile)
		if !found {
			continue
		}
		var document any
		isYAML := strings.HasSuffix(pipelineFile, ".yml") || strings.HasSuffix(pipelineFile, ".yaml")
		if !isYAML || yaml.Unmarshal([]byte(content), &document) != nil {
			commands.WriteString(content)
			commands.WriteString("\n")
			continue
		}
		for _, command := range extractCommands(document, false) {
			commands.WriteString(command)
			commands.WriteString("\n")
		}
	}
	return commands.String()
}

// extractCommands walks a decoded YAML document. Strings are collected only beneath command keys.
func extractCommands(node any, underCommandKey bool) []string {
	switch typedNode := node.(type) {
	case map[string]any:
		commands := make([]string, 0)
		for key, value := range typedNode {
			_, isCommandKey := pipelineCommandKeys[key]
			commands = append(commands, extractCommands(value, isCommandKey)...)
		}
		return commands
	case map[any]any:
		commands := make([]string, 0)
		for key, value := range typedNode {
			_, isCommandKey := pipelineCommandKeys[fmt.Sprint(key)]
			commands = append(commands, extractCommands(value, isCommandKey)...)
		}
		return commands
	case []any:
		commands := make([]string, 0)
		for _, item := range typedNode {
			commands = append(commands, extractCommands(item, underCommandKey)...)
		}
		return commands
	case string:
		if underCommandKey {
			return []string{typedNode}
		}
	}
	return nil
}
