package audit

import "strings"

const (
	repositoryPathKeyConstant     = "repository_path"
	deploymentURLKeyConstant      = "deployment_url"
	intendedAudienceKeyConstant   = "intended_audience"
	handlesPIIKeyConstant         = "handles_pii"
	handlesPaymentsKeyConstant    = "handles_payments"
	handlesSecretsKeyConstant     = "handles_secrets"
	configurationKeySeparator     = "."
	defaultRepositoryPathConstant = "."
	falseLiteralConstant          = "false"
)

// CommandConfiguration captures the audit settings. Risk flags stay strings because only the
// literal "true" enables them.
type CommandConfiguration struct {
	RepositoryPath   string `mapstructure:"repository_path"`
	DeploymentURL    string `mapstructure:"deployment_url"`
	IntendedAudience string `mapstructure:"intended_audience"`
	HandlesPII       string `mapstructure:"handles_pii"`
	HandlesPayments  string `mapstructure:"handles_payments"`
	HandlesSecrets   string `mapstructure:"handles_secrets"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RepositoryPath:  defaultRepositoryPathConstant,
		HandlesPII:      falseLiteralConstant,
		HandlesPayments: falseLiteralConstant,
		HandlesSecrets:  falseLiteralConstant,
	}
}

// DefaultConfigurationValues returns the defaults keyed under prefix for the configuration loader.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		qualifyKey(prefix, repositoryPathKeyConstant):   defaults.RepositoryPath,
		qualifyKey(prefix, deploymentURLKeyConstant):    defaults.DeploymentURL,
		qualifyKey(prefix, intendedAudienceKeyConstant): defaults.IntendedAudience,
		qualifyKey(prefix, handlesPIIKeyConstant):       defaults.HandlesPII,
		qualifyKey(prefix, handlesPaymentsKeyConstant):  defaults.HandlesPayments,
		qualifyKey(prefix, handlesSecretsKeyConstant):   defaults.HandlesSecrets,
	}
}

// EnvironmentBindings maps each configuration key under prefix to its unprefixed environment variable.
func EnvironmentBindings(prefix string) map[string][]string {
	return map[string][]string{
		qualifyKey(prefix, repositoryPathKeyConstant):   {"REPOSITORY_PATH"},
		qualifyKey(prefix, deploymentURLKeyConstant):    {"DEPLOYMENT_URL"},
		qualifyKey(prefix, intendedAudienceKeyConstant): {"INTENDED_AUDIENCE"},
		qualifyKey(prefix, handlesPIIKeyConstant):       {"HANDLES_PII"},
		qualifyKey(prefix, handlesPaymentsKeyConstant):  {"HANDLES_PAYMENTS"},
		qualifyKey(prefix, handlesSecretsKeyConstant):   {"HANDLES_SECRETS"},
	}
}

// CommandOptions converts the configuration into resolved run options.
func (configuration CommandConfiguration) CommandOptions() CommandOptions {
	repositoryPath := strings.TrimSpace(configuration.RepositoryPath)
	if len(repositoryPath) == 0 {
		repositoryPath = defaultRepositoryPathConstant
	}
	return CommandOptions{
		RepositoryPath: repositoryPath,
		DeploymentURL:  strings.TrimSpace(configuration.DeploymentURL),
		Profile: RiskProfile{
			IntendedAudience: strings.TrimSpace(configuration.IntendedAudience),
			HandlesPII:       isEnabledFlag(configuration.HandlesPII),
			HandlesPayments:  isEnabledFlag(configuration.HandlesPayments),
			HandlesSecrets:   isEnabledFlag(configuration.HandlesSecrets),
		},
	}
}

func qualifyKey(prefix string, key string) string {
	if len(prefix) == 0 {
		return key
	}
	return prefix + configurationKeySeparator + key
}
