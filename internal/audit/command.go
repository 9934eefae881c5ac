package audit

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/readiness/internal/execshell"
	"github.com/temirov/readiness/internal/gitrepo"
	"github.com/temirov/readiness/internal/ui"
	pathutils "github.com/temirov/readiness/internal/utils/path"
)

const (
	commandNameConstant     = "audit"
	commandShortDescription = "Score a repository's production readiness"
	commandLongDescription  = "audit inspects the tracked files and history of a git repository, scores it across ten readiness categories, optionally probes a live deployment, and prints a readiness report.\n\nConfiguration comes from the environment: REPOSITORY_PATH, DEPLOYMENT_URL, INTENDED_AUDIENCE, HANDLES_PII, HANDLES_PAYMENTS, and HANDLES_SECRETS (only the literal \"true\" enables a flag)."
	logMessageAuditStarted  = "starting readiness audit"
	logFieldDeploymentURL   = "deployment_url"
	logFieldHandlesPII      = "handles_pii"
	logFieldHandlesPayments = "handles_payments"
	logFieldHandlesSecrets  = "handles_secrets"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the loaded audit configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the audit cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	Renderer                     Renderer
	GitExecutor                  gitrepo.GitExecutor
	Inspector                    RepositoryInspector
	Prober                       RuntimeProber
	FileSystem                   afero.Fs
	HomeExpander                 *pathutils.HomeExpander
}

// Build constructs the cobra command for the readiness audit.
func (builder *CommandBuilder) Build() *cobra.Command {
	return &cobra.Command{
		Use:   commandNameConstant,
		Short: commandShortDescription,
		Long:  commandLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if builder.Renderer == nil {
		return ErrRendererNotConfigured
	}

	logger := builder.resolveLogger()
	options := builder.resolveConfiguration().CommandOptions()

	repositoryPath, resolveError := pathutils.NewRepositoryPathResolver(builder.FileSystem, builder.HomeExpander).Resolve(options.RepositoryPath)
	if resolveError != nil {
		return resolveError
	}
	options.RepositoryPath = repositoryPath

	logger.Info(
		logMessageAuditStarted,
		zap.String(logFieldRepositoryPath, options.RepositoryPath),
		zap.String(logFieldDeploymentURL, options.DeploymentURL),
		zap.Bool(logFieldHandlesPII, options.Profile.HandlesPII),
		zap.Bool(logFieldHandlesPayments, options.Profile.HandlesPayments),
		zap.Bool(logFieldHandlesSecrets, options.Profile.HandlesSecrets),
	)

	gitExecutor, executorError := ResolveGitExecutor(builder.GitExecutor, logger, builder.commandObservers(logger)...)
	if executorError != nil {
		return executorError
	}

	inspector := ResolveRepositoryInspector(builder.Inspector, gitExecutor, builder.FileSystem, options.RepositoryPath, logger)
	prober := ResolveRuntimeProber(builder.Prober, logger)

	service := NewService(inspector, prober, builder.Renderer, nil, logger)
	return service.Run(command.Context(), options, command.OutOrStdout())
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) commandObservers(logger *zap.Logger) []execshell.CommandEventObserver {
	if builder.HumanReadableLoggingProvider == nil || !builder.HumanReadableLoggingProvider() {
		return nil
	}
	return []execshell.CommandEventObserver{ui.NewConsoleCommandEventLogger(logger)}
}
