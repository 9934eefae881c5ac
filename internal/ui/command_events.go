package ui

import (
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/readiness/internal/execshell"
)

const (
	gitGrepSubcommandConstant      = "grep"
	gitGrepNoMatchExitCodeConstant = 1
)

// ConsoleCommandEventLogger narrates inspector commands through a zap logger configured for console output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver. A content search without
// matches is an ordinary outcome and is not reported as a warning.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	switch {
	case result.ExitCode == 0:
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command))
	case isSearchWithoutMatches(command, result):
		eventLogger.logger.Info(eventLogger.formatter.BuildFailureMessage(command, result))
	default:
		eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
	}
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func isSearchWithoutMatches(command execshell.ShellCommand, result execshell.ExecutionResult) bool {
	arguments := command.Details.Arguments
	if command.Name != execshell.CommandGit || len(arguments) == 0 || arguments[0] != gitGrepSubcommandConstant {
		return false
	}
	return result.ExitCode == gitGrepNoMatchExitCodeConstant && len(strings.TrimSpace(result.StandardError)) == 0
}
