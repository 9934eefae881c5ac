package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	allTrackedPathsLabelConstant            = "all tracked paths"
	pathspecSeparatorArgumentConstant       = "--"
	singleQuoteConstant                     = "'"
	escapedSingleQuoteConstant              = `'\''`
	shellSafeCharactersConstant             = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_./=:@,+"
)

const (
	gitListFilesSubcommandNameConstant = "ls-files"
	gitGrepSubcommandNameConstant      = "grep"
	gitLogSubcommandNameConstant       = "log"
	gitRevParseSubcommandNameConstant  = "rev-parse"
	gitPatternFlagConstant             = "-e"
	gitHistoryRegexFlagConstant        = "-G"
)

const (
	gitListFilesStartTemplateConstant            = "Listing tracked files under %s in %s"
	gitListFilesSuccessTemplateConstant          = "Listed tracked files under %s in %s"
	gitListFilesFailureTemplateConstant          = "Failed to list tracked files under %s in %s (exit code %d%s)"
	gitListFilesExecutionFailureTemplateConstant = "Unable to list tracked files under %s in %s: %s"
	gitGrepStartTemplateConstant                 = "Searching %s for %s in %s"
	gitGrepSuccessTemplateConstant               = "Found matches for %s in %s"
	gitGrepNoMatchTemplateConstant               = "No matches for %s in %s"
	gitGrepFailureTemplateConstant               = "Failed to search for %s in %s (exit code %d%s)"
	gitGrepExecutionFailureTemplateConstant      = "Unable to search for %s in %s: %s"
	gitHistoryStartTemplateConstant              = "Scanning commit history of %s for %s"
	gitHistorySuccessTemplateConstant            = "Scanned commit history of %s for %s"
	gitHistoryFailureTemplateConstant            = "Failed to scan commit history of %s for %s (exit code %d%s)"
	gitHistoryExecutionFailureTemplateConstant   = "Unable to scan commit history of %s for %s: %s"
	gitWorkTreeStartTemplateConstant             = "Analyzing repository at %s"
	gitWorkTreeSuccessTemplateConstant           = "%s is a Git repository"
	gitWorkTreeFailureTemplateConstant           = "Could not confirm %s is a Git repository (exit code %d%s)"
	gitWorkTreeExecutionFailureTemplateConstant  = "Could not analyze %s: %s"
	gitGrepNoMatchExitCodeConstant               = 1
)

// QuoteArgument renders a value so a POSIX shell would read it back verbatim:
// the value is wrapped in single quotes and embedded single quotes become '\”.
// Values made only of shell-safe characters are returned unchanged.
func QuoteArgument(value string) string {
	if len(value) > 0 && strings.Trim(value, shellSafeCharactersConstant) == emptyStringConstant {
		return value
	}
	return singleQuoteConstant + strings.ReplaceAll(value, singleQuoteConstant, escapedSingleQuoteConstant) + singleQuoteConstant
}

// QuoteArguments applies QuoteArgument to every value and joins them with spaces.
func QuoteArguments(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, QuoteArgument(value))
	}
	return strings.Join(quoted, commandArgumentsJoinSeparatorConstant)
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage describes a command that exited with code zero.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage describes a command that exited with a non-zero code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage describes a command that could not be executed.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

// FormatCommandLabel renders the command as a copy-pasteable shell line with its working directory.
func (formatter CommandMessageFormatter) FormatCommandLabel(command ShellCommand) string {
	commandParts := []string{QuoteArgument(string(command.Name))}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, QuoteArguments(command.Details.Arguments))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGit {
		if message := formatter.describeGitMessage(command, result, failure, stage); len(message) > 0 {
			return message
		}
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return emptyStringConstant
	}

	switch arguments[0] {
	case gitListFilesSubcommandNameConstant:
		return formatter.describeGitListFilesMessage(command, result, failure, stage)
	case gitGrepSubcommandNameConstant:
		return formatter.describeGitGrepMessage(command, result, failure, stage)
	case gitLogSubcommandNameConstant:
		return formatter.describeGitHistoryMessage(command, result, failure, stage)
	case gitRevParseSubcommandNameConstant:
		return formatter.describeGitWorkTreeMessage(command, result, failure, stage)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeGitListFilesMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	scope := formatter.describePathspecs(command.Details.Arguments)
	directory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitListFilesStartTemplateConstant, scope, directory)
	case messageStageSuccess:
		return fmt.Sprintf(gitListFilesSuccessTemplateConstant, scope, directory)
	case messageStageFailure:
		return fmt.Sprintf(gitListFilesFailureTemplateConstant, scope, directory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitListFilesExecutionFailureTemplateConstant, scope, directory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitGrepMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	pattern := QuoteArgument(findFlagValue(command.Details.Arguments, gitPatternFlagConstant))
	scope := formatter.describePathspecs(command.Details.Arguments)
	directory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitGrepStartTemplateConstant, scope, pattern, directory)
	case messageStageSuccess:
		return fmt.Sprintf(gitGrepSuccessTemplateConstant, pattern, directory)
	case messageStageFailure:
		if result.ExitCode == gitGrepNoMatchExitCodeConstant && len(strings.TrimSpace(result.StandardError)) == 0 {
			return fmt.Sprintf(gitGrepNoMatchTemplateConstant, pattern, directory)
		}
		return fmt.Sprintf(gitGrepFailureTemplateConstant, pattern, directory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitGrepExecutionFailureTemplateConstant, pattern, directory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitHistoryMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	keyword := QuoteArgument(findFlagValue(command.Details.Arguments, gitHistoryRegexFlagConstant))
	directory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitHistoryStartTemplateConstant, directory, keyword)
	case messageStageSuccess:
		return fmt.Sprintf(gitHistorySuccessTemplateConstant, directory, keyword)
	case messageStageFailure:
		return fmt.Sprintf(gitHistoryFailureTemplateConstant, directory, keyword, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitHistoryExecutionFailureTemplateConstant, directory, keyword, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitWorkTreeMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	directory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitWorkTreeStartTemplateConstant, directory)
	case messageStageSuccess:
		return fmt.Sprintf(gitWorkTreeSuccessTemplateConstant, directory)
	case messageStageFailure:
		return fmt.Sprintf(gitWorkTreeFailureTemplateConstant, directory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitWorkTreeExecutionFailureTemplateConstant, directory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	label := formatter.FormatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, label)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, label)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, label, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, label, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

// describePathspecs returns the quoted arguments following "--", or a label when none are present.
func (formatter CommandMessageFormatter) describePathspecs(arguments []string) string {
	for index, argument := range arguments {
		if argument != pathspecSeparatorArgumentConstant {
			continue
		}
		pathspecs := arguments[index+1:]
		if len(pathspecs) == 0 {
			break
		}
		return QuoteArguments(pathspecs)
	}
	return allTrackedPathsLabelConstant
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments)-1; index++ {
		if arguments[index] == flag {
			return arguments[index+1]
		}
	}
	return emptyStringConstant
}
