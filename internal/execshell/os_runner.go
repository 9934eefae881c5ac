package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
)

const (
	environmentAssignmentTemplateConstant = "%s=%s"
	executableNotFoundTemplateConstant    = "%s executable not found: %w"
)

// nonInteractiveEnvironment keeps git from paging output or prompting for credentials.
var nonInteractiveEnvironment = map[string]string{
	"GIT_TERMINAL_PROMPT": "0",
	"GIT_PAGER":           "cat",
	"LC_ALL":              "C",
}

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes the supplied command without an intermediate shell; arguments reach the process verbatim.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executablePath, lookupError := exec.LookPath(string(command.Name))
	if lookupError != nil {
		return ExecutionResult{}, fmt.Errorf(executableNotFoundTemplateConstant, command.Name, lookupError)
	}

	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, executablePath, commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}
	executable.Env = mergeEnvironment(os.Environ(), nonInteractiveEnvironment, command.Details.EnvironmentVariables)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) && executionContext.Err() == nil {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

// mergeEnvironment appends overrides after the inherited environment; later entries win in os/exec.
func mergeEnvironment(inherited []string, overrideSets ...map[string]string) []string {
	merged := append([]string{}, inherited...)
	for _, overrides := range overrideSets {
		keys := make([]string, 0, len(overrides))
		for key := range overrides {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			merged = append(merged, fmt.Sprintf(environmentAssignmentTemplateConstant, key, overrides[key]))
		}
	}
	return merged
}
