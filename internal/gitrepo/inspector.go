package gitrepo

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/readiness/internal/execshell"
)

const (
	// MaximumTrackedFileResults caps ListTrackedFiles.
	MaximumTrackedFileResults = 100
	// MaximumContentSearchResults caps SearchContent.
	MaximumContentSearchResults = 50

	gitListFilesCommandConstant         = "ls-files"
	gitNullTerminatedFlagConstant       = "-z"
	gitGrepCommandConstant              = "grep"
	gitSkipBinaryFlagConstant           = "-I"
	gitExtendedRegexFlagConstant        = "-E"
	gitIgnoreCaseFlagConstant           = "-i"
	gitPatternFlagConstant              = "-e"
	gitPathspecSeparatorConstant        = "--"
	gitLogCommandConstant               = "log"
	gitAllReferencesFlagConstant        = "--all"
	gitOnelineFlagConstant              = "--oneline"
	gitDiffRegexFlagConstant            = "-G"
	gitMaximumCountFlagConstant         = "-n"
	gitSingleResultConstant             = "1"
	gitRevParseCommandConstant          = "rev-parse"
	gitInsideWorkTreeFlagConstant       = "--is-inside-work-tree"
	gitRemoteCommandConstant            = "remote"
	gitCheckIgnoreCommandConstant       = "check-ignore"
	gitQuietFlagConstant                = "-q"
	gitGetURLSubcommandConstant         = "get-url"
	gitOriginRemoteNameConstant         = "origin"
	gitTrueOutputConstant               = "true"
	gitNoMatchExitCodeConstant          = 1
	nullSeparatorConstant               = "\x00"
	newlineSeparatorConstant            = "\n"
	logMessageListFailedConstant        = "tracked file listing unavailable"
	logMessageSearchFailedConstant      = "content search unavailable"
	logMessageHistoryFailedConstant     = "history scan unavailable"
	logMessageRemoteUnavailableConstant = "origin remote unavailable"
	logMessageReadFailedConstant        = "file read failed"
	logFieldScopeConstant               = "scope"
	logFieldPatternConstant             = "pattern"
	logFieldKeywordConstant             = "keyword"
	logFieldPathConstant                = "path"
)

// HistorySecretKeywords are searched case-insensitively across every commit diff reachable from any ref.
var HistorySecretKeywords = []string{"password", "secret", "api_key", "private_key"}

// GitExecutor runs git subcommands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ContentQuery describes a git grep invocation. Pattern is a POSIX extended regular expression;
// Pathspecs limit the search to matching tracked files and an empty list searches everything.
type ContentQuery struct {
	Pattern    string
	IgnoreCase bool
	Pathspecs  []string
}

// Inspector answers questions about the tracked content of one repository.
type Inspector struct {
	executor       GitExecutor
	fileSystem     afero.Fs
	repositoryRoot string
	logger         *zap.Logger
}

// NewInspector constructs an Inspector rooted at repositoryRoot. File reads go through
// fileSystem confined to the repository root; a nil fileSystem uses the OS filesystem.
func NewInspector(executor GitExecutor, fileSystem afero.Fs, repositoryRoot string, logger *zap.Logger) *Inspector {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{
		executor:       executor,
		fileSystem:     afero.NewReadOnlyFs(afero.NewBasePathFs(fileSystem, repositoryRoot)),
		repositoryRoot: repositoryRoot,
		logger:         logger,
	}
}

// RepositoryRoot reports the directory the inspector operates on.
func (inspector *Inspector) RepositoryRoot() string {
	return inspector.repositoryRoot
}

// IsRepository reports whether the root sits inside a git work tree.
func (inspector *Inspector) IsRepository(executionContext context.Context) bool {
	output, ok := inspector.runGit(executionContext, []string{gitRevParseCommandConstant, gitInsideWorkTreeFlagConstant})
	return ok && strings.TrimSpace(output) == gitTrueOutputConstant
}

// ListTrackedFiles returns tracked paths under scope (all paths when empty) matching pathPattern,
// in git's listing order, capped at MaximumTrackedFileResults.
func (inspector *Inspector) ListTrackedFiles(executionContext context.Context, pathPattern *regexp.Regexp, scope string) []string {
	arguments := []string{gitListFilesCommandConstant, gitNullTerminatedFlagConstant}
	if trimmedScope := strings.TrimSpace(scope); len(trimmedScope) > 0 {
		arguments = append(arguments, gitPathspecSeparatorConstant, trimmedScope)
	}

	output, ok := inspector.runGit(executionContext, arguments)
	if !ok {
		inspector.logger.Debug(logMessageListFailedConstant, zap.String(logFieldScopeConstant, scope))
		return nil
	}

	matches := make([]string, 0)
	for _, trackedPath := range strings.Split(output, nullSeparatorConstant) {
		if len(trackedPath) == 0 {
			continue
		}
		if pathPattern != nil && !pathPattern.MatchString(trackedPath) {
			continue
		}
		matches = append(matches, trackedPath)
		if len(matches) == MaximumTrackedFileResults {
			break
		}
	}
	return matches
}

// SearchContent returns "path:line" entries for tracked text files matching the query,
// capped at MaximumContentSearchResults. No match and any failure both yield an empty slice.
func (inspector *Inspector) SearchContent(executionContext context.Context, query ContentQuery) []string {
	arguments := []string{gitGrepCommandConstant, gitSkipBinaryFlagConstant, gitExtendedRegexFlagConstant}
	if query.IgnoreCase {
		arguments = append(arguments, gitIgnoreCaseFlagConstant)
	}
	arguments = append(arguments, gitPatternFlagConstant, query.Pattern)
	if len(query.Pathspecs) > 0 {
		arguments = append(arguments, gitPathspecSeparatorConstant)
		arguments = append(arguments, query.Pathspecs...)
	}

	output, ok := inspector.runGit(executionContext, arguments)
	if !ok {
		inspector.logger.Debug(logMessageSearchFailedConstant, zap.String(logFieldPatternConstant, query.Pattern))
		return nil
	}
	return splitLines(output, MaximumContentSearchResults)
}

// FileExists reports whether relativePath exists under the repository root.
func (inspector *Inspector) FileExists(relativePath string) bool {
	exists, existsError := afero.Exists(inspector.fileSystem, relativePath)
	return existsError == nil && exists
}

// ReadFile returns the content of relativePath. Missing and unreadable files both report false.
func (inspector *Inspector) ReadFile(relativePath string) (string, bool) {
	content, readError := afero.ReadFile(inspector.fileSystem, relativePath)
	if readError != nil {
		inspector.logger.Debug(logMessageReadFailedConstant, zap.String(logFieldPathConstant, relativePath), zap.Error(readError))
		return "", false
	}
	return string(content), true
}

// SecretsInHistory reports whether any commit diff adds or removes a line mentioning a secret keyword.
// Keywords are checked in order and the scan stops at the first hit.
func (inspector *Inspector) SecretsInHistory(executionContext context.Context) bool {
	for _, keyword := range HistorySecretKeywords {
		output, ok := inspector.runGit(executionContext, []string{
			gitLogCommandConstant,
			gitAllReferencesFlagConstant,
			gitOnelineFlagConstant,
			gitIgnoreCaseFlagConstant,
			gitDiffRegexFlagConstant, keyword,
			gitMaximumCountFlagConstant, gitSingleResultConstant,
		})
		if !ok {
			inspector.logger.Debug(logMessageHistoryFailedConstant, zap.String(logFieldKeywordConstant, keyword))
			continue
		}
		if len(strings.TrimSpace(output)) > 0 {
			return true
		}
	}
	return false
}

// IsIgnored reports whether git's ignore rules exclude relativePath. Negations, globs, nested
// .gitignore files and the global excludes file all apply; a tracked path is never ignored.
// Exit status 1 (not ignored) and any failure both report false.
func (inspector *Inspector) IsIgnored(executionContext context.Context, relativePath string) bool {
	_, ok := inspector.runGit(executionContext, []string{
		gitCheckIgnoreCommandConstant,
		gitQuietFlagConstant,
		gitPathspecSeparatorConstant,
		relativePath,
	})
	return ok
}

// OriginRemote parses the URL of the origin remote.
func (inspector *Inspector) OriginRemote(executionContext context.Context) (RemoteURL, bool) {
	output, ok := inspector.runGit(executionContext, []string{gitRemoteCommandConstant, gitGetURLSubcommandConstant, gitOriginRemoteNameConstant})
	if !ok {
		return RemoteURL{}, false
	}
	remote, parseError := ParseRemoteURL(output)
	if parseError != nil {
		inspector.logger.Debug(logMessageRemoteUnavailableConstant, zap.Error(parseError))
		return RemoteURL{}, false
	}
	return remote, true
}

// runGit executes git in the repository root. A grep exit code of 1 (no match) is a successful empty result.
func (inspector *Inspector) runGit(executionContext context.Context, arguments []string) (string, bool) {
	if inspector.executor == nil {
		return "", false
	}

	result, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: inspector.repositoryRoot,
	})
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) && failedError.Result.ExitCode == gitNoMatchExitCodeConstant && arguments[0] == gitGrepCommandConstant {
			return "", true
		}
		return "", false
	}
	return result.StandardOutput, true
}

func splitLines(output string, limit int) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(output, newlineSeparatorConstant) {
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		lines = append(lines, line)
		if len(lines) == limit {
			break
		}
	}
	return lines
}
