package audit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"regexp"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/readiness/internal/execshell"
	"github.com/temirov/readiness/internal/gitrepo"
	"github.com/temirov/readiness/internal/healthprobe"
)

// ErrRendererNotConfigured indicates the command was built without a report renderer.
var ErrRendererNotConfigured = errors.New("report renderer not configured")

// RepositoryInspector exposes the read-only repository queries the category checks rely on.
type RepositoryInspector interface {
	IsRepository(executionContext context.Context) bool
	ListTrackedFiles(executionContext context.Context, pathPattern *regexp.Regexp, scope string) []string
	SearchContent(executionContext context.Context, query gitrepo.ContentQuery) []string
	FileExists(relativePath string) bool
	ReadFile(relativePath string) (string, bool)
	SecretsInHistory(executionContext context.Context) bool
	IsIgnored(executionContext context.Context, relativePath string) bool
	OriginRemote(executionContext context.Context) (gitrepo.RemoteURL, bool)
}

// RuntimeProber checks a live deployment.
type RuntimeProber interface {
	Probe(executionContext context.Context, deploymentURL string) healthprobe.Result
}

// Renderer writes a report.
type Renderer interface {
	Render(writer io.Writer, report Report) error
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, observers ...execshell.CommandEventObserver) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), observers...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryInspector returns the provided inspector or a git-backed one rooted at repositoryPath.
func ResolveRepositoryInspector(existing RepositoryInspector, executor gitrepo.GitExecutor, fileSystem afero.Fs, repositoryPath string, logger *zap.Logger) RepositoryInspector {
	if existing != nil {
		return existing
	}
	return gitrepo.NewInspector(executor, fileSystem, repositoryPath, logger)
}

// ResolveRuntimeProber returns the provided prober or an HTTP-backed default.
func ResolveRuntimeProber(existing RuntimeProber, logger *zap.Logger) RuntimeProber {
	if existing != nil {
		return existing
	}
	return healthprobe.NewProber(http.DefaultClient, healthprobe.SystemClock{}, logger)
}
