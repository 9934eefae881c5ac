package gitrepo_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/readiness/internal/execshell"
	"github.com/temirov/readiness/internal/gitrepo"
)

const (
	gitRepositoryExecutableConstant = "git"
	gitRepositoryOriginURLConstant  = "https://github.com/acme/storefront.git"
	gitRepositoryOriginConstant     = "github.com/acme/storefront"
	gitRepositoryHandlerSource      = "export async function settle(debit, credit) {\n  try {\n    await prisma.$transaction([debit, credit]);\n  } catch (error) {\n    logger.error(error);\n  }\n}\n"
	gitRepositoryLoginSource        = "export const authenticate = (credentials) => sessions.start(credentials);\n"
	gitRepositorySmokeSource        = "describe('smoke', () => { it('answers on /healthz', async () => {}); });\n"
	gitRepositoryLeakedSource       = "const api_key = \"sk_live_51H\";\n"
	gitRepositoryEnvironmentContent = "DATABASE_URL=postgres://localhost/storefront\n"
)

// requireGit skips when git is unavailable and isolates the test from user and system git configuration.
func requireGit(testInstance *testing.T) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(gitRepositoryExecutableConstant); lookupError != nil {
		testInstance.Skip("git executable not available")
	}
	testInstance.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	testInstance.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	testInstance.Setenv("GIT_AUTHOR_NAME", "Readiness Test")
	testInstance.Setenv("GIT_AUTHOR_EMAIL", "readiness@example.com")
	testInstance.Setenv("GIT_COMMITTER_NAME", "Readiness Test")
	testInstance.Setenv("GIT_COMMITTER_EMAIL", "readiness@example.com")
}

func runGitCommand(testInstance *testing.T, repositoryPath string, arguments ...string) {
	testInstance.Helper()
	command := exec.Command(gitRepositoryExecutableConstant, append([]string{"-C", repositoryPath}, arguments...)...)
	command.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, runError := command.CombinedOutput()
	require.NoError(testInstance, runError, string(output))
}

func writeRepositoryFile(testInstance *testing.T, repositoryPath string, relativePath string, content []byte) {
	testInstance.Helper()
	absolutePath := filepath.Join(repositoryPath, relativePath)
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(absolutePath), 0o755))
	require.NoError(testInstance, os.WriteFile(absolutePath, content, 0o644))
}

func initializeRepository(testInstance *testing.T) string {
	testInstance.Helper()
	repositoryPath := testInstance.TempDir()
	testInstance.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(repositoryPath))
	runGitCommand(testInstance, repositoryPath, "init", "--quiet", "--initial-branch=main")
	return repositoryPath
}

func newGitBackedInspector(testInstance *testing.T, repositoryPath string) *gitrepo.Inspector {
	testInstance.Helper()
	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)
	return gitrepo.NewInspector(shellExecutor, afero.NewOsFs(), repositoryPath, zap.NewNop())
}

func TestInspectorAgainstGitRepository(testInstance *testing.T) {
	requireGit(testInstance)
	repositoryPath := initializeRepository(testInstance)

	writeRepositoryFile(testInstance, repositoryPath, ".gitignore", []byte("**/.env*\n"))
	writeRepositoryFile(testInstance, repositoryPath, "src/handler.js", []byte(gitRepositoryHandlerSource))
	writeRepositoryFile(testInstance, repositoryPath, "src/auth/login.ts", []byte(gitRepositoryLoginSource))
	writeRepositoryFile(testInstance, repositoryPath, "test/smoke.js", []byte(gitRepositorySmokeSource))
	writeRepositoryFile(testInstance, repositoryPath, "assets/logo.png", []byte("try {\x00\x89PNG\x00"))
	writeRepositoryFile(testInstance, repositoryPath, "config/keys.js", []byte(gitRepositoryLeakedSource))
	writeRepositoryFile(testInstance, repositoryPath, ".env", []byte(gitRepositoryEnvironmentContent))
	runGitCommand(testInstance, repositoryPath, "add", ".")
	runGitCommand(testInstance, repositoryPath, "commit", "--quiet", "-m", "initial storefront")
	runGitCommand(testInstance, repositoryPath, "rm", "--quiet", "config/keys.js")
	runGitCommand(testInstance, repositoryPath, "commit", "--quiet", "-m", "remove leaked key")
	runGitCommand(testInstance, repositoryPath, "remote", "add", "origin", gitRepositoryOriginURLConstant)

	inspector := newGitBackedInspector(testInstance, repositoryPath)
	executionContext := context.Background()

	require.True(testInstance, inspector.IsRepository(executionContext))

	testInstance.Run("list_tracked_files", func(testInstance *testing.T) {
		require.Equal(testInstance, []string{"src/auth/login.ts"}, inspector.ListTrackedFiles(executionContext, regexp.MustCompile(`(?i)(auth|login)`), "src"))

		allTracked := inspector.ListTrackedFiles(executionContext, nil, "")
		require.Contains(testInstance, allTracked, ".gitignore")
		require.Contains(testInstance, allTracked, "test/smoke.js")
		require.NotContains(testInstance, allTracked, ".env")
		require.NotContains(testInstance, allTracked, "config/keys.js")
	})

	testInstance.Run("search_content", func(testInstance *testing.T) {
		require.Equal(testInstance,
			[]string{"src/handler.js:  try {"},
			inspector.SearchContent(executionContext, gitrepo.ContentQuery{Pattern: `try[[:space:]]*\{`}),
		)
		require.Equal(testInstance,
			[]string{"src/handler.js:    await prisma.$transaction([debit, credit]);"},
			inspector.SearchContent(executionContext, gitrepo.ContentQuery{Pattern: `\$transaction`, Pathspecs: []string{"*.js"}}),
		)
		require.Equal(testInstance,
			[]string{"test/smoke.js:" + gitRepositorySmokeSource[:len(gitRepositorySmokeSource)-1]},
			inspector.SearchContent(executionContext, gitrepo.ContentQuery{Pattern: `(smoke|health)`, IgnoreCase: true, Pathspecs: []string{"*test/*"}}),
		)
		require.Len(testInstance, inspector.SearchContent(executionContext, gitrepo.ContentQuery{Pattern: "AUTHENTICATE", IgnoreCase: true}), 1)
		require.Empty(testInstance, inspector.SearchContent(executionContext, gitrepo.ContentQuery{Pattern: "AUTHENTICATE"}))
		require.Empty(testInstance, inspector.SearchContent(executionContext, gitrepo.ContentQuery{Pattern: `circuit.?breaker`}))
	})

	testInstance.Run("read_files", func(testInstance *testing.T) {
		require.True(testInstance, inspector.FileExists("src/handler.js"))
		content, found := inspector.ReadFile(".env")
		require.True(testInstance, found)
		require.Equal(testInstance, gitRepositoryEnvironmentContent, content)
		require.False(testInstance, inspector.FileExists("config/keys.js"))
	})

	testInstance.Run("history_and_remote", func(testInstance *testing.T) {
		require.True(testInstance, inspector.SecretsInHistory(executionContext))
		remote, found := inspector.OriginRemote(executionContext)
		require.True(testInstance, found)
		require.Equal(testInstance, gitRepositoryOriginConstant, remote.String())
		require.True(testInstance, inspector.IsIgnored(executionContext, ".env"))
	})
}

func TestInspectorIsIgnoredMatchesGitRules(testInstance *testing.T) {
	testCases := []struct {
		name             string
		gitignoreContent string
		trackEnvironment bool
		expectedIgnored  bool
	}{
		{name: "exact_entry", gitignoreContent: ".env\n", expectedIgnored: true},
		{name: "recursive_glob", gitignoreContent: "**/.env*\n", expectedIgnored: true},
		{name: "wildcard_around_name", gitignoreContent: "*.env*\n", expectedIgnored: true},
		{name: "negated_after_entry", gitignoreContent: ".env.*\n.env\n!.env\n", expectedIgnored: false},
		{name: "only_variants_listed", gitignoreContent: ".env.local\n", expectedIgnored: false},
		{name: "no_gitignore", expectedIgnored: false},
		{name: "tracked_despite_rule", gitignoreContent: ".env\n", trackEnvironment: true, expectedIgnored: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			requireGit(testInstance)
			repositoryPath := initializeRepository(testInstance)
			if len(testCase.gitignoreContent) > 0 {
				writeRepositoryFile(testInstance, repositoryPath, ".gitignore", []byte(testCase.gitignoreContent))
			}
			writeRepositoryFile(testInstance, repositoryPath, ".env", []byte(gitRepositoryEnvironmentContent))
			if testCase.trackEnvironment {
				runGitCommand(testInstance, repositoryPath, "add", "--force", ".env")
			}

			inspector := newGitBackedInspector(testInstance, repositoryPath)

			require.Equal(testInstance, testCase.expectedIgnored, inspector.IsIgnored(context.Background(), ".env"))
		})
	}
}

func TestInspectorOutsideRepositoryDegrades(testInstance *testing.T) {
	requireGit(testInstance)
	directoryPath := testInstance.TempDir()
	testInstance.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(directoryPath))
	writeRepositoryFile(testInstance, directoryPath, "src/handler.js", []byte(gitRepositoryHandlerSource))
	writeRepositoryFile(testInstance, directoryPath, ".gitignore", []byte(".env\n"))

	inspector := newGitBackedInspector(testInstance, directoryPath)
	executionContext := context.Background()

	require.False(testInstance, inspector.IsRepository(executionContext))
	require.Empty(testInstance, inspector.ListTrackedFiles(executionContext, nil, ""))
	require.Empty(testInstance, inspector.SearchContent(executionContext, gitrepo.ContentQuery{Pattern: `try[[:space:]]*\{`}))
	require.False(testInstance, inspector.SecretsInHistory(executionContext))
	require.False(testInstance, inspector.IsIgnored(executionContext, ".env"))
	_, remoteFound := inspector.OriginRemote(executionContext)
	require.False(testInstance, remoteFound)
	require.True(testInstance, inspector.FileExists("src/handler.js"))
}
