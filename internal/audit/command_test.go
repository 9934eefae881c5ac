package audit

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/readiness/internal/healthprobe"
	pathutils "github.com/temirov/readiness/internal/utils/path"
)

const (
	testRepositoryDirectoryConstant = "/workspace/storefront"
	testMissingDirectoryConstant    = "/workspace/missing"
)

type commandHarness struct {
	builder  *CommandBuilder
	renderer *recordingRenderer
	prober   *stubProber
	output   *bytes.Buffer
}

func newCommandHarness(testInstance *testing.T, configuration CommandConfiguration) commandHarness {
	testInstance.Helper()

	fileSystem := afero.NewMemMapFs()
	require.NoError(testInstance, fileSystem.MkdirAll(testRepositoryDirectoryConstant, 0o755))
	require.NoError(testInstance, afero.WriteFile(fileSystem, "/workspace/notes.txt", []byte("notes"), 0o644))

	renderer := &recordingRenderer{}
	prober := &stubProber{result: healthprobe.Result{Status: healthprobe.StatusCompleted, StatusCode: 200}}
	builder := &CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() CommandConfiguration { return configuration },
		Renderer:              renderer,
		Inspector:             wellPreparedRepository(true),
		Prober:                prober,
		FileSystem:            fileSystem,
		HomeExpander:          pathutils.NewHomeExpanderWithProvider(func() (string, error) { return "/workspace", nil }),
	}
	return commandHarness{builder: builder, renderer: renderer, prober: prober, output: &bytes.Buffer{}}
}

func (harness commandHarness) execute(testInstance *testing.T, arguments ...string) error {
	testInstance.Helper()

	command := harness.builder.Build()
	command.SetContext(context.Background())
	command.SetArgs(arguments)
	command.SetOut(harness.output)
	command.SetErr(&bytes.Buffer{})
	command.SilenceUsage = true
	command.SilenceErrors = true
	return command.Execute()
}

func TestAuditCommandRendersReportForConfiguredRepository(testInstance *testing.T) {
	configuration := DefaultCommandConfiguration()
	configuration.RepositoryPath = "~/storefront"
	configuration.DeploymentURL = testDeploymentURLConstant
	configuration.HandlesSecrets = "true"
	configuration.HandlesPII = "TRUE"

	harness := newCommandHarness(testInstance, configuration)
	require.NoError(testInstance, harness.execute(testInstance))

	require.Len(testInstance, harness.renderer.renderedReports, 1)
	report := harness.renderer.renderedReports[0]
	require.Equal(testInstance, testRepositoryDirectoryConstant, report.RepositoryPath)
	require.True(testInstance, report.Profile.HandlesSecrets)
	require.False(testInstance, report.Profile.HandlesPII)
	require.Equal(testInstance, []string{testDeploymentURLConstant}, harness.prober.probedURLs)
	require.Equal(testInstance, string(TierProductionReady), harness.output.String())
}

func TestAuditCommandBuildWithoutCollaborators(testInstance *testing.T) {
	command := (&CommandBuilder{}).Build()

	require.NotNil(testInstance, command)
	require.Equal(testInstance, commandNameConstant, command.Use)
	require.NotNil(testInstance, command.RunE)
	require.Error(testInstance, command.Args(command, []string{"extra"}))
	require.NoError(testInstance, command.Args(command, nil))
}

func TestAuditCommandFailures(testInstance *testing.T) {
	testCases := []struct {
		name          string
		path          string
		arguments     []string
		withRenderer  bool
		expectedError error
		expectedText  string
	}{
		{name: "missing_repository", path: testMissingDirectoryConstant, withRenderer: true, expectedError: pathutils.ErrRepositoryPathMissing},
		{name: "file_instead_of_directory", path: "/workspace/notes.txt", withRenderer: true, expectedError: pathutils.ErrRepositoryPathNotDirectory},
		{name: "unexpected_argument", path: testRepositoryDirectoryConstant, arguments: []string{"extra"}, withRenderer: true, expectedText: "unknown command"},
		{name: "renderer_missing", path: testRepositoryDirectoryConstant, expectedError: ErrRendererNotConfigured},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configuration := DefaultCommandConfiguration()
			configuration.RepositoryPath = testCase.path
			harness := newCommandHarness(testInstance, configuration)
			if !testCase.withRenderer {
				harness.builder.Renderer = nil
			}

			executionError := harness.execute(testInstance, testCase.arguments...)
			require.Error(testInstance, executionError)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, executionError, testCase.expectedError)
			}
			if len(testCase.expectedText) > 0 {
				require.ErrorContains(testInstance, executionError, testCase.expectedText)
			}
			require.Empty(testInstance, harness.renderer.renderedReports)
		})
	}
}
