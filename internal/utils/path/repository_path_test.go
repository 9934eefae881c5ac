package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/readiness/internal/utils/path"
)

const (
	testHomeDirectoryConstant       = "/home/auditor"
	testRepositoryDirectoryConstant = "/home/auditor/projects/storefront"
	testRegularFileConstant         = "/home/auditor/projects/notes.txt"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare_tilde", input: "~", expected: testHomeDirectoryConstant},
		{name: "tilde_prefix", input: "~/projects/storefront", expected: testRepositoryDirectoryConstant},
		{name: "absolute", input: "/srv/app", expected: "/srv/app"},
		{name: "other_user", input: "~operator/app", expected: "~operator/app"},
		{name: "empty", input: "", expected: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, expander.Expand(testCase.input))
		})
	}
}

func TestHomeExpanderLeavesPathWhenLookupFails(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})
	require.Equal(testInstance, "~/projects", expander.Expand("~/projects"))
}

func TestRepositoryPathResolverResolve(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	require.NoError(testInstance, fileSystem.MkdirAll(testRepositoryDirectoryConstant, 0o755))
	require.NoError(testInstance, afero.WriteFile(fileSystem, testRegularFileConstant, []byte("notes"), 0o644))

	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})
	resolver := pathutils.NewRepositoryPathResolver(fileSystem, expander)

	testCases := []struct {
		name          string
		input         string
		expectedPath  string
		expectedError error
	}{
		{name: "tilde_directory", input: "  ~/projects/storefront ", expectedPath: testRepositoryDirectoryConstant},
		{name: "absolute_directory", input: testRepositoryDirectoryConstant, expectedPath: testRepositoryDirectoryConstant},
		{name: "missing_directory", input: "/home/auditor/projects/absent", expectedError: pathutils.ErrRepositoryPathMissing},
		{name: "regular_file", input: testRegularFileConstant, expectedError: pathutils.ErrRepositoryPathNotDirectory},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedPath, resolveError := resolver.Resolve(testCase.input)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, resolveError, testCase.expectedError)
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, filepath.Clean(testCase.expectedPath), resolvedPath)
		})
	}
}
