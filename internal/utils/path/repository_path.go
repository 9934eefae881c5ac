package pathutils

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	repositoryPathMissingTemplateConstant      = "repository path %s does not exist"
	repositoryPathNotDirectoryTemplateConstant = "repository path %s is not a directory"
	repositoryPathInspectTemplateConstant      = "unable to inspect repository path %s: %w"
	repositoryPathAbsoluteTemplateConstant     = "unable to resolve repository path %s: %w"
	currentDirectoryPathConstant               = "."
)

// ErrRepositoryPathMissing indicates the repository path does not exist.
var ErrRepositoryPathMissing = errors.New("repository path missing")

// ErrRepositoryPathNotDirectory indicates the repository path names a regular file.
var ErrRepositoryPathNotDirectory = errors.New("repository path is not a directory")

// RepositoryPathResolver turns a user supplied repository path into a validated absolute directory.
type RepositoryPathResolver struct {
	fileSystem   afero.Fs
	homeExpander *HomeExpander
}

// NewRepositoryPathResolver constructs a resolver. Nil collaborators fall back to the OS filesystem and home directory.
func NewRepositoryPathResolver(fileSystem afero.Fs, homeExpander *HomeExpander) *RepositoryPathResolver {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &RepositoryPathResolver{fileSystem: fileSystem, homeExpander: homeExpander}
}

// Resolve trims and expands the candidate, makes it absolute, and verifies it names a directory.
// An empty candidate resolves to the current working directory.
func (resolver *RepositoryPathResolver) Resolve(candidatePath string) (string, error) {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		trimmedPath = currentDirectoryPathConstant
	}

	absolutePath, absoluteError := filepath.Abs(resolver.homeExpander.Expand(trimmedPath))
	if absoluteError != nil {
		return "", fmt.Errorf(repositoryPathAbsoluteTemplateConstant, trimmedPath, absoluteError)
	}

	fileInfo, statError := resolver.fileSystem.Stat(absolutePath)
	if statError != nil {
		exists, existsError := afero.Exists(resolver.fileSystem, absolutePath)
		if existsError == nil && !exists {
			return "", fmt.Errorf("%w: "+repositoryPathMissingTemplateConstant, ErrRepositoryPathMissing, absolutePath)
		}
		return "", fmt.Errorf(repositoryPathInspectTemplateConstant, absolutePath, statError)
	}
	if !fileInfo.IsDir() {
		return "", fmt.Errorf("%w: "+repositoryPathNotDirectoryTemplateConstant, ErrRepositoryPathNotDirectory, absolutePath)
	}

	return absolutePath, nil
}
