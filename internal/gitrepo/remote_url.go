package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	requiredValueMessageConstant        = "value required"
	remoteDisplayTemplateConstant       = "%s/%s/%s"
)

// RemoteURL identifies the hosted repository behind a git remote.
type RemoteURL struct {
	Host       string
	Owner      string
	Repository string
}

// String renders host/owner/repository.
func (remote RemoteURL) String() string {
	return fmt.Sprintf(remoteDisplayTemplateConstant, remote.Host, remote.Owner, remote.Repository)
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL accepts scp-like SSH remotes (git@host:owner/repo.git), ssh:// URLs, and HTTP(S) URLs.
// Credentials embedded in HTTP(S) remotes are discarded.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	switch {
	case len(trimmedRemote) == 0:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		return parseHostAndPath(remote, dropUserInfo(strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant), pathSeparatorConstant), pathSeparatorConstant)
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		return parseHostAndPath(remote, dropUserInfo(strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant), pathSeparatorConstant), pathSeparatorConstant)
	case strings.HasPrefix(trimmedRemote, httpProtocolPrefixConstant):
		return parseHostAndPath(remote, dropUserInfo(strings.TrimPrefix(trimmedRemote, httpProtocolPrefixConstant), pathSeparatorConstant), pathSeparatorConstant)
	case strings.Contains(trimmedRemote, sshUserDelimiterConstant):
		return parseHostAndPath(remote, dropUserInfo(trimmedRemote, sshPathDelimiterConstant), sshPathDelimiterConstant)
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
}

// dropUserInfo removes "user@" or "user:token@" preceding the host, which ends at the first delimiter.
func dropUserInfo(remote string, hostDelimiter string) string {
	hostEnd := strings.Index(remote, hostDelimiter)
	if hostEnd == -1 {
		hostEnd = len(remote)
	}
	userEnd := strings.LastIndex(remote[:hostEnd], sshUserDelimiterConstant)
	if userEnd == -1 {
		return remote
	}
	return remote[userEnd+1:]
}

func parseHostAndPath(originalInput string, hostAndPath string, hostDelimiter string) (RemoteURL, error) {
	delimiterIndex := strings.Index(hostAndPath, hostDelimiter)
	if delimiterIndex <= 0 {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}
	host := hostAndPath[:delimiterIndex]
	if portIndex := strings.Index(host, sshPathDelimiterConstant); portIndex != -1 && hostDelimiter == pathSeparatorConstant {
		host = host[:portIndex]
	}

	segments := strings.Split(strings.Trim(hostAndPath[delimiterIndex+1:], pathSeparatorConstant), pathSeparatorConstant)
	if len(segments) < 2 {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}

	owner := strings.Join(segments[:len(segments)-1], pathSeparatorConstant)
	repository := strings.TrimSuffix(segments[len(segments)-1], gitSuffixConstant)
	if len(owner) == 0 || len(repository) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}

	return RemoteURL{Host: host, Owner: owner, Repository: repository}, nil
}
