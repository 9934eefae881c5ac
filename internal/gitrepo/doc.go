// Package gitrepo inspects a Git working tree on behalf of the readiness checks.
//
// Inspector lists tracked files, searches tracked content, scans commit
// history, and reads files relative to the repository root. Every method is
// fail-soft: a missing git binary or a directory that is not a repository
// yields empty results instead of errors.
package gitrepo
