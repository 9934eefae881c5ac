// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with zap logging via ShellExecutor, exposes OSCommandRunner
// for default process execution, and quotes arguments when commands are
// rendered for humans. The readiness inspector runs every git query through it
// so tests can substitute a recording runner.
package execshell
