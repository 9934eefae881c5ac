// Package cli constructs the readiness command-line interface. The root command
// runs the audit; configuration comes from the embedded defaults, an optional
// configuration file, and the environment, and diagnostics are logged to standard
// error so standard output carries only the report.
package cli
