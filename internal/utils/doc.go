// Package utils holds the configuration and logging plumbing shared by the CLI.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// environment variables through Viper. LoggerFactory builds zap loggers that
// write to standard error so the report on standard output stays clean.
package utils
