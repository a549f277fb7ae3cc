// Package utils holds the configuration and logging plumbing shared by the
// sanitize-repo commands: a viper-backed ConfigurationLoader that layers
// embedded defaults, files, and SANITIZEREPO_* environment variables, and a
// LoggerFactory that builds structured or console zap loggers.
package utils
