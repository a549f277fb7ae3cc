// Package cli constructs the sanitize-repo command-line interface. It wires
// the Cobra command hierarchy to the viper configuration loader and zap
// logging, and registers the repo and file subcommands.
package cli
