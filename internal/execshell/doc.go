// Package execshell runs external tools, chiefly git, behind a small testable seam.
//
// ShellExecutor adds structured logging, optional per-command timeouts, and
// typed failures on top of a CommandRunner. OSCommandRunner is the production
// runner; tests substitute recording runners.
package execshell
