// Package ui renders command lifecycle events for people watching the terminal.
//
// Structured logs remain the default; the console logger here is selected when
// the CLI runs with the console log format.
package ui
