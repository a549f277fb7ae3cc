package shared

import (
	"context"

	"github.com/temirov/sanitize-repo/internal/execshell"
)

// GitExecutor runs git subcommands; execshell.ShellExecutor satisfies it and tests substitute recorders.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}
