package dependencies

import (
	"time"

	"go.uber.org/zap"

	"github.com/temirov/sanitize-repo/internal/execshell"
	"github.com/temirov/sanitize-repo/internal/repos/shared"
	"github.com/temirov/sanitize-repo/internal/sanitizer"
	"github.com/temirov/sanitize-repo/internal/ui"
)

// GitExecutorOptions customizes the default shell-backed executor.
type GitExecutorOptions struct {
	HumanReadableLogging bool
	CommandTimeout       time.Duration
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Human-readable logging routes command lifecycle events through the console event logger.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, options GitExecutorOptions) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	executorOptions := []execshell.ShellExecutorOption{execshell.WithCommandTimeout(options.CommandTimeout)}
	if options.HumanReadableLogging && logger != nil {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)))
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), executorOptions...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveSanitizer returns the provided sanitizer or the marker-based default.
func ResolveSanitizer(existing sanitizer.Sanitizer) sanitizer.Sanitizer {
	if existing != nil {
		return existing
	}
	return sanitizer.NewMarkerSanitizer()
}
