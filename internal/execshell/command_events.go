package execshell

// CommandEventObserver receives lifecycle notifications for shell command execution.
// The shell executor forwards events to an observer instead of its structured logger when one is configured.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports failures that prevented the command from producing a result.
	CommandExecutionFailed(command ShellCommand, failure error)
}
