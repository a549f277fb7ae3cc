package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	commandLabelWithArgumentsTemplate       = "%s %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	referenceJoinSeparatorConstant          = ", "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitResetSubcommandNameConstant          = "reset"
	gitCleanSubcommandNameConstant          = "clean"
	gitSymbolicRefSubcommandNameConstant    = "symbolic-ref"
	gitUpdateRefSubcommandNameConstant      = "update-ref"
	gitAddSubcommandNameConstant            = "add"
	gitCommitSubcommandNameConstant         = "commit"
	gitFetchSubcommandNameConstant          = "fetch"
	gitCheckRefFormatSubcommandNameConstant = "check-ref-format"
	gitMessageFlagConstant                  = "-m"
)

const (
	gitResetStartTemplateConstant                  = "Discarding working tree changes in %s"
	gitResetSuccessTemplateConstant                = "Discarded working tree changes in %s"
	gitResetFailureTemplateConstant                = "Failed to discard working tree changes in %s (exit code %d%s)"
	gitResetExecutionFailureTemplateConstant       = "Unable to discard working tree changes in %s: %s"
	gitCleanStartTemplateConstant                  = "Removing untracked and ignored files in %s"
	gitCleanSuccessTemplateConstant                = "Removed untracked and ignored files in %s"
	gitCleanFailureTemplateConstant                = "Failed to remove untracked and ignored files in %s (exit code %d%s)"
	gitCleanExecutionFailureTemplateConstant       = "Unable to remove untracked and ignored files in %s: %s"
	gitSymbolicRefStartTemplateConstant            = "Pointing HEAD at %s in %s"
	gitSymbolicRefSuccessTemplateConstant          = "HEAD now points at %s in %s"
	gitSymbolicRefFailureTemplateConstant          = "Failed to point HEAD at %s in %s (exit code %d%s)"
	gitSymbolicRefExecutionFailureTemplateConstant = "Unable to point HEAD at %s in %s: %s"
	gitUpdateRefStartTemplateConstant              = "Creating reference %s in %s"
	gitUpdateRefSuccessTemplateConstant            = "Created reference %s in %s"
	gitUpdateRefFailureTemplateConstant            = "Failed to create reference %s in %s (exit code %d%s)"
	gitUpdateRefExecutionFailureTemplateConstant   = "Unable to create reference %s in %s: %s"
	gitAddStartTemplateConstant                    = "Staging %s in %s"
	gitAddSuccessTemplateConstant                  = "Staged %s in %s"
	gitAddFailureTemplateConstant                  = "Failed to stage %s in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant         = "Unable to stage %s in %s: %s"
	gitCommitStartTemplateConstant                 = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant               = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant               = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant      = "Unable to create commit in %s with message %q: %s"
	gitFetchStartTemplateConstant                  = "Fetching %s from %s in %s"
	gitFetchSuccessTemplateConstant                = "Fetched %s from %s in %s"
	gitFetchFailureTemplateConstant                = "Failed to fetch %s from %s in %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant       = "Unable to fetch %s from %s in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

// ShouldLogStartMessage reports whether the start of the command is worth announcing.
// Validation commands such as check-ref-format stay quiet until they fail.
func (formatter CommandMessageFormatter) ShouldLogStartMessage(command ShellCommand) bool {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return true
	}
	return strings.TrimSpace(command.Details.Arguments[0]) != gitCheckRefFormatSubcommandNameConstant
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	arguments := command.Details.Arguments
	standardErrorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)
	failureDescription := formatter.describeFailure(failure)

	switch strings.TrimSpace(arguments[0]) {
	case gitResetSubcommandNameConstant:
		return selectStageMessage(stage,
			fmt.Sprintf(gitResetStartTemplateConstant, workingDirectory),
			fmt.Sprintf(gitResetSuccessTemplateConstant, workingDirectory),
			fmt.Sprintf(gitResetFailureTemplateConstant, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitResetExecutionFailureTemplateConstant, workingDirectory, failureDescription),
		)
	case gitCleanSubcommandNameConstant:
		return selectStageMessage(stage,
			fmt.Sprintf(gitCleanStartTemplateConstant, workingDirectory),
			fmt.Sprintf(gitCleanSuccessTemplateConstant, workingDirectory),
			fmt.Sprintf(gitCleanFailureTemplateConstant, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitCleanExecutionFailureTemplateConstant, workingDirectory, failureDescription),
		)
	case gitSymbolicRefSubcommandNameConstant:
		reference := formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:]))
		return selectStageMessage(stage,
			fmt.Sprintf(gitSymbolicRefStartTemplateConstant, reference, workingDirectory),
			fmt.Sprintf(gitSymbolicRefSuccessTemplateConstant, reference, workingDirectory),
			fmt.Sprintf(gitSymbolicRefFailureTemplateConstant, reference, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitSymbolicRefExecutionFailureTemplateConstant, reference, workingDirectory, failureDescription),
		)
	case gitUpdateRefSubcommandNameConstant:
		reference := formatter.ensureValue(formatter.firstNonFlagArgument(arguments[1:]))
		return selectStageMessage(stage,
			fmt.Sprintf(gitUpdateRefStartTemplateConstant, reference, workingDirectory),
			fmt.Sprintf(gitUpdateRefSuccessTemplateConstant, reference, workingDirectory),
			fmt.Sprintf(gitUpdateRefFailureTemplateConstant, reference, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitUpdateRefExecutionFailureTemplateConstant, reference, workingDirectory, failureDescription),
		)
	case gitAddSubcommandNameConstant:
		paths := formatter.ensureValue(formatter.joinNonFlagArguments(arguments[1:]))
		return selectStageMessage(stage,
			fmt.Sprintf(gitAddStartTemplateConstant, paths, workingDirectory),
			fmt.Sprintf(gitAddSuccessTemplateConstant, paths, workingDirectory),
			fmt.Sprintf(gitAddFailureTemplateConstant, paths, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitAddExecutionFailureTemplateConstant, paths, workingDirectory, failureDescription),
		)
	case gitCommitSubcommandNameConstant:
		commitMessage := formatter.extractCommitMessage(arguments)
		return selectStageMessage(stage,
			fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage),
			fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage),
			fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, failureDescription),
		)
	case gitFetchSubcommandNameConstant:
		source, references := formatter.extractSourceAndReferences(arguments[1:])
		joinedReferences := formatter.ensureValue(strings.Join(references, referenceJoinSeparatorConstant))
		source = formatter.ensureValue(source)
		return selectStageMessage(stage,
			fmt.Sprintf(gitFetchStartTemplateConstant, joinedReferences, source, workingDirectory),
			fmt.Sprintf(gitFetchSuccessTemplateConstant, joinedReferences, source, workingDirectory),
			fmt.Sprintf(gitFetchFailureTemplateConstant, joinedReferences, source, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitFetchExecutionFailureTemplateConstant, joinedReferences, source, workingDirectory, failureDescription),
		)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func selectStageMessage(stage messageStage, startMessage string, successMessage string, failureMessage string, executionFailureMessage string) string {
	switch stage {
	case messageStageStart:
		return startMessage
	case messageStageSuccess:
		return successMessage
	case messageStageFailure:
		return failureMessage
	case messageStageExecutionFailure:
		return executionFailureMessage
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	return selectStageMessage(stage,
		fmt.Sprintf(genericStartTemplateConstant, commandLabel),
		fmt.Sprintf(genericSuccessTemplateConstant, commandLabel),
		fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError)),
		fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure)),
	)
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf(commandLabelWithArgumentsTemplate, commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) nonFlagArguments(arguments []string) []string {
	values := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		values = append(values, trimmed)
	}
	return values
}

func (formatter CommandMessageFormatter) firstNonFlagArgument(arguments []string) string {
	values := formatter.nonFlagArguments(arguments)
	if len(values) == 0 {
		return emptyStringConstant
	}
	return values[0]
}

func (formatter CommandMessageFormatter) lastNonFlagArgument(arguments []string) string {
	values := formatter.nonFlagArguments(arguments)
	if len(values) == 0 {
		return emptyStringConstant
	}
	return values[len(values)-1]
}

func (formatter CommandMessageFormatter) joinNonFlagArguments(arguments []string) string {
	return strings.Join(formatter.nonFlagArguments(arguments), commandArgumentsJoinSeparatorConstant)
}

func (formatter CommandMessageFormatter) extractSourceAndReferences(arguments []string) (string, []string) {
	values := formatter.nonFlagArguments(arguments)
	if len(values) == 0 {
		return emptyStringConstant, nil
	}
	return values[0], values[1:]
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == gitMessageFlagConstant && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}
