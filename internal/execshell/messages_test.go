package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testMessagesWorkingDirectoryConstant = "/tmp/sanitize-scratch/repo"
)

func TestCommandMessageFormatterDescribesGitSubcommands(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedStart   string
		expectedSuccess string
	}{
		{
			name:            "reset",
			arguments:       []string{"reset", "--hard"},
			expectedStart:   "Discarding working tree changes in /tmp/sanitize-scratch/repo",
			expectedSuccess: "Discarded working tree changes in /tmp/sanitize-scratch/repo",
		},
		{
			name:            "clean",
			arguments:       []string{"clean", "-d", "-f", "-f", "-x"},
			expectedStart:   "Removing untracked and ignored files in /tmp/sanitize-scratch/repo",
			expectedSuccess: "Removed untracked and ignored files in /tmp/sanitize-scratch/repo",
		},
		{
			name:            "symbolic_ref",
			arguments:       []string{"symbolic-ref", "HEAD", "refs/heads/student"},
			expectedStart:   "Pointing HEAD at refs/heads/student in /tmp/sanitize-scratch/repo",
			expectedSuccess: "HEAD now points at refs/heads/student in /tmp/sanitize-scratch/repo",
		},
		{
			name:            "update_ref",
			arguments:       []string{"update-ref", "refs/heads/student", "HEAD"},
			expectedStart:   "Creating reference refs/heads/student in /tmp/sanitize-scratch/repo",
			expectedSuccess: "Created reference refs/heads/student in /tmp/sanitize-scratch/repo",
		},
		{
			name:            "add",
			arguments:       []string{"add", "--all", "--force", "."},
			expectedStart:   "Staging . in /tmp/sanitize-scratch/repo",
			expectedSuccess: "Staged . in /tmp/sanitize-scratch/repo",
		},
		{
			name:            "commit",
			arguments:       []string{"commit", "--allow-empty", "-m", "Sanitize files"},
			expectedStart:   "Creating commit in /tmp/sanitize-scratch/repo with message \"Sanitize files\"",
			expectedSuccess: "Created commit in /tmp/sanitize-scratch/repo with message \"Sanitize files\"",
		},
		{
			name:            "fetch",
			arguments:       []string{"fetch", "--no-tags", "file:///tmp/copy", "+refs/heads/student:refs/heads/student"},
			expectedStart:   "Fetching +refs/heads/student:refs/heads/student from file:///tmp/copy in /tmp/sanitize-scratch/repo",
			expectedSuccess: "Fetched +refs/heads/student:refs/heads/student from file:///tmp/copy in /tmp/sanitize-scratch/repo",
		},
		{
			name:            "unrecognized",
			arguments:       []string{"gc"},
			expectedStart:   "Running git gc (in /tmp/sanitize-scratch/repo)",
			expectedSuccess: "Completed git gc (in /tmp/sanitize-scratch/repo)",
		},
	}

	formatter := CommandMessageFormatter{}
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			command := ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: testCase.arguments, WorkingDirectory: testMessagesWorkingDirectoryConstant},
			}
			require.Equal(testInstance, testCase.expectedStart, formatter.BuildStartedMessage(command))
			require.Equal(testInstance, testCase.expectedSuccess, formatter.BuildSuccessMessage(command))
		})
	}
}

func TestCommandMessageFormatterIncludesFailureDetails(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"reset", "--hard"}},
	}

	failureMessage := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal: bad object\n"})
	require.Equal(testInstance, "Failed to discard working tree changes in current directory (exit code 128: fatal: bad object)", failureMessage)

	executionFailureMessage := formatter.BuildExecutionFailureMessage(command, errors.New("exec: git not found"))
	require.Equal(testInstance, "Unable to discard working tree changes in current directory: exec: git not found", executionFailureMessage)
}

func TestCommandMessageFormatterSilencesReferenceValidation(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	require.False(testInstance, formatter.ShouldLogStartMessage(ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"check-ref-format", "--branch", "student"}}}))
	require.True(testInstance, formatter.ShouldLogStartMessage(ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"fetch"}}}))
}
