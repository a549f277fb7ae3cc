package gitrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sanitize-repo/internal/gitrepo"
)

func TestStateInspectorClassifiesWorktree(testInstance *testing.T) {
	testCases := []struct {
		name              string
		prepare           func(testInstance *testing.T, fixture testRepository)
		expectedVerdict   gitrepo.Verdict
		expectedReason    string
		expectedStaged    []string
		expectedUntracked []string
		expectedUnstaged  []string
	}{
		{
			name:            "clean",
			prepare:         func(testInstance *testing.T, fixture testRepository) {},
			expectedVerdict: gitrepo.VerdictClean,
		},
		{
			name: "ignored_files_do_not_count",
			prepare: func(testInstance *testing.T, fixture testRepository) {
				fixture.writeFile(testInstance, "debug.log", "noise")
			},
			expectedVerdict: gitrepo.VerdictClean,
		},
		{
			name: "staged",
			prepare: func(testInstance *testing.T, fixture testRepository) {
				fixture.writeFile(testInstance, "staged.txt", "new")
				_, addError := fixture.worktree.Add("staged.txt")
				require.NoError(testInstance, addError)
			},
			expectedVerdict: gitrepo.VerdictDirtyStaged,
			expectedReason:  "There are uncommitted staged files in the repo",
			expectedStaged:  []string{"staged.txt"},
		},
		{
			name: "untracked",
			prepare: func(testInstance *testing.T, fixture testRepository) {
				fixture.writeFile(testInstance, "untracked.txt", "new")
			},
			expectedVerdict:   gitrepo.VerdictHasUntracked,
			expectedReason:    "There are untracked files in the repo",
			expectedUntracked: []string{"untracked.txt"},
		},
		{
			name: "unstaged",
			prepare: func(testInstance *testing.T, fixture testRepository) {
				fixture.writeFile(testInstance, testTrackedFileNameConstant, "changed")
			},
			expectedVerdict:  gitrepo.VerdictDirtyUnstaged,
			expectedReason:   "There are uncommitted unstaged files in the repo",
			expectedUnstaged: []string{testTrackedFileNameConstant},
		},
		{
			name: "staged_outranks_untracked_and_unstaged",
			prepare: func(testInstance *testing.T, fixture testRepository) {
				fixture.writeFile(testInstance, "staged.txt", "new")
				_, addError := fixture.worktree.Add("staged.txt")
				require.NoError(testInstance, addError)
				fixture.writeFile(testInstance, "untracked.txt", "new")
				fixture.writeFile(testInstance, testTrackedFileNameConstant, "changed")
			},
			expectedVerdict:   gitrepo.VerdictDirtyStaged,
			expectedReason:    "There are uncommitted staged files in the repo",
			expectedStaged:    []string{"staged.txt"},
			expectedUntracked: []string{"untracked.txt"},
			expectedUnstaged:  []string{testTrackedFileNameConstant},
		},
		{
			name: "untracked_outranks_unstaged",
			prepare: func(testInstance *testing.T, fixture testRepository) {
				fixture.writeFile(testInstance, "untracked.txt", "new")
				fixture.writeFile(testInstance, testTrackedFileNameConstant, "changed")
			},
			expectedVerdict:   gitrepo.VerdictHasUntracked,
			expectedReason:    "There are untracked files in the repo",
			expectedUntracked: []string{"untracked.txt"},
			expectedUnstaged:  []string{testTrackedFileNameConstant},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture, _ := newCommittedTestRepository(testInstance)
			testCase.prepare(testInstance, fixture)

			report, inspectError := gitrepo.NewStateInspector().Inspect(context.Background(), fixture.root)
			require.NoError(testInstance, inspectError)

			require.Equal(testInstance, testCase.expectedVerdict, report.Verdict)
			require.Equal(testInstance, testCase.expectedReason, report.Reason())
			require.Equal(testInstance, testCase.expectedVerdict == gitrepo.VerdictClean, report.IsClean())
			require.Equal(testInstance, testCase.expectedStaged, report.StagedPaths)
			require.Equal(testInstance, testCase.expectedUntracked, report.UntrackedPaths)
			require.Equal(testInstance, testCase.expectedUnstaged, report.UnstagedPaths)
		})
	}
}

func TestStateInspectorHonorsPerUserExcludes(testInstance *testing.T) {
	testCases := []struct {
		name      string
		configure func(testInstance *testing.T, homeDirectory string, configHome string)
	}{
		{
			name: "xdg_default_ignore_file",
			configure: func(testInstance *testing.T, homeDirectory string, configHome string) {
				writeTestFile(testInstance, filepath.Join(configHome, "git", "ignore"), "# editor droppings\n.DS_Store\n")
			},
		},
		{
			name: "home_default_ignore_file_without_xdg",
			configure: func(testInstance *testing.T, homeDirectory string, configHome string) {
				testInstance.Setenv("XDG_CONFIG_HOME", "")
				writeTestFile(testInstance, filepath.Join(homeDirectory, ".config", "git", "ignore"), ".DS_Store\n")
			},
		},
		{
			name: "core_excludesfile_from_gitconfig",
			configure: func(testInstance *testing.T, homeDirectory string, configHome string) {
				excludesPath := filepath.Join(homeDirectory, "global-excludes")
				writeTestFile(testInstance, excludesPath, ".DS_Store\n")
				writeTestFile(testInstance, filepath.Join(homeDirectory, ".gitconfig"), "[core]\n\texcludesfile = "+excludesPath+"\n")
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			homeDirectory := testInstance.TempDir()
			configHome := testInstance.TempDir()
			testInstance.Setenv("HOME", homeDirectory)
			testInstance.Setenv("XDG_CONFIG_HOME", configHome)
			testCase.configure(testInstance, homeDirectory, configHome)

			fixture, _ := newCommittedTestRepository(testInstance)
			fixture.writeFile(testInstance, ".DS_Store", "finder metadata")

			report, inspectError := gitrepo.NewStateInspector().Inspect(context.Background(), fixture.root)
			require.NoError(testInstance, inspectError)
			require.Equal(testInstance, gitrepo.VerdictClean, report.Verdict)
			require.Empty(testInstance, report.UntrackedPaths)

			fixture.writeFile(testInstance, "notes.txt", "draft")

			report, inspectError = gitrepo.NewStateInspector().Inspect(context.Background(), fixture.root)
			require.NoError(testInstance, inspectError)
			require.Equal(testInstance, gitrepo.VerdictHasUntracked, report.Verdict)
			require.Equal(testInstance, []string{"notes.txt"}, report.UntrackedPaths)
		})
	}
}

func writeTestFile(testInstance *testing.T, absolutePath string, content string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(absolutePath), 0o755))
	require.NoError(testInstance, os.WriteFile(absolutePath, []byte(content), 0o644))
}

func TestStateInspectorDoesNotInitializeRepositories(testInstance *testing.T) {
	plainDirectory := testInstance.TempDir()

	_, inspectError := gitrepo.NewStateInspector().Inspect(context.Background(), plainDirectory)
	require.Error(testInstance, inspectError)

	entries, readError := os.ReadDir(plainDirectory)
	require.NoError(testInstance, readError)
	require.Empty(testInstance, entries)
	_, statError := os.Stat(filepath.Join(plainDirectory, ".git"))
	require.True(testInstance, os.IsNotExist(statError))
}

func TestStateInspectorHonorsCancelledContext(testInstance *testing.T) {
	fixture, _ := newCommittedTestRepository(testInstance)
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	_, inspectError := gitrepo.NewStateInspector().Inspect(cancelledContext, fixture.root)
	require.ErrorIs(testInstance, inspectError, context.Canceled)
}

func TestVerdictLabels(testInstance *testing.T) {
	require.Equal(testInstance, "clean", gitrepo.VerdictClean.String())
	require.Equal(testInstance, "dirty_staged", gitrepo.VerdictDirtyStaged.String())
	require.Equal(testInstance, "has_untracked", gitrepo.VerdictHasUntracked.String())
	require.Equal(testInstance, "dirty_unstaged", gitrepo.VerdictDirtyUnstaged.String())
	require.Empty(testInstance, gitrepo.VerdictClean.Reason())
}
