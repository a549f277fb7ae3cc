package sanitizerepo_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/sanitize-repo/internal/execshell"
	"github.com/temirov/sanitize-repo/internal/gitrepo"
	"github.com/temirov/sanitize-repo/internal/sanitizer"
	"github.com/temirov/sanitize-repo/internal/sanitizerepo"
)

const (
	testDefaultBranchNameConstant  = "develop"
	testTargetBranchNameConstant   = "pub"
	testTrackedFileNameConstant    = "a.txt"
	testTrackedFileContentConstant = "KEEP\nSECRET\nKEEP"
	testSanitizedContentConstant   = "KEEP\nKEEP"
	testOtherFileNameConstant      = "docs/b.txt"
	testOtherFileContentConstant   = "SECRET stays outside the file list\n"
	testFileListContentConstant    = "a.txt\n"
	testAuthorNameConstant         = "Test Author"
	testAuthorEmailConstant        = "author@example.com"
	testSecretLineConstant         = "SECRET"
)

type testRepository struct {
	root       string
	repository *gogit.Repository
	worktree   *gogit.Worktree
}

func newTestRepository(testInstance *testing.T) testRepository {
	testInstance.Helper()

	repositoryRoot := testInstance.TempDir()
	repository, initError := gogit.PlainInitWithOptions(repositoryRoot, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(testDefaultBranchNameConstant)},
	})
	require.NoError(testInstance, initError)

	worktree, worktreeError := repository.Worktree()
	require.NoError(testInstance, worktreeError)

	return testRepository{root: repositoryRoot, repository: repository, worktree: worktree}
}

// newSampleRepository commits a.txt, docs/b.txt, and a .gitignore ignoring *.log on develop.
func newSampleRepository(testInstance *testing.T) (testRepository, plumbing.Hash) {
	testInstance.Helper()
	fixture := newTestRepository(testInstance)
	fixture.writeFile(testInstance, testTrackedFileNameConstant, testTrackedFileContentConstant)
	fixture.writeFile(testInstance, testOtherFileNameConstant, testOtherFileContentConstant)
	fixture.writeFile(testInstance, ".gitignore", "*.log\n")
	return fixture, fixture.commitAll(testInstance, "Initial commit")
}

func (fixture testRepository) writeFile(testInstance *testing.T, relativePath string, content string) {
	testInstance.Helper()
	absolutePath := filepath.Join(fixture.root, relativePath)
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(absolutePath), 0o755))
	require.NoError(testInstance, os.WriteFile(absolutePath, []byte(content), 0o644))
}

func (fixture testRepository) readFile(testInstance *testing.T, relativePath string) string {
	testInstance.Helper()
	contents, readError := os.ReadFile(filepath.Join(fixture.root, relativePath))
	require.NoError(testInstance, readError)
	return string(contents)
}

func (fixture testRepository) commitAll(testInstance *testing.T, message string) plumbing.Hash {
	testInstance.Helper()
	require.NoError(testInstance, fixture.worktree.AddWithOptions(&gogit.AddOptions{All: true}))
	commitHash, commitError := fixture.worktree.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: testAuthorNameConstant, Email: testAuthorEmailConstant, When: time.Now()},
	})
	require.NoError(testInstance, commitError)
	return commitHash
}

func (fixture testRepository) createBranch(testInstance *testing.T, branchName string, commitHash plumbing.Hash) {
	testInstance.Helper()
	reference := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branchName), commitHash)
	require.NoError(testInstance, fixture.repository.Storer.SetReference(reference))
}

func (fixture testRepository) open(testInstance *testing.T) *gitrepo.Repository {
	testInstance.Helper()
	repository, openError := gitrepo.Open(fixture.root)
	require.NoError(testInstance, openError)
	return repository
}

func writeFileList(testInstance *testing.T, content string) string {
	testInstance.Helper()
	fileListPath := filepath.Join(testInstance.TempDir(), "files.txt")
	require.NoError(testInstance, os.WriteFile(fileListPath, []byte(content), 0o644))
	return fileListPath
}

// requireGit skips tests that need the git executable and isolates them from user and system git configuration.
func requireGit(testInstance *testing.T) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testInstance.Skip("git executable not available")
	}
	testInstance.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	testInstance.Setenv("GIT_CONFIG_NOSYSTEM", "1")
}

func newShellGitExecutor(testInstance *testing.T) *execshell.ShellExecutor {
	testInstance.Helper()
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, creationError)
	return shellExecutor
}

func secretLineSanitizer() sanitizer.Sanitizer {
	return sanitizer.SanitizerFunc(func(text string) (string, error) {
		lines := strings.Split(text, "\n")
		keptLines := make([]string, 0, len(lines))
		for _, line := range lines {
			if line == testSecretLineConstant {
				continue
			}
			keptLines = append(keptLines, line)
		}
		return strings.Join(keptLines, "\n"), nil
	})
}

func newIntegrationService(testInstance *testing.T, scratchRoot string) *sanitizerepo.Service {
	testInstance.Helper()
	service, creationError := sanitizerepo.NewService(sanitizerepo.Dependencies{
		GitExecutor: newShellGitExecutor(testInstance),
		Sanitizer:   secretLineSanitizer(),
		Commit: sanitizerepo.CommitSettings{
			AuthorName:  testAuthorNameConstant,
			AuthorEmail: testAuthorEmailConstant,
			ScratchRoot: scratchRoot,
		},
	})
	require.NoError(testInstance, creationError)
	return service
}

type recordingGitExecutor struct {
	recordedCommands []execshell.CommandDetails
	failures         map[string]error
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	if len(details.Arguments) > 0 {
		if failure, exists := executor.failures[details.Arguments[0]]; exists {
			return execshell.ExecutionResult{}, failure
		}
	}
	return execshell.ExecutionResult{}, nil
}

type stubStateInspector struct {
	report          gitrepo.StateReport
	inspectionError error
	invocations     int
}

func (inspector *stubStateInspector) Inspect(context.Context, string) (gitrepo.StateReport, error) {
	inspector.invocations++
	return inspector.report, inspector.inspectionError
}
