package sanitizerepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	platformerrors "github.com/jmgilman/go/errors"
	"go.uber.org/zap"

	"github.com/temirov/sanitize-repo/internal/execshell"
	"github.com/temirov/sanitize-repo/internal/gitrepo"
	"github.com/temirov/sanitize-repo/internal/repos/shared"
)

const (
	scratchDirectoryPatternConstant        = "sanitize-repo-*"
	scratchAllocationFailedTemplate        = "unable to allocate scratch directory under %s"
	scratchCopyFailedTemplateConstant      = "unable to copy %s into scratch directory %s"
	gitStepFailedTemplateConstant          = "git %s failed"
	scratchInspectionFailedTemplate        = "unable to inspect scratch copy of %s"
	fileURLPrefixConstant                  = "file://"
	forcedRefspecTemplateConstant          = "+%s:%s"
	headReferenceConstant                  = "HEAD"
	gitResetSubcommandConstant             = "reset"
	gitResetHardFlagConstant               = "--hard"
	gitCleanSubcommandConstant             = "clean"
	gitCleanDirectoriesFlagConstant        = "-d"
	gitCleanForceFlagConstant              = "-f"
	gitCleanIgnoredFlagConstant            = "-x"
	gitUpdateRefSubcommandConstant         = "update-ref"
	gitSymbolicRefSubcommandConstant       = "symbolic-ref"
	gitAddSubcommandConstant               = "add"
	gitAddAllFlagConstant                  = "--all"
	gitAddForceFlagConstant                = "--force"
	gitAddPathspecConstant                 = "."
	gitCommitSubcommandConstant            = "commit"
	gitCommitAllowEmptyFlagConstant        = "--allow-empty"
	gitCommitNoVerifyFlagConstant          = "--no-verify"
	gitCommitMessageFlagConstant           = "-m"
	gitFetchSubcommandConstant             = "fetch"
	gitFetchNoTagsFlagConstant             = "--no-tags"
	gitAuthorNameEnvironmentConstant       = "GIT_AUTHOR_NAME"
	gitAuthorEmailEnvironmentConstant      = "GIT_AUTHOR_EMAIL"
	gitCommitterNameEnvironmentConstant    = "GIT_COMMITTER_NAME"
	gitCommitterEmailEnvironmentConstant   = "GIT_COMMITTER_EMAIL"
	scratchCreatedLogMessageConstant       = "scratch repository created"
	scratchRemovalFailedLogMessageConstant = "scratch repository removal failed"
	branchTransplantedLogMessageConstant   = "sanitized branch transplanted"
	logFieldScratchDirectoryConstant       = "scratch_directory"
	logFieldRepositoryRootConstant         = "repository_root"
	logFieldTargetBranchConstant           = "target_branch"
	logFieldCommitHashConstant             = "commit_hash"
	defaultScratchRootLabelConstant        = "the temporary directory"
)

// repositoryLocationEnvironmentVariables redirect git away from its working directory;
// they are removed so every command acts on the repository it runs in.
var repositoryLocationEnvironmentVariables = []string{
	"GIT_DIR",
	"GIT_WORK_TREE",
	"GIT_INDEX_FILE",
	"GIT_OBJECT_DIRECTORY",
	"GIT_ALTERNATE_OBJECT_DIRECTORIES",
	"GIT_COMMON_DIR",
	"GIT_NAMESPACE",
	"GIT_PREFIX",
}

// CommitSettings customizes the commit created on the target branch.
type CommitSettings struct {
	Message     string
	AuthorName  string
	AuthorEmail string
	// ScratchRoot is the parent of scratch copies; empty selects the OS temporary directory.
	ScratchRoot string
}

// TransplantResult describes the commit published to the target branch.
type TransplantResult struct {
	CommitHash string
}

// Transplanter commits sanitized files to a branch without touching the caller's checkout.
type Transplanter struct {
	gitExecutor shared.GitExecutor
	runner      *Runner
	logger      *zap.Logger
	settings    CommitSettings
}

// NewTransplanter constructs a Transplanter.
func NewTransplanter(gitExecutor shared.GitExecutor, runner *Runner, logger *zap.Logger, settings CommitSettings) (*Transplanter, error) {
	if gitExecutor == nil {
		return nil, errMissingGitExecutor
	}
	if runner == nil {
		runner = NewRunner(nil, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(settings.Message) == 0 {
		settings.Message = defaultCommitMessageConstant
	}
	return &Transplanter{gitExecutor: gitExecutor, runner: runner, logger: logger, settings: settings}, nil
}

// CommitSanitizedToBranch sanitizes relativePaths in a scratch copy of the repository, commits
// the result on targetBranch there, and fetches only that branch back into repositoryRoot.
// The scratch copy is removed on every return path.
func (transplanter *Transplanter) CommitSanitizedToBranch(executionContext context.Context, repositoryRoot string, relativePaths []string, targetBranch shared.BranchName) (TransplantResult, error) {
	scratchDirectory, allocationError := os.MkdirTemp(transplanter.settings.ScratchRoot, scratchDirectoryPatternConstant)
	if allocationError != nil {
		return TransplantResult{}, platformerrors.Wrapf(allocationError, shared.CodeSanitizationIO, scratchAllocationFailedTemplate, transplanter.describeScratchRoot())
	}
	defer transplanter.removeScratch(scratchDirectory)

	transplanter.logger.Debug(
		scratchCreatedLogMessageConstant,
		zap.String(logFieldRepositoryRootConstant, repositoryRoot),
		zap.String(logFieldScratchDirectoryConstant, scratchDirectory),
	)

	sourceFilesystem, sourceError := newBoundFilesystem(repositoryRoot)
	if sourceError != nil {
		return TransplantResult{}, platformerrors.Wrapf(sourceError, shared.CodeSanitizationIO, scratchCopyFailedTemplateConstant, repositoryRoot, scratchDirectory)
	}
	scratchFilesystem, scratchError := newBoundFilesystem(scratchDirectory)
	if scratchError != nil {
		return TransplantResult{}, platformerrors.Wrapf(scratchError, shared.CodeSanitizationIO, scratchCopyFailedTemplateConstant, repositoryRoot, scratchDirectory)
	}
	if copyError := copyTree(sourceFilesystem, scratchFilesystem); copyError != nil {
		return TransplantResult{}, platformerrors.Wrapf(copyError, shared.CodeSanitizationIO, scratchCopyFailedTemplateConstant, repositoryRoot, scratchDirectory)
	}

	if cleanError := transplanter.resetScratch(executionContext, scratchDirectory); cleanError != nil {
		return TransplantResult{}, cleanError
	}

	if sanitizeError := transplanter.runner.Run(scratchFilesystem, relativePaths); sanitizeError != nil {
		return TransplantResult{}, sanitizeError
	}

	commitHash, commitError := transplanter.commitOnBranch(executionContext, scratchDirectory, targetBranch)
	if commitError != nil {
		return TransplantResult{}, commitError
	}

	refspec := fmt.Sprintf(forcedRefspecTemplateConstant, targetBranch.ReferenceName(), targetBranch.ReferenceName())
	if fetchError := transplanter.runGit(executionContext, repositoryRoot, nil,
		gitFetchSubcommandConstant, gitFetchNoTagsFlagConstant, fileURLPrefixConstant+filepath.ToSlash(scratchDirectory), refspec,
	); fetchError != nil {
		return TransplantResult{}, fetchError
	}

	transplanter.logger.Info(
		branchTransplantedLogMessageConstant,
		zap.String(logFieldRepositoryRootConstant, repositoryRoot),
		zap.String(logFieldTargetBranchConstant, targetBranch.String()),
		zap.String(logFieldCommitHashConstant, commitHash),
	)
	return TransplantResult{CommitHash: commitHash}, nil
}

// resetScratch discards uncommitted changes, untracked files, and ignored files so the
// commit is built from HEAD's content only.
func (transplanter *Transplanter) resetScratch(executionContext context.Context, scratchDirectory string) error {
	if resetError := transplanter.runGit(executionContext, scratchDirectory, nil, gitResetSubcommandConstant, gitResetHardFlagConstant); resetError != nil {
		return resetError
	}
	return transplanter.runGit(executionContext, scratchDirectory, nil,
		gitCleanSubcommandConstant, gitCleanDirectoriesFlagConstant, gitCleanForceFlagConstant, gitCleanForceFlagConstant, gitCleanIgnoredFlagConstant,
	)
}

// commitOnBranch commits the scratch worktree onto targetBranch without a checkout.
// A missing branch is first created at HEAD so the new commit descends from the current history.
func (transplanter *Transplanter) commitOnBranch(executionContext context.Context, scratchDirectory string, targetBranch shared.BranchName) (string, error) {
	scratchRepository, openError := gitrepo.Open(scratchDirectory)
	if openError != nil {
		return "", openError
	}
	branchExists, lookupError := scratchRepository.BranchExists(targetBranch.String())
	if lookupError != nil {
		return "", lookupError
	}
	if !branchExists {
		if updateError := transplanter.runGit(executionContext, scratchDirectory, nil, gitUpdateRefSubcommandConstant, targetBranch.ReferenceName(), headReferenceConstant); updateError != nil {
			return "", updateError
		}
	}

	if symbolicRefError := transplanter.runGit(executionContext, scratchDirectory, nil, gitSymbolicRefSubcommandConstant, headReferenceConstant, targetBranch.ReferenceName()); symbolicRefError != nil {
		return "", symbolicRefError
	}
	if addError := transplanter.runGit(executionContext, scratchDirectory, nil, gitAddSubcommandConstant, gitAddAllFlagConstant, gitAddForceFlagConstant, gitAddPathspecConstant); addError != nil {
		return "", addError
	}
	if commitError := transplanter.runGit(executionContext, scratchDirectory, transplanter.commitEnvironment(),
		gitCommitSubcommandConstant, gitCommitAllowEmptyFlagConstant, gitCommitNoVerifyFlagConstant, gitCommitMessageFlagConstant, transplanter.settings.Message,
	); commitError != nil {
		return "", commitError
	}

	committedRepository, reopenError := gitrepo.Open(scratchDirectory)
	if reopenError != nil {
		return "", platformerrors.Wrapf(reopenError, shared.CodeVersionControl, scratchInspectionFailedTemplate, scratchDirectory)
	}
	return committedRepository.BranchCommit(targetBranch.String())
}

func (transplanter *Transplanter) commitEnvironment() map[string]string {
	environment := map[string]string{}
	if len(transplanter.settings.AuthorName) > 0 {
		environment[gitAuthorNameEnvironmentConstant] = transplanter.settings.AuthorName
		environment[gitCommitterNameEnvironmentConstant] = transplanter.settings.AuthorName
	}
	if len(transplanter.settings.AuthorEmail) > 0 {
		environment[gitAuthorEmailEnvironmentConstant] = transplanter.settings.AuthorEmail
		environment[gitCommitterEmailEnvironmentConstant] = transplanter.settings.AuthorEmail
	}
	if len(environment) == 0 {
		return nil
	}
	return environment
}

func (transplanter *Transplanter) runGit(executionContext context.Context, workingDirectory string, environment map[string]string, arguments ...string) error {
	_, executionError := transplanter.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:                 arguments,
		WorkingDirectory:          workingDirectory,
		EnvironmentVariables:      environment,
		UnsetEnvironmentVariables: repositoryLocationEnvironmentVariables,
	})
	return wrapGitError(executionError, arguments[0])
}

func (transplanter *Transplanter) removeScratch(scratchDirectory string) {
	if removalError := os.RemoveAll(scratchDirectory); removalError != nil {
		transplanter.logger.Warn(
			scratchRemovalFailedLogMessageConstant,
			zap.String(logFieldScratchDirectoryConstant, scratchDirectory),
			zap.Error(removalError),
		)
	}
}

func (transplanter *Transplanter) describeScratchRoot() string {
	if len(transplanter.settings.ScratchRoot) == 0 {
		return defaultScratchRootLabelConstant
	}
	return transplanter.settings.ScratchRoot
}

// wrapGitError tags git failures as version control errors unless they already carry a code.
func wrapGitError(executionError error, subcommand string) error {
	if executionError == nil {
		return nil
	}
	var platformError platformerrors.PlatformError
	if errors.As(executionError, &platformError) {
		return executionError
	}
	return platformerrors.Wrapf(executionError, shared.CodeVersionControl, gitStepFailedTemplateConstant, subcommand)
}
