package sanitizerepo

import (
	"context"
	"errors"
	"path/filepath"

	platformerrors "github.com/jmgilman/go/errors"
	"go.uber.org/zap"

	"github.com/temirov/sanitize-repo/internal/execshell"
	"github.com/temirov/sanitize-repo/internal/gitrepo"
	"github.com/temirov/sanitize-repo/internal/repos/shared"
	"github.com/temirov/sanitize-repo/internal/sanitizer"
)

const (
	missingGitExecutorMessageConstant   = "git executor not configured"
	modeRequiredMessageConstant         = "exactly one of --target-branch or --no-commit is required"
	repositoryRootResolveFailedTemplate = "unable to resolve repository root %s"
	invalidBranchNameTemplateConstant   = "%q is not a valid branch name"
	linkedWorktreeTemplateConstant      = "%s is a linked worktree; run the command from the main worktree"
	checkedOutBranchTemplateConstant    = "target branch %s is checked out in %s; choose another branch"
	gitCheckRefFormatSubcommandConstant = "check-ref-format"
	repositoryRefusedLogMessageConstant = "repository is not clean"
	dryRunLogMessageConstant            = "executing dry run"
	commitModeLogMessageConstant        = "sanitizing repository onto target branch"
	forcedLogMessageConstant            = "proceeding despite repository state"
	logFieldVerdictConstant             = "verdict"
	logFieldFileCountConstant           = "file_count"
)

var errMissingGitExecutor = errors.New(missingGitExecutorMessageConstant)

// StateInspector reports whether a repository worktree is clean.
type StateInspector interface {
	Inspect(executionContext context.Context, repositoryRoot string) (gitrepo.StateReport, error)
}

// Dependencies enumerates collaborators required by the service.
type Dependencies struct {
	GitExecutor    shared.GitExecutor
	StateInspector StateInspector
	Sanitizer      sanitizer.Sanitizer
	Logger         *zap.Logger
	Commit         CommitSettings
}

// Options configures a single sanitization.
type Options struct {
	FileListPath   string
	RepositoryRoot string
	Force          bool
	// TargetBranch selects commit mode; it must be empty when DryRun is set.
	TargetBranch string
	DryRun       bool
}

// Service sanitizes repositories either in place or onto a target branch.
type Service struct {
	gitExecutor    shared.GitExecutor
	stateInspector StateInspector
	runner         *Runner
	transplanter   *Transplanter
	logger         *zap.Logger
}

// NewService constructs a Service from its dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, errMissingGitExecutor
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	stateInspector := dependencies.StateInspector
	if stateInspector == nil {
		stateInspector = gitrepo.NewStateInspector()
	}

	runner := NewRunner(dependencies.Sanitizer, logger)
	transplanter, transplanterError := NewTransplanter(dependencies.GitExecutor, runner, logger, dependencies.Commit)
	if transplanterError != nil {
		return nil, transplanterError
	}

	return &Service{
		gitExecutor:    dependencies.GitExecutor,
		stateInspector: stateInspector,
		runner:         runner,
		transplanter:   transplanter,
		logger:         logger,
	}, nil
}

// Execute runs one sanitization.
// A repository that is not clean yields a Result with StatusError and a nil error unless Force is set;
// every other failure is returned as an error carrying a platform error code.
func (service *Service) Execute(executionContext context.Context, options Options) (Result, error) {
	commitMode := len(options.TargetBranch) > 0
	if commitMode == options.DryRun {
		return Result{}, platformerrors.New(platformerrors.CodeInvalidConfig, modeRequiredMessageConstant)
	}

	relativePaths, fileListError := ReadFileList(options.FileListPath)
	if fileListError != nil {
		return Result{}, fileListError
	}

	repositoryPath, repositoryPathError := shared.NewRepositoryPath(options.RepositoryRoot)
	if repositoryPathError != nil {
		return Result{}, repositoryPathError
	}
	repositoryRoot, absoluteError := filepath.Abs(repositoryPath.String())
	if absoluteError != nil {
		return Result{}, platformerrors.Wrapf(absoluteError, platformerrors.CodeInvalidConfig, repositoryRootResolveFailedTemplate, repositoryPath.String())
	}

	var targetBranch shared.BranchName
	if commitMode {
		validatedBranch, branchError := service.validateBranchName(executionContext, repositoryRoot, options.TargetBranch)
		if branchError != nil {
			return Result{}, branchError
		}
		targetBranch = validatedBranch
	}

	stateReport, inspectionError := service.stateInspector.Inspect(executionContext, repositoryRoot)
	if inspectionError != nil {
		return Result{}, inspectionError
	}
	if !stateReport.IsClean() {
		if !shared.CleanWorktreePolicyFromForce(options.Force).RequireClean() {
			service.logger.Warn(forcedLogMessageConstant, zap.String(logFieldRepositoryRootConstant, repositoryRoot), zap.Stringer(logFieldVerdictConstant, stateReport.Verdict))
		} else {
			service.logger.Info(repositoryRefusedLogMessageConstant, zap.String(logFieldRepositoryRootConstant, repositoryRoot), zap.Stringer(logFieldVerdictConstant, stateReport.Verdict))
			return newRefusedResult(stateReport), nil
		}
	}

	if options.DryRun {
		service.logger.Info(dryRunLogMessageConstant, zap.String(logFieldRepositoryRootConstant, repositoryRoot), zap.Int(logFieldFileCountConstant, len(relativePaths)))
		worktreeFilesystem, filesystemError := newBoundFilesystem(repositoryRoot)
		if filesystemError != nil {
			return Result{}, platformerrors.Wrapf(filesystemError, shared.CodeSanitizationIO, repositoryRootResolveFailedTemplate, repositoryRoot)
		}
		if runError := service.runner.Run(worktreeFilesystem, relativePaths); runError != nil {
			return Result{}, runError
		}
		return newOKResult(stateReport.Verdict, ""), nil
	}

	if guardError := service.ensureBranchCanBePublished(repositoryRoot, targetBranch); guardError != nil {
		return Result{}, guardError
	}

	service.logger.Info(
		commitModeLogMessageConstant,
		zap.String(logFieldRepositoryRootConstant, repositoryRoot),
		zap.String(logFieldTargetBranchConstant, targetBranch.String()),
		zap.Int(logFieldFileCountConstant, len(relativePaths)),
	)
	transplantResult, transplantError := service.transplanter.CommitSanitizedToBranch(executionContext, repositoryRoot, relativePaths, targetBranch)
	if transplantError != nil {
		return Result{}, transplantError
	}
	return newOKResult(stateReport.Verdict, transplantResult.CommitHash), nil
}

func (service *Service) validateBranchName(executionContext context.Context, repositoryRoot string, rawBranchName string) (shared.BranchName, error) {
	branchName, branchNameError := shared.NewBranchName(rawBranchName)
	if branchNameError != nil {
		return shared.BranchName{}, branchNameError
	}

	_, formatError := service.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:                 []string{gitCheckRefFormatSubcommandConstant, branchName.ReferenceName()},
		WorkingDirectory:          repositoryRoot,
		UnsetEnvironmentVariables: repositoryLocationEnvironmentVariables,
	})
	if formatError == nil {
		return branchName, nil
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(formatError, &commandFailure) {
		return shared.BranchName{}, platformerrors.Wrapf(formatError, platformerrors.CodeInvalidConfig, invalidBranchNameTemplateConstant, branchName.String())
	}
	return shared.BranchName{}, wrapGitError(formatError, gitCheckRefFormatSubcommandConstant)
}

// ensureBranchCanBePublished rejects repositories where fetching into the target branch would
// fail or would rewrite the caller's checkout.
func (service *Service) ensureBranchCanBePublished(repositoryRoot string, targetBranch shared.BranchName) error {
	repository, openError := gitrepo.Open(repositoryRoot)
	if openError != nil {
		return openError
	}
	if repository.IsLinkedWorktree() {
		return platformerrors.Newf(platformerrors.CodeInvalidConfig, linkedWorktreeTemplateConstant, repositoryRoot)
	}
	if _, headError := repository.HeadCommit(); headError != nil {
		return headError
	}
	currentBranch, branchError := repository.CurrentBranch()
	if branchError != nil {
		return branchError
	}
	if currentBranch == targetBranch.String() {
		return platformerrors.Newf(platformerrors.CodeInvalidConfig, checkedOutBranchTemplateConstant, targetBranch.String(), repositoryRoot)
	}
	return nil
}
