package sanitizerepo

import (
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/sanitize-repo/internal/repos/dependencies"
	"github.com/temirov/sanitize-repo/internal/repos/shared"
	"github.com/temirov/sanitize-repo/internal/sanitizer"
	"github.com/temirov/sanitize-repo/internal/utils/flags"
	pathutils "github.com/temirov/sanitize-repo/internal/utils/path"
)

const (
	commandUseConstant                  = "repo"
	commandShortDescriptionConstant     = "Sanitize files of a repository in place or onto a branch"
	commandLongDescriptionConstant      = "repo sanitizes the files named in a file list. With --no-commit the worktree files are rewritten in place; with --target-branch the sanitized files are committed to that branch without checking it out or touching the worktree."
	fileListFlagNameConstant            = "file-list"
	fileListFlagShorthandConstant       = "f"
	fileListFlagDescriptionConstant     = "Path to a list of files to sanitize, relative to the repository root"
	repositoryRootFlagNameConstant      = "repo-root"
	repositoryRootFlagShorthandConstant = "r"
	repositoryRootFlagDescription       = "Path to the worktree root of the repository to sanitize"
	forceFlagNameConstant               = "force"
	forceFlagDescriptionConstant        = "Allow uncommitted and untracked files"
	targetBranchFlagNameConstant        = "target-branch"
	targetBranchFlagShorthandConstant   = "t"
	targetBranchFlagDescription         = "Name of the branch to commit the sanitized files to"
	noCommitFlagNameConstant            = "no-commit"
	noCommitFlagDescriptionConstant     = "Sanitize the worktree in the repository without committing"
	missingFileListMessageConstant      = "file list is required; supply --file-list"
	repositoryNotCleanTemplateConstant  = "%s: %s; rerun with --force to sanitize anyway"
	dryRunLabelConstant                 = "dry run"
	dryRunSuccessTemplateConstant       = "SANITIZED: %s (%s)\n"
	commitSuccessTemplateConstant       = "SANITIZED: %s (%s %s)\n"
	shortCommitHashLengthConstant       = 12
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the repo command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  shared.GitExecutor
	StateInspector               StateInspector
	Sanitizer                    sanitizer.Sanitizer
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the repo command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	var forceToggle bool
	var noCommitToggle bool
	command.Flags().StringP(fileListFlagNameConstant, fileListFlagShorthandConstant, "", fileListFlagDescriptionConstant)
	command.Flags().StringP(repositoryRootFlagNameConstant, repositoryRootFlagShorthandConstant, "", repositoryRootFlagDescription)
	flags.AddToggleFlag(command.Flags(), &forceToggle, forceFlagNameConstant, "", false, forceFlagDescriptionConstant)
	command.Flags().StringP(targetBranchFlagNameConstant, targetBranchFlagShorthandConstant, "", targetBranchFlagDescription)
	flags.AddToggleFlag(command.Flags(), &noCommitToggle, noCommitFlagNameConstant, "", false, noCommitFlagDescriptionConstant)

	command.MarkFlagsMutuallyExclusive(targetBranchFlagNameConstant, noCommitFlagNameConstant)
	command.MarkFlagsOneRequired(targetBranchFlagNameConstant, noCommitFlagNameConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	homeExpander := pathutils.NewHomeExpander()

	fileListPath := configuration.FileList
	if command.Flags().Changed(fileListFlagNameConstant) {
		flagValue, flagError := command.Flags().GetString(fileListFlagNameConstant)
		if flagError != nil {
			return flagError
		}
		fileListPath = homeExpander.Expand(strings.TrimSpace(flagValue))
	}
	if len(fileListPath) == 0 {
		return platformerrors.New(platformerrors.CodeInvalidConfig, missingFileListMessageConstant)
	}

	repositoryRoot := configuration.RepositoryRoot
	if command.Flags().Changed(repositoryRootFlagNameConstant) {
		flagValue, flagError := command.Flags().GetString(repositoryRootFlagNameConstant)
		if flagError != nil {
			return flagError
		}
		repositoryRoot = homeExpander.Expand(strings.TrimSpace(flagValue))
	}

	forceRequested, forceError := command.Flags().GetBool(forceFlagNameConstant)
	if forceError != nil {
		return forceError
	}
	dryRunRequested, noCommitError := command.Flags().GetBool(noCommitFlagNameConstant)
	if noCommitError != nil {
		return noCommitError
	}
	targetBranch, targetBranchError := command.Flags().GetString(targetBranchFlagNameConstant)
	if targetBranchError != nil {
		return targetBranchError
	}

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, dependencies.GitExecutorOptions{
		HumanReadableLogging: humanReadableLogging,
		CommandTimeout:       configuration.CommandTimeout,
	})
	if executorError != nil {
		return executorError
	}

	service, serviceCreationError := NewService(Dependencies{
		GitExecutor:    gitExecutor,
		StateInspector: builder.StateInspector,
		Sanitizer:      dependencies.ResolveSanitizer(builder.Sanitizer),
		Logger:         logger,
		Commit: CommitSettings{
			Message:     configuration.CommitMessage,
			AuthorName:  configuration.AuthorName,
			AuthorEmail: configuration.AuthorEmail,
			ScratchRoot: configuration.ScratchRoot,
		},
	})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	result, executionError := service.Execute(command.Context(), Options{
		FileListPath:   fileListPath,
		RepositoryRoot: repositoryRoot,
		Force:          forceRequested,
		TargetBranch:   strings.TrimSpace(targetBranch),
		DryRun:         dryRunRequested,
	})
	if executionError != nil {
		return executionError
	}
	if result.Status != StatusOK {
		return platformerrors.Newf(platformerrors.CodeConflict, repositoryNotCleanTemplateConstant, repositoryRoot, result.Message)
	}

	reporter := shared.NewWriterReporter(command.OutOrStdout())
	if dryRunRequested {
		reporter.Printf(dryRunSuccessTemplateConstant, repositoryRoot, dryRunLabelConstant)
		return nil
	}
	reporter.Printf(commitSuccessTemplateConstant, repositoryRoot, strings.TrimSpace(targetBranch), shortenCommitHash(result.CommitHash))
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func shortenCommitHash(commitHash string) string {
	if len(commitHash) <= shortCommitHashLengthConstant {
		return commitHash
	}
	return commitHash[:shortCommitHashLengthConstant]
}
