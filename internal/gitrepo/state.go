package gitrepo

import (
	"context"
	"sort"

	gogit "github.com/go-git/go-git/v5"
)

const (
	verdictCleanLabelConstant         = "clean"
	verdictDirtyStagedLabelConstant   = "dirty_staged"
	verdictHasUntrackedLabelConstant  = "has_untracked"
	verdictDirtyUnstagedLabelConstant = "dirty_unstaged"
	dirtyStagedReasonConstant         = "There are uncommitted staged files in the repo"
	hasUntrackedReasonConstant        = "There are untracked files in the repo"
	dirtyUnstagedReasonConstant       = "There are uncommitted unstaged files in the repo"
)

// Verdict classifies the worktree state. Only VerdictClean permits sanitization without force.
type Verdict int

// Supported verdicts in priority order: staged changes outrank untracked files, which outrank unstaged changes.
const (
	VerdictClean Verdict = iota
	VerdictDirtyStaged
	VerdictHasUntracked
	VerdictDirtyUnstaged
)

// String returns a stable label suitable for logs.
func (verdict Verdict) String() string {
	switch verdict {
	case VerdictDirtyStaged:
		return verdictDirtyStagedLabelConstant
	case VerdictHasUntracked:
		return verdictHasUntrackedLabelConstant
	case VerdictDirtyUnstaged:
		return verdictDirtyUnstagedLabelConstant
	default:
		return verdictCleanLabelConstant
	}
}

// Reason returns the human-readable refusal message, or an empty string for VerdictClean.
func (verdict Verdict) Reason() string {
	switch verdict {
	case VerdictDirtyStaged:
		return dirtyStagedReasonConstant
	case VerdictHasUntracked:
		return hasUntrackedReasonConstant
	case VerdictDirtyUnstaged:
		return dirtyUnstagedReasonConstant
	default:
		return ""
	}
}

// StateReport describes a worktree at the moment it was inspected.
type StateReport struct {
	Verdict        Verdict
	StagedPaths    []string
	UntrackedPaths []string
	UnstagedPaths  []string
}

// Reason returns the refusal message for the report's verdict.
func (report StateReport) Reason() string {
	return report.Verdict.Reason()
}

// IsClean reports whether the worktree has no staged, untracked, or unstaged changes.
func (report StateReport) IsClean() bool {
	return report.Verdict == VerdictClean
}

// InspectState classifies the worktree. Files ignored through .gitignore do not count as untracked.
func (repository *Repository) InspectState() (StateReport, error) {
	status, statusError := repository.worktreeStatus()
	if statusError != nil {
		return StateReport{}, statusError
	}
	return buildStateReport(status), nil
}

func buildStateReport(status gogit.Status) StateReport {
	report := StateReport{}
	for filePath, fileStatus := range status {
		if fileStatus.Staging == gogit.Untracked || fileStatus.Worktree == gogit.Untracked {
			report.UntrackedPaths = append(report.UntrackedPaths, filePath)
			continue
		}
		if fileStatus.Staging != gogit.Unmodified {
			report.StagedPaths = append(report.StagedPaths, filePath)
		}
		if fileStatus.Worktree != gogit.Unmodified {
			report.UnstagedPaths = append(report.UnstagedPaths, filePath)
		}
	}

	sort.Strings(report.StagedPaths)
	sort.Strings(report.UntrackedPaths)
	sort.Strings(report.UnstagedPaths)

	switch {
	case len(report.StagedPaths) > 0:
		report.Verdict = VerdictDirtyStaged
	case len(report.UntrackedPaths) > 0:
		report.Verdict = VerdictHasUntracked
	case len(report.UnstagedPaths) > 0:
		report.Verdict = VerdictDirtyUnstaged
	default:
		report.Verdict = VerdictClean
	}
	return report
}

// StateInspector opens repositories and reports whether they are safe to sanitize.
type StateInspector struct{}

// NewStateInspector constructs a StateInspector.
func NewStateInspector() *StateInspector {
	return &StateInspector{}
}

// Inspect opens the repository rooted at repositoryRoot and classifies its worktree.
// It never initializes a repository and never mutates one.
func (inspector *StateInspector) Inspect(executionContext context.Context, repositoryRoot string) (StateReport, error) {
	if executionContext != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return StateReport{}, contextError
		}
	}

	repository, openError := Open(repositoryRoot)
	if openError != nil {
		return StateReport{}, openError
	}
	return repository.InspectState()
}
