package shared

import (
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
)

const (
	repositoryPathRequiredMessageConstant = "repository path is required"
	repositoryPathNewlineMessageConstant  = "repository path must not contain line breaks"
	branchNameRequiredMessageConstant     = "target branch name is required"
	branchNameWhitespaceTemplateConstant  = "target branch name %q must not contain whitespace"
	branchNameLeadingDashTemplateConstant = "target branch name %q must not start with a dash"
	branchNameReservedTemplateConstant    = "target branch name %q is reserved"
	branchNameReflogTemplateConstant      = "target branch name %q must not contain @{"
	branchNameReferencePrefixConstant     = "refs/heads/"
	branchNameHeadConstant                = "HEAD"
	branchNameDashPrefixConstant          = "-"
	branchNameReflogSequenceConstant      = "@{"
	lineBreakCharactersConstant           = "\r\n"
)

// RepositoryPath is a trimmed, single-line filesystem path to a repository worktree.
type RepositoryPath struct {
	value string
}

// NewRepositoryPath trims and validates a repository path.
func NewRepositoryPath(raw string) (RepositoryPath, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return RepositoryPath{}, platformerrors.New(platformerrors.CodeInvalidConfig, repositoryPathRequiredMessageConstant)
	}
	if strings.ContainsAny(trimmed, lineBreakCharactersConstant) {
		return RepositoryPath{}, platformerrors.New(platformerrors.CodeInvalidConfig, repositoryPathNewlineMessageConstant)
	}
	return RepositoryPath{value: trimmed}, nil
}

// String returns the path.
func (path RepositoryPath) String() string {
	return path.value
}

// BranchName is a short local branch name such as "student".
// Full ref-format rules are enforced by git check-ref-format on the refs/heads/ reference.
type BranchName struct {
	value string
}

// NewBranchName trims and validates a branch name, accepting an optional refs/heads/ prefix.
func NewBranchName(raw string) (BranchName, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), branchNameReferencePrefixConstant)
	if len(trimmed) == 0 {
		return BranchName{}, platformerrors.New(platformerrors.CodeInvalidConfig, branchNameRequiredMessageConstant)
	}
	if strings.ContainsFunc(trimmed, isWhitespaceRune) {
		return BranchName{}, platformerrors.Newf(platformerrors.CodeInvalidConfig, branchNameWhitespaceTemplateConstant, trimmed)
	}
	if strings.HasPrefix(trimmed, branchNameDashPrefixConstant) {
		return BranchName{}, platformerrors.Newf(platformerrors.CodeInvalidConfig, branchNameLeadingDashTemplateConstant, trimmed)
	}
	if trimmed == branchNameHeadConstant {
		return BranchName{}, platformerrors.Newf(platformerrors.CodeInvalidConfig, branchNameReservedTemplateConstant, trimmed)
	}
	if strings.Contains(trimmed, branchNameReflogSequenceConstant) {
		return BranchName{}, platformerrors.Newf(platformerrors.CodeInvalidConfig, branchNameReflogTemplateConstant, trimmed)
	}
	return BranchName{value: trimmed}, nil
}

// String returns the short branch name.
func (name BranchName) String() string {
	return name.value
}

// ReferenceName returns the fully qualified reference, e.g. refs/heads/student.
func (name BranchName) ReferenceName() string {
	return branchNameReferencePrefixConstant + name.value
}

func isWhitespaceRune(character rune) bool {
	switch character {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}
