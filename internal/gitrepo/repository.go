package gitrepo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	platformerrors "github.com/jmgilman/go/errors"

	"github.com/temirov/sanitize-repo/internal/repos/shared"
)

const (
	dotGitEntryNameConstant                = ".git"
	repositoryRootMissingTemplateConstant  = "repository root %s does not exist"
	repositoryRootNotDirectoryTemplate     = "repository root %s is not a directory"
	repositoryRootNotWorktreeTemplate      = "%s is not the root of a git worktree"
	repositoryRootInspectionTemplate       = "unable to inspect repository root %s"
	repositoryOpenFailedTemplateConstant   = "unable to open repository at %s"
	repositoryScopeFailedTemplateConstant  = "unable to access git directory of %s"
	repositoryHeadReadFailedMessage        = "unable to read HEAD"
	repositoryHasNoCommitsTemplateConstant = "repository at %s has no commits"
	branchLookupFailedTemplateConstant     = "unable to look up branch %s"
	branchNotFoundTemplateConstant         = "branch %s does not exist"
	commitLookupFailedTemplateConstant     = "unable to read commit %s"
	fileAtBranchLookupFailedTemplate       = "unable to read %s on branch %s"
	worktreeOpenFailedMessageConstant      = "unable to open worktree"
	worktreeStatusFailedMessageConstant    = "unable to compute worktree status"
)

// Repository is a read-only view of a git worktree rooted at a specific directory.
type Repository struct {
	root           string
	repository     *gogit.Repository
	linkedWorktree bool
}

// Open opens the repository whose worktree root is exactly root.
// Parent directories are not searched and nothing is initialized: a directory
// without a .git entry yields a CodeNotFound error.
func Open(root string) (*Repository, error) {
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return nil, platformerrors.Wrapf(absoluteError, platformerrors.CodeInvalidConfig, repositoryRootInspectionTemplate, root)
	}

	rootInfo, rootStatError := os.Stat(absoluteRoot)
	switch {
	case errors.Is(rootStatError, fs.ErrNotExist):
		return nil, platformerrors.Newf(platformerrors.CodeNotFound, repositoryRootMissingTemplateConstant, absoluteRoot)
	case rootStatError != nil:
		return nil, platformerrors.Wrapf(rootStatError, shared.CodeVersionControl, repositoryRootInspectionTemplate, absoluteRoot)
	case !rootInfo.IsDir():
		return nil, platformerrors.Newf(platformerrors.CodeNotFound, repositoryRootNotDirectoryTemplate, absoluteRoot)
	}

	worktreeFilesystem := osfs.New(absoluteRoot)
	dotGitInfo, dotGitStatError := worktreeFilesystem.Lstat(dotGitEntryNameConstant)
	switch {
	case errors.Is(dotGitStatError, fs.ErrNotExist):
		return nil, platformerrors.Newf(platformerrors.CodeNotFound, repositoryRootNotWorktreeTemplate, absoluteRoot)
	case dotGitStatError != nil:
		return nil, platformerrors.Wrapf(dotGitStatError, shared.CodeVersionControl, repositoryRootInspectionTemplate, absoluteRoot)
	}

	if !dotGitInfo.IsDir() {
		linkedRepository, openError := gogit.PlainOpenWithOptions(absoluteRoot, &gogit.PlainOpenOptions{EnableDotGitCommonDir: true})
		if openError != nil {
			return nil, classifyError(openError, repositoryOpenFailedMessage(absoluteRoot))
		}
		return &Repository{root: absoluteRoot, repository: linkedRepository, linkedWorktree: true}, nil
	}

	dotGitFilesystem, chrootError := worktreeFilesystem.Chroot(dotGitEntryNameConstant)
	if chrootError != nil {
		return nil, platformerrors.Wrapf(chrootError, shared.CodeVersionControl, repositoryScopeFailedTemplateConstant, absoluteRoot)
	}

	storage := filesystem.NewStorage(dotGitFilesystem, cache.NewObjectLRUDefault())
	openedRepository, openError := gogit.Open(storage, worktreeFilesystem)
	if openError != nil {
		return nil, classifyError(openError, repositoryOpenFailedMessage(absoluteRoot))
	}

	return &Repository{root: absoluteRoot, repository: openedRepository}, nil
}

// Root returns the absolute worktree root.
func (repository *Repository) Root() string {
	return repository.root
}

// IsLinkedWorktree reports whether the root is a secondary worktree whose .git entry is a file.
func (repository *Repository) IsLinkedWorktree() bool {
	return repository.linkedWorktree
}

// CurrentBranch returns the short name of the checked-out branch, or an empty string when HEAD is detached.
// The branch is reported even when it has no commits yet.
func (repository *Repository) CurrentBranch() (string, error) {
	headReference, headError := repository.repository.Storer.Reference(plumbing.HEAD)
	if headError != nil {
		return "", classifyError(headError, repositoryHeadReadFailedMessage)
	}
	if headReference.Type() != plumbing.SymbolicReference {
		return "", nil
	}
	if !headReference.Target().IsBranch() {
		return "", nil
	}
	return headReference.Target().Short(), nil
}

// HeadCommit returns the hash of the commit HEAD resolves to.
// A repository without commits yields a CodeVersionControl error.
func (repository *Repository) HeadCommit() (string, error) {
	headReference, headError := repository.repository.Head()
	if errors.Is(headError, plumbing.ErrReferenceNotFound) {
		return "", platformerrors.Newf(shared.CodeVersionControl, repositoryHasNoCommitsTemplateConstant, repository.root)
	}
	if headError != nil {
		return "", classifyError(headError, repositoryHeadReadFailedMessage)
	}
	return headReference.Hash().String(), nil
}

// BranchExists reports whether refs/heads/<branchName> exists.
func (repository *Repository) BranchExists(branchName string) (bool, error) {
	_, referenceError := repository.repository.Reference(plumbing.NewBranchReferenceName(branchName), true)
	if errors.Is(referenceError, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if referenceError != nil {
		return false, classifyError(referenceError, fmt.Sprintf(branchLookupFailedTemplateConstant, branchName))
	}
	return true, nil
}

// BranchCommit returns the hash refs/heads/<branchName> points to.
func (repository *Repository) BranchCommit(branchName string) (string, error) {
	commit, commitError := repository.branchCommitObject(branchName)
	if commitError != nil {
		return "", commitError
	}
	return commit.Hash.String(), nil
}

// BranchCommitParents returns the parent hashes of the commit at the tip of branchName.
func (repository *Repository) BranchCommitParents(branchName string) ([]string, error) {
	commit, commitError := repository.branchCommitObject(branchName)
	if commitError != nil {
		return nil, commitError
	}
	parentHashes := make([]string, 0, len(commit.ParentHashes))
	for _, parentHash := range commit.ParentHashes {
		parentHashes = append(parentHashes, parentHash.String())
	}
	return parentHashes, nil
}

// ReadFileAtBranch returns the contents of relativePath in the tree at the tip of branchName
// without checking the branch out.
func (repository *Repository) ReadFileAtBranch(branchName string, relativePath string) (string, error) {
	commit, commitError := repository.branchCommitObject(branchName)
	if commitError != nil {
		return "", commitError
	}

	file, fileError := commit.File(filepath.ToSlash(relativePath))
	if fileError != nil {
		if errors.Is(fileError, object.ErrFileNotFound) {
			return "", platformerrors.Wrap(fileError, platformerrors.CodeNotFound, fmt.Sprintf(fileAtBranchLookupFailedTemplate, relativePath, branchName))
		}
		return "", classifyError(fileError, fmt.Sprintf(fileAtBranchLookupFailedTemplate, relativePath, branchName))
	}

	contents, contentsError := file.Contents()
	if contentsError != nil {
		return "", classifyError(contentsError, fmt.Sprintf(fileAtBranchLookupFailedTemplate, relativePath, branchName))
	}
	return contents, nil
}

func (repository *Repository) branchCommitObject(branchName string) (*object.Commit, error) {
	branchReference, referenceError := repository.repository.Reference(plumbing.NewBranchReferenceName(branchName), true)
	if errors.Is(referenceError, plumbing.ErrReferenceNotFound) {
		return nil, platformerrors.Wrapf(referenceError, platformerrors.CodeNotFound, branchNotFoundTemplateConstant, branchName)
	}
	if referenceError != nil {
		return nil, classifyError(referenceError, fmt.Sprintf(branchLookupFailedTemplateConstant, branchName))
	}

	commit, commitError := repository.repository.CommitObject(branchReference.Hash())
	if commitError != nil {
		return nil, classifyError(commitError, fmt.Sprintf(commitLookupFailedTemplateConstant, branchReference.Hash().String()))
	}
	return commit, nil
}

func (repository *Repository) worktreeStatus() (gogit.Status, error) {
	worktree, worktreeError := repository.repository.Worktree()
	if worktreeError != nil {
		return nil, classifyError(worktreeError, worktreeOpenFailedMessageConstant)
	}
	excludePatterns, excludesError := userExcludePatterns()
	if excludesError != nil {
		return nil, excludesError
	}
	worktree.Excludes = append(worktree.Excludes, excludePatterns...)
	status, statusError := worktree.Status()
	if statusError != nil {
		return nil, classifyError(statusError, worktreeStatusFailedMessageConstant)
	}
	return status, nil
}

func repositoryOpenFailedMessage(root string) string {
	return fmt.Sprintf(repositoryOpenFailedTemplateConstant, root)
}
