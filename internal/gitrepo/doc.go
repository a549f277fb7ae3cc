// Package gitrepo reads repository state without invoking the git executable.
//
// Repository opens a worktree root through go-git and answers the questions
// the sanitization pipeline asks before and after it runs: which branch is
// checked out, whether a branch exists, what a file contains on a branch, and
// whether the worktree is clean. StateInspector turns worktree status into a
// Verdict. Nothing in this package mutates a repository.
package gitrepo
