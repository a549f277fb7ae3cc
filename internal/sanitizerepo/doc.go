// Package sanitizerepo implements the repo command: it sanitizes the files named in a file list
// either directly in the worktree (dry run) or as a new commit on a target branch.
//
// Commit mode never checks out the target branch. The repository is copied into a scratch
// directory, reset to HEAD, sanitized and committed there, and only the resulting branch
// reference is fetched back. A repository with staged, untracked, or unstaged changes is refused
// unless forced.
package sanitizerepo
