package shared

// CleanWorktreePolicy describes expectations for repository cleanliness.
type CleanWorktreePolicy int

const (
	// CleanWorktreeRequired enforces clean worktrees prior to executing an operation.
	CleanWorktreeRequired CleanWorktreePolicy = iota
	// CleanWorktreeOptional allows dirty worktrees.
	CleanWorktreeOptional
)

// CleanWorktreePolicyFromForce converts a force flag into a policy value.
func CleanWorktreePolicyFromForce(force bool) CleanWorktreePolicy {
	if force {
		return CleanWorktreeOptional
	}
	return CleanWorktreeRequired
}

// RequireClean reports whether a clean worktree is mandatory.
func (policy CleanWorktreePolicy) RequireClean() bool {
	return policy == CleanWorktreeRequired
}
