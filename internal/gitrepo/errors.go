package gitrepo

import (
	"errors"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	platformerrors "github.com/jmgilman/go/errors"

	"github.com/temirov/sanitize-repo/internal/repos/shared"
)

// classifyError maps go-git failures onto platform error codes, keeping the original error as the cause.
func classifyError(err error, message string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gogit.ErrRepositoryNotExists):
		return platformerrors.Wrap(err, platformerrors.CodeNotFound, message)
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return platformerrors.Wrap(err, platformerrors.CodeNotFound, message)
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return platformerrors.Wrap(err, platformerrors.CodeNotFound, message)
	default:
		return platformerrors.Wrap(err, shared.CodeVersionControl, message)
	}
}
