package shared

import (
	platformerrors "github.com/jmgilman/go/errors"
)

// Error codes for failures specific to repository sanitization. Configuration, lookup, and input
// failures use the platform codes CodeInvalidConfig, CodeNotFound, and CodeInvalidInput.
const (
	// CodeSanitizationIO marks failures reading or writing a file selected for sanitization.
	CodeSanitizationIO platformerrors.ErrorCode = "SANITIZATION_IO_FAILED"
	// CodeVersionControl marks failures reported by git or by the repository storage.
	CodeVersionControl platformerrors.ErrorCode = "VERSION_CONTROL_FAILED"
)
