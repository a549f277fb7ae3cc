package sanitizerepo

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	platformerrors "github.com/jmgilman/go/errors"
	"go.uber.org/zap"

	"github.com/temirov/sanitize-repo/internal/repos/shared"
	"github.com/temirov/sanitize-repo/internal/sanitizer"
)

const (
	targetReadFailedTemplateConstant     = "unable to read %s"
	targetIsDirectoryTemplateConstant    = "%s is a directory"
	targetWriteFailedTemplateConstant    = "unable to write %s"
	targetSanitizeFailedTemplateConstant = "unable to sanitize %s"
	fileSanitizedLogMessageConstant      = "file sanitized"
	logFieldPathConstant                 = "path"
	logFieldRemovedBytesConstant         = "removed_bytes"
)

// Runner rewrites files in place with their sanitized contents.
type Runner struct {
	sanitizer sanitizer.Sanitizer
	logger    *zap.Logger
}

// NewRunner constructs a Runner; nil collaborators fall back to the marker sanitizer and a no-op logger.
func NewRunner(textSanitizer sanitizer.Sanitizer, logger *zap.Logger) *Runner {
	if textSanitizer == nil {
		textSanitizer = sanitizer.NewMarkerSanitizer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{sanitizer: textSanitizer, logger: logger}
}

// Run sanitizes each relative path of filesystem in order, preserving file modes.
// The first failure stops the run; files already rewritten stay rewritten.
func (runner *Runner) Run(filesystem billy.Filesystem, relativePaths []string) error {
	for _, relativePath := range relativePaths {
		if sanitizeError := runner.sanitizeFile(filesystem, relativePath); sanitizeError != nil {
			return sanitizeError
		}
	}
	return nil
}

func (runner *Runner) sanitizeFile(filesystem billy.Filesystem, relativePath string) error {
	fileInfo, statError := filesystem.Stat(relativePath)
	if statError != nil {
		return platformerrors.Wrapf(statError, shared.CodeSanitizationIO, targetReadFailedTemplateConstant, relativePath)
	}
	if fileInfo.IsDir() {
		return platformerrors.Newf(shared.CodeSanitizationIO, targetIsDirectoryTemplateConstant, relativePath)
	}

	contents, readError := util.ReadFile(filesystem, relativePath)
	if readError != nil {
		return platformerrors.Wrapf(readError, shared.CodeSanitizationIO, targetReadFailedTemplateConstant, relativePath)
	}

	sanitized, sanitizeError := runner.sanitizer.Sanitize(string(contents))
	if sanitizeError != nil {
		return platformerrors.Wrapf(sanitizeError, platformerrors.GetCode(sanitizeError), targetSanitizeFailedTemplateConstant, relativePath)
	}

	if writeError := util.WriteFile(filesystem, relativePath, []byte(sanitized), fileInfo.Mode().Perm()); writeError != nil {
		return platformerrors.Wrapf(writeError, shared.CodeSanitizationIO, targetWriteFailedTemplateConstant, relativePath)
	}

	runner.logger.Debug(
		fileSanitizedLogMessageConstant,
		zap.String(logFieldPathConstant, relativePath),
		zap.Int(logFieldRemovedBytesConstant, len(contents)-len(sanitized)),
	)
	return nil
}
