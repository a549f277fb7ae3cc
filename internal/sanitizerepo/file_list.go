package sanitizerepo

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	platformerrors "github.com/jmgilman/go/errors"

	"github.com/temirov/sanitize-repo/internal/repos/shared"
)

const (
	fileListMissingTemplateConstant    = "file list %s does not exist"
	fileListDirectoryTemplateConstant  = "file list %s is a directory"
	fileListUnreadableTemplateConstant = "unable to read file list %s"
	fileListResolveFailedTemplate      = "unable to resolve file list path %s"
	fileListEntrySeparatorConstant     = "\n"
)

// ReadFileList reads the newline-separated list of repository-relative paths at path.
func ReadFileList(path string) ([]string, error) {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return nil, platformerrors.Wrapf(absoluteError, platformerrors.CodeInvalidConfig, fileListResolveFailedTemplate, path)
	}
	return ReadFileListFrom(osfs.New(string(filepath.Separator)), absolutePath)
}

// ReadFileListFrom reads a file list from the provided filesystem.
// Entries are trimmed and blank lines are skipped; entries are not checked for existence.
func ReadFileListFrom(filesystem billy.Filesystem, path string) ([]string, error) {
	fileInfo, statError := filesystem.Stat(path)
	switch {
	case errors.Is(statError, fs.ErrNotExist):
		return nil, platformerrors.Newf(platformerrors.CodeInvalidConfig, fileListMissingTemplateConstant, path)
	case statError != nil:
		return nil, platformerrors.Wrapf(statError, shared.CodeSanitizationIO, fileListUnreadableTemplateConstant, path)
	case fileInfo.IsDir():
		return nil, platformerrors.Newf(platformerrors.CodeInvalidConfig, fileListDirectoryTemplateConstant, path)
	}

	contents, readError := util.ReadFile(filesystem, path)
	if readError != nil {
		return nil, platformerrors.Wrapf(readError, shared.CodeSanitizationIO, fileListUnreadableTemplateConstant, path)
	}

	trimmedContents := strings.TrimSpace(string(contents))
	entries := make([]string, 0)
	if len(trimmedContents) == 0 {
		return entries, nil
	}
	for _, line := range strings.Split(trimmedContents, fileListEntrySeparatorConstant) {
		entry := strings.TrimSpace(line)
		if len(entry) == 0 {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
