package sanitizerepo

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

const (
	copyTreeRootConstant         = "."
	minimumDirectoryModeConstant = os.FileMode(0o700)
	copyFileOpenFlagsConstant    = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
)

// newBoundFilesystem confines a filesystem to root after resolving symbolic links in root itself,
// so that containment checks compare resolved paths.
func newBoundFilesystem(root string) (billy.Filesystem, error) {
	resolvedRoot, resolveError := filepath.EvalSymlinks(root)
	if resolveError != nil {
		return nil, resolveError
	}
	return osfs.New(resolvedRoot, osfs.WithBoundOS()), nil
}

// copyTree replicates directories, regular files, and symbolic links from source into destination.
// Other file types such as sockets are skipped.
func copyTree(source billy.Filesystem, destination billy.Filesystem) error {
	return util.Walk(source, copyTreeRootConstant, func(path string, info os.FileInfo, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if path == copyTreeRootConstant {
			return nil
		}

		mode := info.Mode()
		switch {
		case mode.IsDir():
			return destination.MkdirAll(path, mode.Perm()|minimumDirectoryModeConstant)
		case mode&os.ModeSymlink != 0:
			linkTarget, readlinkError := source.Readlink(path)
			if readlinkError != nil {
				return readlinkError
			}
			return destination.Symlink(linkTarget, path)
		case mode.IsRegular():
			return copyFile(source, destination, path, mode.Perm())
		default:
			return nil
		}
	})
}

func copyFile(source billy.Filesystem, destination billy.Filesystem, path string, mode os.FileMode) (copyError error) {
	sourceFile, openError := source.Open(path)
	if openError != nil {
		return openError
	}
	defer sourceFile.Close()

	destinationFile, createError := destination.OpenFile(path, copyFileOpenFlagsConstant, mode)
	if createError != nil {
		return createError
	}
	defer func() {
		if closeError := destinationFile.Close(); closeError != nil && copyError == nil {
			copyError = closeError
		}
	}()

	_, copyError = io.Copy(destinationFile, sourceFile)
	return copyError
}
