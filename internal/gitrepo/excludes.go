package gitrepo

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const (
	filesystemRootPathConstant               = "/"
	xdgConfigHomeEnvironmentVariableConstant = "XDG_CONFIG_HOME"
	defaultConfigDirectoryNameConstant       = ".config"
	gitConfigDirectoryNameConstant           = "git"
	defaultExcludesFileNameConstant          = "ignore"
	excludesCommentPrefixConstant            = "#"
	excludesLoadFailedMessageConstant        = "unable to load git exclude patterns"
)

// userExcludePatterns returns the system and per-user exclude patterns git applies
// on top of the repository's own .gitignore files and info/exclude, lowest priority first.
// The per-user file is core.excludesfile from ~/.gitconfig, or $XDG_CONFIG_HOME/git/ignore
// when that option is unset.
func userExcludePatterns() ([]gitignore.Pattern, error) {
	rootFilesystem := osfs.New(filesystemRootPathConstant)

	systemPatterns, systemError := gitignore.LoadSystemPatterns(rootFilesystem)
	if systemError != nil {
		return nil, classifyError(systemError, excludesLoadFailedMessageConstant)
	}

	globalPatterns, globalError := gitignore.LoadGlobalPatterns(rootFilesystem)
	if globalError != nil {
		return nil, classifyError(globalError, excludesLoadFailedMessageConstant)
	}

	if len(globalPatterns) == 0 {
		defaultPatterns, defaultError := readExcludesFile(rootFilesystem, defaultExcludesFilePath())
		if defaultError != nil {
			return nil, classifyError(defaultError, excludesLoadFailedMessageConstant)
		}
		globalPatterns = defaultPatterns
	}

	return append(systemPatterns, globalPatterns...), nil
}

func defaultExcludesFilePath() string {
	configHome := os.Getenv(xdgConfigHomeEnvironmentVariableConstant)
	if len(configHome) == 0 {
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return ""
		}
		configHome = filepath.Join(homeDirectory, defaultConfigDirectoryNameConstant)
	}
	return filepath.Join(configHome, gitConfigDirectoryNameConstant, defaultExcludesFileNameConstant)
}

func readExcludesFile(filesystem billy.Filesystem, path string) ([]gitignore.Pattern, error) {
	if len(path) == 0 {
		return nil, nil
	}

	file, openError := filesystem.Open(path)
	if errors.Is(openError, fs.ErrNotExist) {
		return nil, nil
	}
	if openError != nil {
		return nil, openError
	}
	defer file.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, excludesCommentPrefixConstant) || len(strings.TrimSpace(line)) == 0 {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return patterns, nil
}
