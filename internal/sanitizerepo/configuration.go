package sanitizerepo

import (
	"strings"
	"time"

	pathutils "github.com/temirov/sanitize-repo/internal/utils/path"
)

const (
	defaultCommitMessageConstant  = "Sanitize files"
	defaultRepositoryRootConstant = "."
)

// CommandConfiguration captures configuration values for the repo command.
type CommandConfiguration struct {
	CommitMessage  string        `mapstructure:"commit_message"`
	AuthorName     string        `mapstructure:"author_name"`
	AuthorEmail    string        `mapstructure:"author_email"`
	ScratchRoot    string        `mapstructure:"scratch_root"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	FileList       string        `mapstructure:"file_list"`
	RepositoryRoot string        `mapstructure:"repository_root"`
}

// DefaultCommandConfiguration provides baseline configuration values for the repo command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		CommitMessage:  defaultCommitMessageConstant,
		RepositoryRoot: defaultRepositoryRootConstant,
	}
}

// Sanitize trims values, expands home directory shortcuts, and restores defaults for blank fields.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	homeExpander := pathutils.NewHomeExpander()
	sanitized := configuration

	sanitized.CommitMessage = strings.TrimSpace(configuration.CommitMessage)
	if len(sanitized.CommitMessage) == 0 {
		sanitized.CommitMessage = defaultCommitMessageConstant
	}
	sanitized.AuthorName = strings.TrimSpace(configuration.AuthorName)
	sanitized.AuthorEmail = strings.TrimSpace(configuration.AuthorEmail)
	sanitized.ScratchRoot = homeExpander.Expand(strings.TrimSpace(configuration.ScratchRoot))
	sanitized.FileList = homeExpander.Expand(strings.TrimSpace(configuration.FileList))
	sanitized.RepositoryRoot = homeExpander.Expand(strings.TrimSpace(configuration.RepositoryRoot))
	if len(sanitized.RepositoryRoot) == 0 {
		sanitized.RepositoryRoot = defaultRepositoryRootConstant
	}
	if sanitized.CommandTimeout < 0 {
		sanitized.CommandTimeout = 0
	}

	return sanitized
}
