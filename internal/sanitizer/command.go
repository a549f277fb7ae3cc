package sanitizer

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	platformerrors "github.com/jmgilman/go/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/sanitize-repo/internal/repos/shared"
)

const (
	commandUseConstant                = "file INPUT OUTPUT"
	commandShortDescriptionConstant   = "Sanitize a single file"
	commandLongDescriptionConstant    = "file reads INPUT, removes every REPOBEE-SANITIZER region, and writes the result to OUTPUT."
	defaultOutputFileModeConstant     = os.FileMode(0o644)
	fileSanitizedMessageTemplate      = "SANITIZED: %s -> %s\n"
	readInputFailedTemplateConstant   = "unable to read %s"
	writeOutputFailedTemplateConstant = "unable to write %s"
	sanitizeInputFailedTemplate       = "unable to sanitize %s"
	resolvePathFailedTemplateConstant = "unable to resolve path %s"
	logFieldInputPathConstant         = "input_path"
	logFieldOutputPathConstant        = "output_path"
	fileSanitizedLogMessageConstant   = "file sanitized"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the file command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	Filesystem     billy.Filesystem
	Sanitizer      Sanitizer
}

// Build constructs the file command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(2),
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	inputPath, inputPathError := builder.resolvePath(arguments[0])
	if inputPathError != nil {
		return inputPathError
	}
	outputPath, outputPathError := builder.resolvePath(arguments[1])
	if outputPathError != nil {
		return outputPathError
	}

	filesystem := builder.resolveFilesystem()
	contents, readError := util.ReadFile(filesystem, inputPath)
	if readError != nil {
		return platformerrors.Wrapf(readError, shared.CodeSanitizationIO, readInputFailedTemplateConstant, inputPath)
	}

	sanitized, sanitizeError := builder.resolveSanitizer().Sanitize(string(contents))
	if sanitizeError != nil {
		return platformerrors.Wrapf(sanitizeError, platformerrors.GetCode(sanitizeError), sanitizeInputFailedTemplate, inputPath)
	}

	outputMode := defaultOutputFileModeConstant
	if existingOutput, statError := filesystem.Stat(outputPath); statError == nil {
		outputMode = existingOutput.Mode().Perm()
	}
	if writeError := util.WriteFile(filesystem, outputPath, []byte(sanitized), outputMode); writeError != nil {
		return platformerrors.Wrapf(writeError, shared.CodeSanitizationIO, writeOutputFailedTemplateConstant, outputPath)
	}

	builder.resolveLogger().Debug(
		fileSanitizedLogMessageConstant,
		zap.String(logFieldInputPathConstant, inputPath),
		zap.String(logFieldOutputPathConstant, outputPath),
	)
	shared.NewWriterReporter(command.OutOrStdout()).Printf(fileSanitizedMessageTemplate, inputPath, outputPath)
	return nil
}

// resolvePath makes paths absolute only for the default host filesystem.
func (builder *CommandBuilder) resolvePath(path string) (string, error) {
	if builder.Filesystem != nil {
		return path, nil
	}
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return "", platformerrors.Wrapf(absoluteError, platformerrors.CodeInvalidInput, resolvePathFailedTemplateConstant, path)
	}
	return absolutePath, nil
}

func (builder *CommandBuilder) resolveFilesystem() billy.Filesystem {
	if builder.Filesystem != nil {
		return builder.Filesystem
	}
	return osfs.New(string(filepath.Separator))
}

func (builder *CommandBuilder) resolveSanitizer() Sanitizer {
	if builder.Sanitizer != nil {
		return builder.Sanitizer
	}
	return NewMarkerSanitizer()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
