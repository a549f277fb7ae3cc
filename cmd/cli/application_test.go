package cli_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/sanitize-repo/cmd/cli"
	"github.com/temirov/sanitize-repo/internal/sanitizerepo"
)

const (
	testApplicationNameConstant        = "sanitize-repo"
	testInputFileNameConstant          = "solution.py"
	testOutputFileNameConstant         = "template.py"
	testMarkedSourceConstant           = "def add(a, b):\n    # REPOBEE-SANITIZER-START\n    return a + b\n    # REPOBEE-SANITIZER-REPLACE-WITH\n    # raise NotImplementedError()\n    # REPOBEE-SANITIZER-END\n"
	testSanitizedSourceConstant        = "def add(a, b):\n    raise NotImplementedError()\n"
	testDefaultCommitMessageConstant   = "Sanitize files"
	testDefaultRepositoryRootConstant  = "."
	testConfigurationTypeConstant      = "yaml"
	testRepoFlagGroupErrorFragment     = "target-branch"
	testFileArgumentCountErrorFragment = "accepts 2 arg(s)"
)

type stdoutCapture struct {
	original *os.File
	reader   *os.File
	writer   *os.File
}

func startStdoutCapture(testInstance *testing.T) *stdoutCapture {
	testInstance.Helper()

	reader, writer, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError)

	capture := &stdoutCapture{original: os.Stdout, reader: reader, writer: writer}
	os.Stdout = writer
	testInstance.Cleanup(func() {
		os.Stdout = capture.original
	})
	return capture
}

func (capture *stdoutCapture) Stop(testInstance *testing.T) string {
	testInstance.Helper()

	os.Stdout = capture.original
	require.NoError(testInstance, capture.writer.Close())

	capturedBytes, readError := io.ReadAll(capture.reader)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, capture.reader.Close())
	return string(capturedBytes)
}

func runWithArguments(testInstance *testing.T, arguments ...string) error {
	testInstance.Helper()

	originalArguments := os.Args
	testInstance.Cleanup(func() {
		os.Args = originalArguments
	})
	os.Args = append([]string{testApplicationNameConstant}, arguments...)

	return cli.NewApplication().Execute()
}

func TestEmbeddedDefaultConfigurationDecodes(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, testConfigurationTypeConstant, configurationType)

	var document map[string]any
	require.NoError(testInstance, yaml.Unmarshal(configurationData, &document))

	tools, toolsPresent := document["tools"].(map[string]any)
	require.True(testInstance, toolsPresent)
	repoOptions, repoPresent := tools["repo"].(map[string]any)
	require.True(testInstance, repoPresent)

	var configuration sanitizerepo.CommandConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &configuration,
	})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(repoOptions))

	sanitized := configuration.Sanitize()
	require.Equal(testInstance, testDefaultCommitMessageConstant, sanitized.CommitMessage)
	require.Equal(testInstance, testDefaultRepositoryRootConstant, sanitized.RepositoryRoot)
	require.Equal(testInstance, time.Duration(0), sanitized.CommandTimeout)
	require.Empty(testInstance, sanitized.FileList)
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEmpty(testInstance, firstCopy)
	firstCopy[0] = '#'

	secondCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstCopy[0], secondCopy[0])
}

func TestApplicationFileCommandSanitizesFile(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	inputPath := filepath.Join(workingDirectory, testInputFileNameConstant)
	outputPath := filepath.Join(workingDirectory, testOutputFileNameConstant)
	require.NoError(testInstance, os.WriteFile(inputPath, []byte(testMarkedSourceConstant), 0o644))

	capture := startStdoutCapture(testInstance)
	executionError := runWithArguments(testInstance, "file", inputPath, outputPath)
	output := capture.Stop(testInstance)

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "SANITIZED: "+inputPath+" -> "+outputPath+"\n", output)

	sanitizedContent, readError := os.ReadFile(outputPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, testSanitizedSourceConstant, string(sanitizedContent))
}

func TestApplicationReportsCommandErrors(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		arguments             []string
		expectedErrorFragment string
	}{
		{
			name:                  "repo_without_mode",
			arguments:             []string{"repo", "--file-list", "files.txt"},
			expectedErrorFragment: testRepoFlagGroupErrorFragment,
		},
		{
			name:                  "file_without_output",
			arguments:             []string{"file", "input.py"},
			expectedErrorFragment: testFileArgumentCountErrorFragment,
		},
		{
			name:                  "unknown_log_format",
			arguments:             []string{"--log-format", "xml", "file", "input.py", "output.py"},
			expectedErrorFragment: "unable to create logger",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executionError := runWithArguments(testInstance, testCase.arguments...)
			require.Error(testInstance, executionError)
			require.Contains(testInstance, executionError.Error(), testCase.expectedErrorFragment)
		})
	}
}
