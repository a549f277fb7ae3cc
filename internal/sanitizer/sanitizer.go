package sanitizer

import (
	"strings"
	"unicode"

	platformerrors "github.com/jmgilman/go/errors"
)

const (
	// StartMarker opens an instructor-only region.
	StartMarker = "REPOBEE-SANITIZER-START"
	// ReplaceMarker separates removed lines from the replacement lines of a region.
	ReplaceMarker = "REPOBEE-SANITIZER-REPLACE-WITH"
	// EndMarker closes an instructor-only region.
	EndMarker = "REPOBEE-SANITIZER-END"

	lineSeparatorConstant              = "\n"
	nestedStartTemplateConstant        = "line %d: %s inside the region opened on line %d"
	replaceOutsideRegionTemplate       = "line %d: %s outside a region"
	duplicateReplaceTemplateConstant   = "line %d: second %s in the region opened on line %d"
	endWithoutStartTemplateConstant    = "line %d: %s without a matching %s"
	unterminatedRegionTemplateConstant = "line %d: %s is never closed by %s"
	replacementPrefixMissingTemplate   = "line %d: replacement line does not start with the prefix %q"
)

// Sanitizer transforms file contents into their distributable form.
type Sanitizer interface {
	Sanitize(text string) (string, error)
}

// SanitizerFunc adapts a function to the Sanitizer interface.
type SanitizerFunc func(text string) (string, error)

// Sanitize calls the function.
func (function SanitizerFunc) Sanitize(text string) (string, error) {
	return function(text)
}

type regionState int

const (
	regionStateOutside regionState = iota
	regionStateRemoving
	regionStateReplacing
)

// MarkerSanitizer removes regions delimited by the REPOBEE-SANITIZER markers.
// Malformed marker structure yields a CodeInvalidInput error and no output.
type MarkerSanitizer struct{}

// NewMarkerSanitizer constructs a MarkerSanitizer.
func NewMarkerSanitizer() MarkerSanitizer {
	return MarkerSanitizer{}
}

// Sanitize returns text with every marked region removed or replaced.
func (MarkerSanitizer) Sanitize(text string) (string, error) {
	lines := strings.Split(text, lineSeparatorConstant)
	keptLines := make([]string, 0, len(lines))

	state := regionStateOutside
	regionStartLine := 0
	regionPrefix := ""

	for lineIndex, line := range lines {
		lineNumber := lineIndex + 1
		switch {
		case strings.Contains(line, StartMarker):
			if state != regionStateOutside {
				return "", platformerrors.Newf(platformerrors.CodeInvalidInput, nestedStartTemplateConstant, lineNumber, StartMarker, regionStartLine)
			}
			state = regionStateRemoving
			regionStartLine = lineNumber
			markerOffset := strings.Index(line, StartMarker)
			regionPrefix = strings.TrimLeftFunc(line[:markerOffset], unicode.IsSpace)
		case strings.Contains(line, ReplaceMarker):
			switch state {
			case regionStateOutside:
				return "", platformerrors.Newf(platformerrors.CodeInvalidInput, replaceOutsideRegionTemplate, lineNumber, ReplaceMarker)
			case regionStateReplacing:
				return "", platformerrors.Newf(platformerrors.CodeInvalidInput, duplicateReplaceTemplateConstant, lineNumber, ReplaceMarker, regionStartLine)
			}
			state = regionStateReplacing
		case strings.Contains(line, EndMarker):
			if state == regionStateOutside {
				return "", platformerrors.Newf(platformerrors.CodeInvalidInput, endWithoutStartTemplateConstant, lineNumber, EndMarker, StartMarker)
			}
			state = regionStateOutside
		case state == regionStateOutside:
			keptLines = append(keptLines, line)
		case state == regionStateReplacing:
			replacementLine, prefixFound := stripRegionPrefix(line, regionPrefix)
			if !prefixFound {
				return "", platformerrors.Newf(platformerrors.CodeInvalidInput, replacementPrefixMissingTemplate, lineNumber, regionPrefix)
			}
			keptLines = append(keptLines, replacementLine)
		}
	}

	if state != regionStateOutside {
		return "", platformerrors.Newf(platformerrors.CodeInvalidInput, unterminatedRegionTemplateConstant, regionStartLine, StartMarker, EndMarker)
	}

	return strings.Join(keptLines, lineSeparatorConstant), nil
}

// stripRegionPrefix removes prefix after the line's indentation.
// A line holding only the prefix without its trailing whitespace, such as a bare "//", becomes blank.
func stripRegionPrefix(line string, prefix string) (string, bool) {
	if len(prefix) == 0 {
		return line, true
	}

	content := strings.TrimLeftFunc(line, unicode.IsSpace)
	indentation := line[:len(line)-len(content)]

	if strings.HasPrefix(content, prefix) {
		return indentation + strings.TrimPrefix(content, prefix), true
	}

	compactPrefix := strings.TrimRightFunc(prefix, unicode.IsSpace)
	if strings.HasPrefix(content, compactPrefix) {
		return indentation + strings.TrimPrefix(content, compactPrefix), true
	}

	if len(strings.TrimSpace(content)) == 0 {
		return line, true
	}
	return "", false
}
