// Package flags provides pflag value types shared by the CLI commands.
package flags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue  = "true"
	toggleFalseCanonicalValue = "false"
	toggleTypeNameConstant    = "bool"
	toggleParseErrorTemplate  = "invalid toggle value %q; use yes or no"
	toggleUsageTemplate       = "%s (accepts --%s=yes|no)"
)

var toggleLiterals = map[string]bool{
	"yes": true,
	"on":  true,
	"y":   true,
	"no":  false,
	"off": false,
	"n":   false,
}

// AddToggleFlag registers a boolean flag that is enabled by its bare name and also accepts
// explicit yes/no, on/off, and strconv boolean values after an equals sign.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil || len(name) == 0 {
		return
	}

	*target = defaultValue
	flag := flagSet.VarPF(&toggleValue{target: target}, name, shorthand, fmt.Sprintf(toggleUsageTemplate, usage, name))
	flag.NoOptDefVal = toggleTrueCanonicalValue
}

type toggleValue struct {
	target *bool
}

func (value *toggleValue) Set(rawValue string) error {
	parsedValue, parseError := parseToggleValue(rawValue)
	if parseError != nil {
		return parseError
	}
	*value.target = parsedValue
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || value.target == nil || !*value.target {
		return toggleFalseCanonicalValue
	}
	return toggleTrueCanonicalValue
}

func (value *toggleValue) Type() string {
	return toggleTypeNameConstant
}

func parseToggleValue(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		return true, nil
	}
	if literalValue, known := toggleLiterals[normalizedValue]; known {
		return literalValue, nil
	}
	parsedValue, parseError := strconv.ParseBool(normalizedValue)
	if parseError != nil {
		return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}
	return parsedValue, nil
}
