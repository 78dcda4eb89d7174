package diag

import (
	"fmt"
	"strings"
)

// SourcePoint is a zero-indexed line/column position.
type SourcePoint struct {
	Line   uint32 `json:"line" msgpack:"line"`
	Column uint32 `json:"column" msgpack:"column"`
}

// SourceLocation is a range in one subgraph's SDL.
type SourceLocation struct {
	Subgraph string      `json:"subgraph" msgpack:"subgraph"`
	Start    SourcePoint `json:"start" msgpack:"start"`
	End      SourcePoint `json:"end" msgpack:"end"`
}

// Issue is something the user should address. Errors block composition,
// warnings do not.
type Issue struct {
	Code      string           `json:"code" msgpack:"code"`
	Message   string           `json:"message" msgpack:"message"`
	Locations []SourceLocation `json:"locations,omitempty" msgpack:"locations"`
	Severity  Severity         `json:"severity" msgpack:"severity"`
}

const (
	// CodeInternalError marks a failure inside composition itself.
	CodeInternalError = "INTERNAL_ERROR"
	// CodeExperimentalFeature marks use of connectors.
	CodeExperimentalFeature = "EXPERIMENTAL_FEATURE"
)

const experimentalConnectorsMessage = "Connectors are an experimental feature. Breaking changes are likely to occur in future versions."

// InternalError wraps an unexpected failure as an error issue without locations.
func InternalError(err error) Issue {
	return Issue{
		Code:     CodeInternalError,
		Message:  fmt.Sprintf("Composition failed due to an internal error, please report this: %v", err),
		Severity: SevError,
	}
}

// ExperimentalConnectors is the notice attached to every run that expanded connectors.
func ExperimentalConnectors() Issue {
	return Issue{
		Code:     CodeExperimentalFeature,
		Message:  experimentalConnectorsMessage,
		Severity: SevWarning,
	}
}

// ReplaceInMessage substitutes every literal occurrence of old in the message.
func (i Issue) ReplaceInMessage(old, replacement string) Issue {
	i.Message = strings.ReplaceAll(i.Message, old, replacement)
	return i
}

func (i Issue) String() string {
	if len(i.Locations) == 0 {
		return fmt.Sprintf("%s [%s] %s", i.Severity, i.Code, i.Message)
	}
	loc := i.Locations[0]
	return fmt.Sprintf("%s [%s] %s:%d:%d %s", i.Severity, i.Code, loc.Subgraph, loc.Start.Line+1, loc.Start.Column+1, i.Message)
}
