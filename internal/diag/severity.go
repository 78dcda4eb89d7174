package diag

// Severity defines the importance of an issue.
type Severity uint8

const (
	// SevError blocks composition when raised against a subgraph.
	SevError Severity = iota
	// SevWarning never blocks.
	SevWarning
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "ERROR"
	case SevWarning:
		return "WARNING"
	}
	return "UNKNOWN"
}

// Level returns the build-message level used at tool boundaries.
func (s Severity) Level() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warn"
	}
	return "unknown"
}
