package diag

// Range is a zero-indexed span inside the schema being validated.
type Range struct {
	Start SourcePoint
	End   SourcePoint
}

// ValidationError is one finding of the native subgraph validator, before
// it is attributed to a subgraph.
type ValidationError struct {
	Code      ValidationCode
	Message   string
	Locations []Range
}

// FromValidation converts a native finding into an Issue attributed to subgraph.
func FromValidation(subgraph string, v ValidationError) Issue {
	issue := Issue{
		Code:     v.Code.ID(),
		Message:  v.Message,
		Severity: v.Code.Severity(),
	}
	if len(v.Locations) > 0 {
		issue.Locations = make([]SourceLocation, len(v.Locations))
		for i, r := range v.Locations {
			issue.Locations[i] = SourceLocation{
				Subgraph: subgraph,
				Start:    r.Start,
				End:      r.End,
			}
		}
	}
	return issue
}
