package diag

import (
	"fortio.org/safecast"
)

// Boundary types are what tools outside the composer see. Their points are
// one-indexed; SourcePoint stays zero-indexed everywhere inside.

// BuildMessagePoint is a one-indexed position. Nil fields mean unknown.
type BuildMessagePoint struct {
	Line   *uint32 `json:"line,omitempty"`
	Column *uint32 `json:"column,omitempty"`
}

// BuildMessageLocation is a boundary form of SourceLocation.
type BuildMessageLocation struct {
	Subgraph *string            `json:"subgraph,omitempty"`
	Start    *BuildMessagePoint `json:"start,omitempty"`
	End      *BuildMessagePoint `json:"end,omitempty"`
}

// BuildMessage is a boundary form of Issue.
type BuildMessage struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Code      *string                `json:"code,omitempty"`
	Locations []BuildMessageLocation `json:"locations"`
}

// PointFromOneIndexed converts a one-indexed line/column into a SourcePoint.
// It reports false when either coordinate is not a positive number.
func PointFromOneIndexed(line, column int) (SourcePoint, bool) {
	if line < 1 || column < 1 {
		return SourcePoint{}, false
	}
	l, err := safecast.Conv[uint32](line - 1)
	if err != nil {
		return SourcePoint{}, false
	}
	c, err := safecast.Conv[uint32](column - 1)
	if err != nil {
		return SourcePoint{}, false
	}
	return SourcePoint{Line: l, Column: c}, true
}

// OneIndexed returns the point as one-indexed line and column.
func (p SourcePoint) OneIndexed() (line, column uint32) {
	return p.Line + 1, p.Column + 1
}

func (p SourcePoint) toBoundary() *BuildMessagePoint {
	line, column := p.OneIndexed()
	return &BuildMessagePoint{Line: &line, Column: &column}
}

// ToBoundary converts the location into its one-indexed boundary form.
func (l SourceLocation) ToBoundary() BuildMessageLocation {
	subgraph := l.Subgraph
	return BuildMessageLocation{
		Subgraph: &subgraph,
		Start:    l.Start.toBoundary(),
		End:      l.End.toBoundary(),
	}
}

// ToBuildMessage converts the issue into its boundary form.
func (i Issue) ToBuildMessage() BuildMessage {
	code := i.Code
	msg := BuildMessage{
		Level:     i.Severity.Level(),
		Message:   i.Message,
		Code:      &code,
		Locations: make([]BuildMessageLocation, 0, len(i.Locations)),
	}
	for _, loc := range i.Locations {
		msg.Locations = append(msg.Locations, loc.ToBoundary())
	}
	return msg
}
