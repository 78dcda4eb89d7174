package pipeline

import "time"

// Stage describes a high-level composition phase.
type Stage string

const (
	// StageValidate is the per-subgraph validation stage.
	StageValidate Stage = "validate"
	// StageCompose is the composition stage.
	StageCompose Stage = "compose"
	// StageExpand is the connector expansion stage.
	StageExpand Stage = "expand"
	// StageSatisfiability is the satisfiability stage.
	StageSatisfiability Stage = "satisfiability"
)

// Stages lists all stages in pipeline order.
var Stages = []Stage{StageValidate, StageCompose, StageExpand, StageSatisfiability}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
	// StatusSkipped indicates the stage never ran because an earlier one halted.
	StatusSkipped Status = "skipped"
)

// Event reports progress for a subgraph (or for the whole run when Subgraph is empty).
type Event struct {
	Subgraph string
	Stage    Stage
	Status   Status
	Err      error
	Elapsed  time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}
