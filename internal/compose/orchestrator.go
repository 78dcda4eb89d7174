package compose

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"fedcompose/internal/connect"
	"fedcompose/internal/diag"
	"fedcompose/internal/engine"
	"fedcompose/internal/observ"
	"fedcompose/internal/pipeline"
	"fedcompose/internal/trace"
)

var errNoOutcome = errors.New("satisfiability check returned no outcome")

// Orchestrator runs the composition pipeline. It keeps no state between
// runs; fields are configuration only.
type Orchestrator struct {
	// Validator checks each subgraph; nil means connect.Validator.
	Validator Validator
	// Expander expands the composed supergraph; nil means connect.Expander.
	Expander Expander
	// Jobs bounds parallel subgraph validation; <= 0 means NumCPU.
	Jobs int
	// Cache, when set, short-circuits validation of unchanged subgraphs.
	Cache IssueCache
	// Progress receives stage and subgraph events.
	Progress pipeline.ProgressSink
}

// NewOrchestrator returns an orchestrator wired to the connectors rule set.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		Validator: connect.Validator{},
		Expander:  connect.Expander{},
	}
}

func (o *Orchestrator) validator() Validator {
	if o.Validator == nil {
		return connect.Validator{}
	}
	return o.Validator
}

func (o *Orchestrator) expander() Expander {
	if o.Expander == nil {
		return connect.Expander{}
	}
	return o.Expander
}

func (o *Orchestrator) jobs(n int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return max(1, min(jobs, n))
}

// Compose runs every stage against host and reports where the run ended.
// All diagnostics go to host.AddIssues.
func (o *Orchestrator) Compose(ctx context.Context, host HybridComposition, subgraphs []engine.SubgraphDefinition) Report {
	ctx, run := trace.Start(ctx, trace.ScopeDriver, "compose")

	timer := observ.NewTimer()
	terminal := o.run(ctx, host, subgraphs, timer)

	run.WithExtra("subgraphs", strconv.Itoa(len(subgraphs))).End(terminal.String())
	o.skipAfter(terminal)

	report := timer.Report()
	return Report{Terminal: terminal, Timing: &report}
}

func (o *Orchestrator) run(ctx context.Context, host HybridComposition, subgraphs []engine.SubgraphDefinition, timer *observ.Timer) Terminal {
	// 1. валидация сабграфов
	sctx, st := o.beginStage(ctx, timer, pipeline.StageValidate)
	issues := o.ValidateSubgraphs(sctx, subgraphs)
	if len(issues) > 0 {
		host.AddIssues(issues)
		st.end(pipeline.StatusError, fmt.Sprintf("%d issues", len(issues)))
		return TerminalSubgraphErrors
	}
	st.end(pipeline.StatusDone, "")

	// 2. композиция без satisfiability
	sctx, st = o.beginStage(ctx, timer, pipeline.StageCompose)
	supergraph, ok := host.ComposeServicesWithoutSatisfiability(sctx, subgraphs)
	if !ok {
		st.end(pipeline.StatusError, "composition failed")
		return TerminalCompositionFailed
	}
	st.end(pipeline.StatusDone, "")

	// 3. раскрытие коннекторов
	_, st = o.beginStage(ctx, timer, pipeline.StageExpand)
	outcome, err := o.expander().Expand(supergraph)
	if err != nil {
		host.AddIssues([]diag.Issue{diag.InternalError(err)})
		st.fail(err)
		return TerminalExpansionFailed
	}
	var byService map[string]string
	expanded := false
	if exp, ok := outcome.(connect.Expanded); ok {
		host.UpdateSupergraphSDL(exp.RawSDL)
		byService = exp.ByServiceName
		expanded = true
		st.end(pipeline.StatusDone, fmt.Sprintf("%d connectors", len(byService)))
	} else {
		st.end(pipeline.StatusDone, "unchanged")
	}

	// 4. satisfiability
	sctx, st = o.beginStage(ctx, timer, pipeline.StageSatisfiability)
	issues = satisfiabilityIssues(host.ValidateSatisfiability(sctx))
	if expanded {
		issues = rewriteIdentifiers(issues, byService)
		issues = append(issues, diag.ExperimentalConnectors())
	}
	host.AddIssues(issues)
	st.end(pipeline.StatusDone, fmt.Sprintf("%d issues", len(issues)))
	return TerminalCompleted
}

// ValidateSubgraphs runs the validator over every subgraph in parallel and
// returns all issues in subgraph order.
func (o *Orchestrator) ValidateSubgraphs(ctx context.Context, subgraphs []engine.SubgraphDefinition) []diag.Issue {
	if len(subgraphs) == 0 {
		return nil
	}
	results := make([][]diag.Issue, len(subgraphs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.jobs(len(subgraphs)))
	for i, sub := range subgraphs {
		g.Go(func(i int, sub engine.SubgraphDefinition) func() error {
			return func() error {
				results[i] = o.validateOne(gctx, sub)
				return nil
			}
		}(i, sub))
	}
	// горутины не возвращают ошибок
	_ = g.Wait()

	var out []diag.Issue
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

func (o *Orchestrator) validateOne(ctx context.Context, sub engine.SubgraphDefinition) []diag.Issue {
	ctx, span := trace.Start(ctx, trace.ScopeSubgraph, "subgraph:"+sub.Name)
	started := time.Now()
	pipeline.Emit(o.Progress, pipeline.Event{Subgraph: sub.Name, Stage: pipeline.StageValidate, Status: pipeline.StatusWorking})

	issues, cached := o.lookup(sub)
	if cached {
		trace.Point(trace.FromContext(ctx), trace.ScopeSubgraph, "cache-hit", sub.Name, span.ID())
	} else {
		for _, v := range o.validator().Validate(sub.Name, sub.SDL) {
			issues = append(issues, diag.FromValidation(sub.Name, v))
		}
		if o.Cache != nil {
			o.Cache.Store(sub.Name, sub.SDL, issues)
		}
	}

	status := pipeline.StatusDone
	if len(issues) > 0 {
		status = pipeline.StatusError
	}
	pipeline.Emit(o.Progress, pipeline.Event{
		Subgraph: sub.Name,
		Stage:    pipeline.StageValidate,
		Status:   status,
		Elapsed:  time.Since(started),
	})
	span.WithExtra("cached", strconv.FormatBool(cached)).End(fmt.Sprintf("%d issues", len(issues)))
	return issues
}

func (o *Orchestrator) lookup(sub engine.SubgraphDefinition) ([]diag.Issue, bool) {
	if o.Cache == nil {
		return nil, false
	}
	return o.Cache.Lookup(sub.Name, sub.SDL)
}

// skipAfter marks every stage after the terminal one as skipped.
func (o *Orchestrator) skipAfter(t Terminal) {
	var from int
	switch t {
	case TerminalSubgraphErrors:
		from = 1
	case TerminalCompositionFailed:
		from = 2
	case TerminalExpansionFailed:
		from = 3
	default:
		return
	}
	for _, stage := range pipeline.Stages[from:] {
		pipeline.Emit(o.Progress, pipeline.Event{Stage: stage, Status: pipeline.StatusSkipped})
	}
}

type stageRun struct {
	o       *Orchestrator
	stage   pipeline.Stage
	span    *trace.Span
	timer   *observ.Timer
	idx     int
	started time.Time
}

func (o *Orchestrator) beginStage(ctx context.Context, timer *observ.Timer, stage pipeline.Stage) (context.Context, *stageRun) {
	ctx, span := trace.Start(ctx, trace.ScopeStage, string(stage))
	pipeline.Emit(o.Progress, pipeline.Event{Stage: stage, Status: pipeline.StatusWorking})
	st := &stageRun{
		o:       o,
		stage:   stage,
		span:    span,
		timer:   timer,
		idx:     timer.Begin(string(stage)),
		started: time.Now(),
	}
	return ctx, st
}

func (s *stageRun) end(status pipeline.Status, note string) {
	s.finish(status, note, nil)
}

func (s *stageRun) fail(err error) {
	s.finish(pipeline.StatusError, err.Error(), err)
}

func (s *stageRun) finish(status pipeline.Status, note string, err error) {
	s.timer.End(s.idx, note)
	s.span.End(note)
	pipeline.Emit(s.o.Progress, pipeline.Event{
		Stage:   s.stage,
		Status:  status,
		Err:     err,
		Elapsed: time.Since(s.started),
	})
}
