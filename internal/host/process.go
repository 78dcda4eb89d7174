package host

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fedcompose/internal/compose"
	"fedcompose/internal/diag"
	"fedcompose/internal/engine"
	"fedcompose/internal/satellite"
	"fedcompose/internal/trace"
)

// DefaultTimeout bounds a single engine call when Config.Timeout is zero.
const DefaultTimeout = 2 * time.Minute

var errNoSupergraph = errors.New("engine returned neither a supergraph nor errors")

// Config describes how to start the engine.
type Config struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// ProcessHost runs the engine once per hook call. It serves one
// composition run and is not safe for concurrent use.
type ProcessHost struct {
	cfg        Config
	bag        *diag.Bag
	supergraph string
}

var _ compose.HybridComposition = (*ProcessHost)(nil)

// NewProcessHost returns a host pushing its issues into bag; a nil bag gets
// a fresh one.
func NewProcessHost(cfg Config, bag *diag.Bag) *ProcessHost {
	if bag == nil {
		bag = diag.NewBag()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &ProcessHost{cfg: cfg, bag: bag}
}

// ComposeServicesWithoutSatisfiability asks the engine for a supergraph.
// Engine errors and hints go into the bag; ok is false when no supergraph
// was produced.
func (h *ProcessHost) ComposeServicesWithoutSatisfiability(ctx context.Context, subgraphs []engine.SubgraphDefinition) (string, bool) {
	resp, err := h.call(ctx, request{Kind: kindCompose, Subgraphs: subgraphs})
	if err != nil {
		h.bag.Add(diag.InternalError(err))
		return "", false
	}
	if len(resp.Errors) > 0 || resp.SupergraphSDL == nil {
		h.bag.AddAll(engine.ErrorIssues(resp.Errors))
		h.bag.AddAll(engine.HintIssues(resp.Hints))
		if len(resp.Errors) == 0 {
			h.bag.Add(diag.InternalError(errNoSupergraph))
		}
		return "", false
	}
	h.bag.AddAll(engine.HintIssues(resp.Hints))
	h.supergraph = *resp.SupergraphSDL
	return h.supergraph, true
}

// ValidateSatisfiability checks the stored supergraph.
func (h *ProcessHost) ValidateSatisfiability(ctx context.Context) compose.SatisfiabilityOutcome {
	resp, err := h.call(ctx, request{Kind: kindSatisfiability, SupergraphSDL: h.supergraph})
	if err != nil {
		return compose.SatisfiabilityFailed{Issue: diag.InternalError(err)}
	}
	return compose.SatisfiabilityChecked{Result: engine.SatisfiabilityResult{
		Errors: resp.Errors,
		Hints:  resp.Hints,
	}}
}

func (h *ProcessHost) UpdateSupergraphSDL(sdl string) {
	h.supergraph = sdl
}

func (h *ProcessHost) AddIssues(issues []diag.Issue) {
	h.bag.AddAll(issues)
}

// Result returns the supergraph and every issue pushed so far.
func (h *ProcessHost) Result() compose.CompositionResult {
	return compose.CompositionResult{
		SupergraphSDL: h.supergraph,
		Issues:        h.bag.Snapshot(),
	}
}

func (h *ProcessHost) call(ctx context.Context, req request) (response, error) {
	ctx, span := trace.Start(ctx, trace.ScopeSubgraph, "engine:"+req.Kind)
	payload, err := encodeRequest(req)
	if err != nil {
		span.End("encode failed")
		return response{}, err
	}
	out, err := satellite.Launch(ctx, h.cfg.Command, h.cfg.Args, payload, h.cfg.Timeout)
	if err != nil {
		span.End(err.Error())
		return response{}, fmt.Errorf("%s: %w", h.cfg.Command, err)
	}
	resp, err := decodeResponse(req.Kind, out)
	if err != nil {
		span.End("decode failed")
		return response{}, err
	}
	span.WithExtra("bytes", strconv.Itoa(len(out))).End("")
	return resp, nil
}
