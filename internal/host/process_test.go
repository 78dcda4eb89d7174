package host

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fedcompose/internal/compose"
	"fedcompose/internal/diag"
	"fedcompose/internal/engine"
)

// fakeEngine answers compose requests with composeReply and everything else
// with satReply; the last request is kept in request.json.
const fakeEngine = `input=$(cat)
printf '%s' "$input" > "$3"
case "$input" in
  *'"kind":"compose"'*) cat "$1" ;;
  *) cat "$2" ;;
esac
`

type engineFixture struct {
	dir string
	cfg Config
}

func newEngine(t *testing.T, composeReply, satReply any) engineFixture {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}
	encode := func(v any) []byte {
		if s, ok := v.(string); ok {
			return []byte(s)
		}
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal reply: %v", err)
		}
		return data
	}
	script := write("engine.sh", []byte(fakeEngine))
	composePath := write("compose.json", encode(composeReply))
	satPath := write("sat.json", encode(satReply))
	return engineFixture{
		dir: dir,
		cfg: Config{
			Command: sh,
			Args:    []string{script, composePath, satPath, filepath.Join(dir, "request.json")},
			Timeout: 5 * time.Second,
		},
	}
}

func (f engineFixture) lastRequest(t *testing.T) request {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.dir, "request.json"))
	if err != nil {
		t.Fatalf("read request: %v", err)
	}
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("decode request %q: %v", data, err)
	}
	return req
}

func intp(v int) *int { return &v }

func strp(v string) *string { return &v }

var subgraphs = []engine.SubgraphDefinition{
	{Name: "products", URL: "http://products:4001", SDL: "type Query { products: [String] }"},
	{Name: "users", URL: "http://users:4002", SDL: "type Query { me: String }"},
}

func TestComposeSuccessPushesHints(t *testing.T) {
	fx := newEngine(t, map[string]any{
		"supergraphSdl": "type Query { me: String }",
		"hints": []map[string]any{
			{"message": "inconsistent field", "definition": map[string]string{"code": "INCONSISTENT_FIELD"}},
		},
	}, `{}`)
	h := NewProcessHost(fx.cfg, nil)

	sdl, ok := h.ComposeServicesWithoutSatisfiability(context.Background(), subgraphs)
	if !ok {
		t.Fatalf("compose failed: %v", h.Result().Issues)
	}
	if sdl != "type Query { me: String }" {
		t.Fatalf("supergraph = %q", sdl)
	}
	req := fx.lastRequest(t)
	if req.Kind != kindCompose || len(req.Subgraphs) != 2 || req.Subgraphs[1].Name != "users" {
		t.Fatalf("unexpected request %+v", req)
	}
	issues := h.Result().Issues
	if len(issues) != 1 || issues[0].Code != "INCONSISTENT_FIELD" || issues[0].Severity != diag.SevWarning {
		t.Fatalf("issues = %+v", issues)
	}
}

func TestComposeFailurePushesErrorsThenHints(t *testing.T) {
	fx := newEngine(t, engine.SatisfiabilityResult{
		Errors: []engine.GraphQLError{{
			Message:    "field conflict",
			Extensions: &engine.ErrorExtensions{Code: "FIELD_TYPE_MISMATCH"},
			Nodes: []engine.SubgraphASTNode{{
				Subgraph: strp("users"),
				Loc: &engine.NodeLocation{
					StartToken: engine.TokenPoint{Line: intp(1), Column: intp(14)},
					EndToken:   engine.TokenPoint{Line: intp(1), Column: intp(16)},
				},
			}},
		}},
		Hints: []engine.CompositionHint{{Message: "hint", Definition: engine.HintDefinition{Code: "H"}}},
	}, `{}`)
	h := NewProcessHost(fx.cfg, nil)

	if _, ok := h.ComposeServicesWithoutSatisfiability(context.Background(), subgraphs); ok {
		t.Fatal("expected composition failure")
	}
	issues := h.Result().Issues
	if len(issues) != 2 {
		t.Fatalf("issues = %+v", issues)
	}
	if issues[0].Code != "FIELD_TYPE_MISMATCH" || issues[0].Severity != diag.SevError {
		t.Fatalf("first issue = %+v", issues[0])
	}
	loc := issues[0].Locations
	if len(loc) != 1 || loc[0].Subgraph != "users" || loc[0].Start != (diag.SourcePoint{Line: 0, Column: 13}) {
		t.Fatalf("locations = %+v", loc)
	}
	if issues[1].Code != "H" || issues[1].Severity != diag.SevWarning {
		t.Fatalf("second issue = %+v", issues[1])
	}
	if h.Result().SupergraphSDL != "" {
		t.Fatal("failed composition must not store a supergraph")
	}
}

func TestComposeEmptyResponseIsInternalError(t *testing.T) {
	fx := newEngine(t, `{}`, `{}`)
	h := NewProcessHost(fx.cfg, nil)
	if _, ok := h.ComposeServicesWithoutSatisfiability(context.Background(), subgraphs); ok {
		t.Fatal("expected failure")
	}
	issues := h.Result().Issues
	if len(issues) != 1 || issues[0].Code != diag.CodeInternalError {
		t.Fatalf("issues = %+v", issues)
	}
}

func TestComposeLaunchFailureIsInternalError(t *testing.T) {
	h := NewProcessHost(Config{Command: "fedcompose-no-such-engine"}, nil)
	if _, ok := h.ComposeServicesWithoutSatisfiability(context.Background(), subgraphs); ok {
		t.Fatal("expected failure")
	}
	issues := h.Result().Issues
	if len(issues) != 1 || issues[0].Code != diag.CodeInternalError {
		t.Fatalf("issues = %+v", issues)
	}
	if !strings.Contains(issues[0].Message, "fedcompose-no-such-engine") {
		t.Fatalf("message should name the command: %q", issues[0].Message)
	}
}

func TestComposeGarbageResponseIsInternalError(t *testing.T) {
	fx := newEngine(t, `not json`, `{}`)
	h := NewProcessHost(fx.cfg, nil)
	if _, ok := h.ComposeServicesWithoutSatisfiability(context.Background(), subgraphs); ok {
		t.Fatal("expected failure")
	}
	issues := h.Result().Issues
	if len(issues) != 1 || !strings.Contains(issues[0].Message, "decode compose response") {
		t.Fatalf("issues = %+v", issues)
	}
}

func TestSatisfiabilitySendsCurrentSupergraph(t *testing.T) {
	fx := newEngine(t, map[string]any{"supergraphSdl": "composed"}, engine.SatisfiabilityResult{
		Errors: []engine.GraphQLError{{Message: "unsatisfiable"}},
	})
	h := NewProcessHost(fx.cfg, nil)
	if _, ok := h.ComposeServicesWithoutSatisfiability(context.Background(), subgraphs); !ok {
		t.Fatal("compose failed")
	}
	h.UpdateSupergraphSDL("expanded")

	outcome := h.ValidateSatisfiability(context.Background())
	checked, ok := outcome.(compose.SatisfiabilityChecked)
	if !ok {
		t.Fatalf("outcome = %T", outcome)
	}
	if len(checked.Result.Errors) != 1 || checked.Result.Errors[0].Message != "unsatisfiable" {
		t.Fatalf("result = %+v", checked.Result)
	}
	req := fx.lastRequest(t)
	if req.Kind != kindSatisfiability || req.SupergraphSDL != "expanded" {
		t.Fatalf("request = %+v", req)
	}
	if h.Result().SupergraphSDL != "expanded" {
		t.Fatalf("result supergraph = %q", h.Result().SupergraphSDL)
	}
}

func TestSatisfiabilityLaunchFailure(t *testing.T) {
	h := NewProcessHost(Config{Command: "fedcompose-no-such-engine"}, nil)
	outcome := h.ValidateSatisfiability(context.Background())
	failed, ok := outcome.(compose.SatisfiabilityFailed)
	if !ok {
		t.Fatalf("outcome = %T", outcome)
	}
	if failed.Issue.Code != diag.CodeInternalError {
		t.Fatalf("issue = %+v", failed.Issue)
	}
	if len(h.Result().Issues) != 0 {
		t.Fatal("the host must not push the failure itself")
	}
}

func TestAddIssuesKeepsOrder(t *testing.T) {
	bag := diag.NewBag()
	h := NewProcessHost(Config{Command: "unused"}, bag)
	h.AddIssues([]diag.Issue{{Code: "A"}, {Code: "B"}})
	h.AddIssues([]diag.Issue{{Code: "C"}})
	var codes []string
	for _, it := range bag.Snapshot() {
		codes = append(codes, it.Code)
	}
	if strings.Join(codes, ",") != "A,B,C" {
		t.Fatalf("codes = %v", codes)
	}
}
