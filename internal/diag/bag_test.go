package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestBagKeepsOrderAndEverything(t *testing.T) {
	bag := NewBag()
	bag.Add(Issue{Code: "A", Severity: SevWarning})
	bag.AddAll([]Issue{
		{Code: "B", Severity: SevError},
		{Code: "A", Severity: SevWarning},
	})

	if n := len(bag.Snapshot()); n != 3 {
		t.Fatalf("expected 3 issues, got %d", n)
	}
	var codes []string
	for _, it := range bag.Snapshot() {
		codes = append(codes, it.Code)
	}
	if strings.Join(codes, ",") != "A,B,A" {
		t.Fatalf("order not preserved: %v", codes)
	}
	if !bag.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(bag.Errors()) != 1 || len(bag.Warnings()) != 2 {
		t.Fatalf("filters wrong: %d errors, %d warnings", len(bag.Errors()), len(bag.Warnings()))
	}

	snap := bag.Snapshot()
	snap[0].Code = "changed"
	if bag.Snapshot()[0].Code != "A" {
		t.Fatal("Snapshot must not alias the bag")
	}
}

func TestEmptyBag(t *testing.T) {
	bag := NewBag()
	if bag.HasErrors() || len(bag.Snapshot()) != 0 || len(bag.Warnings()) != 0 {
		t.Fatal("new bag must be empty")
	}
}

func TestSyntheticIssues(t *testing.T) {
	ie := InternalError(errors.New("boom"))
	if ie.Code != CodeInternalError || ie.Severity != SevError || len(ie.Locations) != 0 {
		t.Fatalf("unexpected internal error issue %+v", ie)
	}
	if !strings.HasSuffix(ie.Message, "please report this: boom") {
		t.Fatalf("unexpected message %q", ie.Message)
	}

	ex := ExperimentalConnectors()
	if ex.Code != CodeExperimentalFeature || ex.Severity != SevWarning || len(ex.Locations) != 0 {
		t.Fatalf("unexpected experimental issue %+v", ex)
	}
}

func TestReplaceInMessage(t *testing.T) {
	in := Issue{Message: "svc_a cannot reach svc_a_b"}
	out := in.ReplaceInMessage("svc_a", "billing")
	// замена по подстроке, без учёта границ слов
	if out.Message != "billing cannot reach billing_b" {
		t.Fatalf("got %q", out.Message)
	}
	if in.Message != "svc_a cannot reach svc_a_b" {
		t.Fatal("receiver must not change")
	}
}
