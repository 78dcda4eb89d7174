package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetShadowsByName(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.AddVirtual("billing", []byte("type Query { a: Int }"))
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.AddVirtual("billing", []byte("type Query { b: Int }"))
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	f, ok := fs.GetByName("billing")
	if !ok {
		t.Fatal("Expected billing to be found")
	}
	if f.ID != id2 {
		t.Errorf("Expected latest ID %d, got %d", id2, f.ID)
	}

	// старая версия всё ещё доступна по ID
	if got := string(fs.Get(id1).Content); got != "type Query { a: Int }" {
		t.Errorf("unexpected first content %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files, got %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	// "a\nb\n" -> LineIdx = [1,3]
	id := fs.AddVirtual("a", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.graphql")
	content := []byte("\xEF\xBB\xBFtype Query {\r\n  a: Int\r\n}\r\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Name != "inventory" {
		t.Errorf("Expected name inventory, got %q", f.Name)
	}
	if got, want := string(f.Content), "type Query {\n  a: Int\n}\n"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("expected BOM and CRLF flags, got %b", f.Flags)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.graphql")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFilePoint(t *testing.T) {
	f := NewText("s", "type Query {\n  héllo: Int\n}\n")

	tests := []struct {
		name string
		off  int
		want Point
	}{
		{"start", 0, Point{0, 0}},
		{"same line", 5, Point{0, 5}},
		{"newline belongs to its line", 12, Point{0, 12}},
		{"after newline", 13, Point{1, 0}},
		{"rune columns", 2 + 13 + len("hé"), Point{1, 4}},
		{"last line", len("type Query {\n  héllo: Int\n"), Point{2, 0}},
		{"clamped", 1 << 20, Point{3, 0}},
		{"negative", -4, Point{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Point(tt.off); got != tt.want {
				t.Errorf("Point(%d) = %+v, want %+v", tt.off, got, tt.want)
			}
		})
	}
}

func TestGetLine(t *testing.T) {
	f := NewText("s", "first\nsecond\nthird")
	for i, want := range []string{"first", "second", "third", ""} {
		if got := f.GetLine(uint32(i)); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestRunePoint(t *testing.T) {
	f := NewText("s", "é\n  ab")
	if got := f.ByteOffset(1); got != 2 {
		t.Fatalf("ByteOffset(1) = %d, want 2", got)
	}
	if got := f.RunePoint(4); got != (Point{Line: 1, Column: 2}) {
		t.Fatalf("RunePoint(4) = %+v", got)
	}
	if got := f.ByteOffset(100); got != len(f.Content) {
		t.Fatalf("ByteOffset past end = %d", got)
	}
}
