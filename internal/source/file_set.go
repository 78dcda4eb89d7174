package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet keeps the schema files of one composition run in load order.
type FileSet struct {
	files []File
	index map[string]FileID // subgraph name -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewText builds a standalone File for in-memory schema text that does not
// belong to any FileSet.
func NewText(name, content string) *File {
	b := []byte(content)
	return &File{
		Name:    name,
		Path:    name,
		Content: b,
		LineIdx: buildLineIndex(b),
		Hash:    sha256.Sum256(b),
		Flags:   FileVirtual,
	}
}

// Add stores a schema from normalized bytes, computes LineIdx and Hash, and
// returns a new FileID. A later Add with the same name shadows the earlier one
// in lookups by name.
func (fileSet *FileSet) Add(name, path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Name:    name,
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fileSet.index[name] = id
	return id
}

// Load reads a schema file from disk, normalizes CRLF/BOM, and calls Add.
// The subgraph name is the file's base name without extension.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	return fileSet.LoadAs(SubgraphName(path), path)
}

// LoadAs is Load with an explicit subgraph name.
func (fileSet *FileSet) LoadAs(name, path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(name, path, content, flags), nil
}

// AddVirtual adds an in-memory schema with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// GetByName возвращает *File по имени сабграфа.
func (fileSet *FileSet) GetByName(name string) (*File, bool) {
	if id, ok := fileSet.index[name]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Len reports how many files were added.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Files returns the files in load order. Do not modify the returned slice.
func (fileSet *FileSet) Files() []File {
	return fileSet.files
}

// Point resolves a byte offset within f to a zero-indexed position.
func (f *File) Point(off int) Point {
	return pointAt(f.Content, f.LineIdx, off)
}

// GetLine возвращает строку с заданным номером (0-based) без '\n'.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(line uint32) string {
	if int(line) > len(f.LineIdx) {
		return ""
	}
	start := 0
	if line > 0 {
		start = int(f.LineIdx[line-1]) + 1
	}
	end := len(f.Content)
	if int(line) < len(f.LineIdx) {
		end = int(f.LineIdx[line])
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// ByteOffset converts a rune offset, as reported by the GraphQL lexer, into a
// byte offset within f. Offsets past the end clamp to len(Content).
func (f *File) ByteOffset(runeOff int) int {
	if runeOff <= 0 {
		return 0
	}
	n := 0
	for i := range string(f.Content) {
		if n == runeOff {
			return i
		}
		n++
	}
	return len(f.Content)
}

// RunePoint resolves a rune offset within f to a zero-indexed position.
func (f *File) RunePoint(runeOff int) Point {
	return f.Point(f.ByteOffset(runeOff))
}
