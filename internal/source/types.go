package source

type (
	// FileID uniquely identifies a schema file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a schema file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
)

// File captures one subgraph schema and its line index.
type File struct {
	ID      FileID
	Name    string // subgraph name
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// Point is a zero-indexed line/column position. Columns count runes, the
// same way the GraphQL lexer counts them.
type Point struct {
	Line   uint32
	Column uint32
}
