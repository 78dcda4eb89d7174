package diagfmt

// PathMode specifies how schema file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows a path relative to BaseDir when it is shorter.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
	// PathModeSubgraph shows the subgraph name instead of a path.
	PathModeSubgraph
)

// PrettyOpts configures pretty-printing of issues.
type PrettyOpts struct {
	Color    bool
	Context  int8 // строк контекста перед строкой с ошибкой
	PathMode PathMode
	BaseDir  string
	Width    uint8 // максимальная ширина сообщения, 0 - не ограничено
}

// JSONOpts configures JSON output of issues.
type JSONOpts struct {
	Max    int // обрезка вывода, не Bag
	Indent bool
}
