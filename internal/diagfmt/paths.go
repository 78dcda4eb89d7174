package diagfmt

import (
	"path/filepath"

	"fedcompose/internal/source"
)

// locationName picks what to print in front of line:col for a subgraph.
func locationName(fs *source.FileSet, subgraph string, mode PathMode, baseDir string) (string, *source.File) {
	if fs == nil {
		return subgraph, nil
	}
	f, ok := fs.GetByName(subgraph)
	if !ok {
		return subgraph, nil
	}
	if f.Flags&source.FileVirtual != 0 || mode == PathModeSubgraph {
		return subgraph, f
	}
	return formatPath(f.Path, mode, baseDir), f
}

func formatPath(path string, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if rel, ok := relativeTo(path, baseDir); ok {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAuto:
		if rel, ok := relativeTo(path, baseDir); ok && len(rel) < len(path) {
			return rel
		}
	}
	return path
}

func relativeTo(path, baseDir string) (string, bool) {
	if baseDir == "" {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
