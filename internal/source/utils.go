package source

import (
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и флаг: были ли замены (true, если хотя бы одна).
func normalizeCRLF(content []byte) ([]byte, bool) {
	// Быстрый путь: если нет \r, возвращаем как есть.
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// buildLineIndex returns the byte offsets of every '\n' in content.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b != '\n' {
			continue
		}
		off, err := safecast.Conv[uint32](i)
		if err != nil {
			// файлы больше 4GiB не поддерживаем
			break
		}
		out = append(out, off)
	}
	return out
}

// pointAt resolves a byte offset to a zero-indexed line and rune column.
// Offsets past the end of content clamp to the end.
func pointAt(content []byte, lineIdx []uint32, off int) Point {
	if off < 0 {
		off = 0
	}
	if off > len(content) {
		off = len(content)
	}

	// бинпоиск: количество '\n' строго до off
	line, _ := slices.BinarySearchFunc(lineIdx, off, func(nl uint32, target int) int {
		switch {
		case int(nl) < target:
			return -1
		case int(nl) > target:
			return 1
		}
		return 0
	})

	lineStart := 0
	if line > 0 {
		lineStart = int(lineIdx[line-1]) + 1
	}

	col := utf8.RuneCount(content[lineStart:off])
	l, err := safecast.Conv[uint32](line)
	if err != nil {
		return Point{}
	}
	c, err := safecast.Conv[uint32](col)
	if err != nil {
		return Point{Line: l}
	}
	return Point{Line: l, Column: c}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// SubgraphName derives a subgraph name from a schema file path:
// "schemas/billing.graphql" becomes "billing".
func SubgraphName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
