package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Pos is a 1-based line/column position.
type Pos struct {
	Line uint32
	Col  uint32
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// File holds one compilation unit: its display name and full content.
// Line starts are computed eagerly so Resolve stays O(log n).
type File struct {
	Name    string
	Content string

	lineStarts []uint32
}

func NewFile(name, content string) *File {
	f := &File{Name: name, Content: content}
	f.lineStarts = append(f.lineStarts, 0)
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			off, err := safecast.Conv[uint32](i + 1)
			if err != nil {
				panic(fmt.Errorf("file offset overflow: %w", err))
			}
			f.lineStarts = append(f.lineStarts, off)
		}
	}
	return f
}

func (f *File) Size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file size overflow: %w", err))
	}
	return n
}

// Resolve maps a span to its start and end positions.
func (f *File) Resolve(s Span) (start, end Pos) {
	return f.Position(s.Start), f.Position(s.End)
}

// Position maps a byte offset to a 1-based line/column.
func (f *File) Position(off uint32) Pos {
	lo, hi := 0, len(f.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineStarts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	lineIdx, err := safecast.Conv[uint32](lo)
	if err != nil {
		panic(fmt.Errorf("line index overflow: %w", err))
	}
	return Pos{Line: lineIdx + 1, Col: off - f.lineStarts[lo] + 1}
}

// Line returns the text of the 1-based line, without the trailing newline.
func (f *File) Line(line uint32) string {
	if line == 0 || int(line) > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[line-1]
	end := f.Size()
	if int(line) < len(f.lineStarts) {
		end = f.lineStarts[line] - 1
	}
	return f.Content[start:end]
}

// Slice returns the source text covered by the span.
func (f *File) Slice(s Span) string {
	if s.Start > s.End || s.End > f.Size() {
		return ""
	}
	return f.Content[s.Start:s.End]
}
