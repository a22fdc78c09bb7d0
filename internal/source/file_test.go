package source

import "testing"

func TestPositionLineCol(t *testing.T) {
	f := NewFile("a.sol", "abc\ndef\n\nxyz")

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{2, 1, 3},
		{4, 2, 1},
		{8, 3, 1},
		{9, 4, 1},
		{11, 4, 3},
	}
	for _, tc := range cases {
		p := f.Position(tc.off)
		if p.Line != tc.line || p.Col != tc.col {
			t.Fatalf("Position(%d) = %d:%d, want %d:%d", tc.off, p.Line, p.Col, tc.line, tc.col)
		}
	}
}

func TestResolveAndSlice(t *testing.T) {
	f := NewFile("a.sol", "contract C {}\n")
	s := Span{Start: 9, End: 10}
	start, end := f.Resolve(s)
	if start.Line != 1 || start.Col != 10 {
		t.Fatalf("start = %v", start)
	}
	if end.Col != 11 {
		t.Fatalf("end = %v", end)
	}
	if got := f.Slice(s); got != "C" {
		t.Fatalf("Slice = %q", got)
	}
}

func TestLine(t *testing.T) {
	f := NewFile("a.sol", "one\ntwo\nthree")
	if got := f.Line(2); got != "two" {
		t.Fatalf("Line(2) = %q", got)
	}
	if got := f.Line(3); got != "three" {
		t.Fatalf("Line(3) = %q", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{Start: 4, End: 8}
	b := Span{Start: 6, End: 12}
	c := a.Cover(b)
	if c.Start != 4 || c.End != 12 {
		t.Fatalf("Cover = %v", c)
	}
}
