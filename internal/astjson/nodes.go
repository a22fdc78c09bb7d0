package astjson

import (
	"fmt"
	"strconv"
	"strings"

	"solfront/internal/source"
)

// header opens every node object; embedding keeps nodeType/id/src first in
// the marshaled key order, which the round-trip tests rely on.
type header struct {
	NodeType string `json:"nodeType"`
	ID       uint32 `json:"id"`
	Src      string `json:"src"`
}

// typeDescriptions mirrors the classic exporter's type annotation shape.
type typeDescriptions struct {
	TypeString string `json:"typeString"`
}

// callGraphJSON serializes one call graph as sorted node and edge lists.
type callGraphJSON struct {
	Nodes []uint32       `json:"nodes"`
	Edges []callEdgeJSON `json:"edges"`
}

type callEdgeJSON struct {
	From uint32 `json:"from"`
	To   uint32 `json:"to"`
}

func formatSrc(sp source.Span) string {
	return fmt.Sprintf("%d:%d:0", sp.Start, sp.Len())
}

func parseSrc(src string) (source.Span, error) {
	parts := strings.Split(src, ":")
	if len(parts) != 3 {
		return source.Span{}, fmt.Errorf("malformed src %q", src)
	}
	start, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return source.Span{}, fmt.Errorf("malformed src %q: %w", src, err)
	}
	length, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return source.Span{}, fmt.Errorf("malformed src %q: %w", src, err)
	}
	return source.Span{Start: uint32(start), End: uint32(start + length)}, nil
}
