// Package stitch defines the boundary to the external AST stitching
// collaborator. The frontend only moves opaque buffers across this
// boundary; merging parsed fragments into a combined unit happens on the
// other side.
package stitch

import "context"

// Request is one stitching exchange. Payload holds either raw source or a
// Parsed-stage interchange document; Target selects the source unit the
// fragment belongs to; State carries the opaque handle returned by an
// earlier exchange, or nil for a fresh one.
type Request struct {
	Payload []byte
	Target  string
	State   []byte
}

// Response mirrors Request: the stitched payload plus the state handle to
// thread into the next exchange.
type Response struct {
	Payload []byte
	State   []byte
}

// Stitcher is implemented by the external collaborator.
type Stitcher interface {
	Stitch(ctx context.Context, req *Request) (*Response, error)
}

// Forwarder passes buffers through an injected Stitcher and flattens
// every failure mode into (nil, false), matching the calling convention
// of the session surface.
type Forwarder struct {
	impl Stitcher
}

func NewForwarder(impl Stitcher) *Forwarder {
	return &Forwarder{impl: impl}
}

// Forward runs one exchange. A nil stitcher, a transport error, and an
// empty response all count as failure.
func (f *Forwarder) Forward(ctx context.Context, req *Request) (*Response, bool) {
	if f == nil || f.impl == nil || req == nil {
		return nil, false
	}
	resp, err := f.impl.Stitch(ctx, req)
	if err != nil || resp == nil || len(resp.Payload) == 0 {
		return nil, false
	}
	return resp, true
}
