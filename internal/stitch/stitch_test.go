package stitch

import (
	"context"
	"errors"
	"testing"
)

type stubStitcher struct {
	resp *Response
	err  error
	last *Request
}

func (s *stubStitcher) Stitch(_ context.Context, req *Request) (*Response, error) {
	s.last = req
	return s.resp, s.err
}

func TestForwardPassesThrough(t *testing.T) {
	stub := &stubStitcher{resp: &Response{Payload: []byte("merged"), State: []byte("s1")}}
	f := NewForwarder(stub)

	req := &Request{Payload: []byte("fragment"), Target: "a.sol"}
	resp, ok := f.Forward(context.Background(), req)
	if !ok {
		t.Fatalf("forward failed")
	}
	if string(resp.Payload) != "merged" || string(resp.State) != "s1" {
		t.Fatalf("response = %+v", resp)
	}
	if stub.last != req {
		t.Fatalf("request not passed through")
	}
}

func TestForwardNormalizesFailures(t *testing.T) {
	ctx := context.Background()
	req := &Request{Payload: []byte("x")}

	if _, ok := (*Forwarder)(nil).Forward(ctx, req); ok {
		t.Fatalf("nil forwarder succeeded")
	}
	if _, ok := NewForwarder(nil).Forward(ctx, req); ok {
		t.Fatalf("nil stitcher succeeded")
	}
	if _, ok := NewForwarder(&stubStitcher{err: errors.New("boom")}).Forward(ctx, req); ok {
		t.Fatalf("transport error succeeded")
	}
	if _, ok := NewForwarder(&stubStitcher{resp: &Response{}}).Forward(ctx, req); ok {
		t.Fatalf("empty payload succeeded")
	}
	if _, ok := NewForwarder(&stubStitcher{resp: &Response{Payload: []byte("y")}}).Forward(ctx, nil); ok {
		t.Fatalf("nil request succeeded")
	}
}
