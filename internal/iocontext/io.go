// Package iocontext passes command I/O streams through a context so commands
// can be driven from tests.
package iocontext

import (
	"bytes"
	"context"
	"io"
	"os"
)

// IO holds the streams a command reads and writes.
type IO struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// DefaultIO returns the process streams.
func DefaultIO() *IO {
	return &IO{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// Test returns IO backed by buffers, with stdin reading from in.
func Test(in string) (*IO, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return &IO{In: bytes.NewBufferString(in), Out: out, ErrOut: errOut}, out, errOut
}

type ioKey struct{}

// WithIO attaches streams to ctx.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO returns the streams in ctx or the process streams.
func GetIO(ctx context.Context) *IO {
	if streams, ok := ctx.Value(ioKey{}).(*IO); ok && streams != nil {
		return streams
	}
	return DefaultIO()
}
