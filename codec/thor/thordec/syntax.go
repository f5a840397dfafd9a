/*
DESCRIPTION
  syntax.go provides a field reader with a sticky error state that reads
  named syntax elements and reports them to the tracer.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package thordec

import (
	"github.com/pkg/errors"

	"github.com/ausocean/thor/codec/thor/thordec/bits"
)

// fieldReader reads syntax elements. Once a read fails all further reads
// return zero and the first error is kept.
type fieldReader struct {
	e  error
	br *bits.Reader
	t  *tracer
}

// read returns the next n bits as an unsigned value.
func (r *fieldReader) read(name string, n int) int {
	return r.readOffset(name, n, 0)
}

// readOffset returns the next n bits plus delta.
func (r *fieldReader) readOffset(name string, n, delta int) int {
	if r.e != nil {
		return 0
	}

	if !r.t.active() {
		v, err := r.br.Read(n)
		if err != nil {
			r.e = errors.Wrapf(ErrMalformed, "could not read %s: %v", name, err)
			return 0
		}
		return int(v) + delta
	}

	start := r.br.Position()
	v, err := r.br.Read(n)
	if err != nil {
		r.e = errors.Wrapf(ErrMalformed, "could not read %s: %v", name, err)
		return 0
	}
	r.t.element(name, v, n, int(v)+delta, start, r.br.Position())
	return int(v) + delta
}

func (r *fieldReader) readFlag(name string) bool {
	return r.read(name, 1) == 1
}

// align consumes bits up to the next byte boundary as a byte_alignment
// element.
func (r *fieldReader) align() {
	if r.e != nil || r.br.ByteAligned() {
		return
	}
	r.read("byte_alignment", r.br.AlignBits())
}

func (r *fieldReader) err() error { return r.e }

func (r *fieldReader) reset() { r.e = nil }
