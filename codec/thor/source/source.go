/*
DESCRIPTION
  source.go provides segment sources for the thor bit reader backed by byte
  slices, io.Readers and MPEG-TS.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package source provides implementations of bits.Source, from which a
// thor decoder fetches bitstream segments.
package source

import (
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/thor/codec/thor/thordec/bits"
	"github.com/ausocean/thor/container/mts"
)

// Slices delivers a fixed list of segments in order.
type Slices struct {
	segs [][]byte
	i    int
}

// NewSlices returns a Slices delivering segs.
func NewSlices(segs ...[]byte) *Slices { return &Slices{segs: segs} }

// Next implements bits.Source.
func (s *Slices) Next() ([]byte, uint64, error) {
	if s.i >= len(s.segs) {
		return nil, 0, io.EOF
	}
	s.i++
	return s.segs[s.i-1], uint64(s.i - 1), nil
}

// Reader delivers segments of up to size bytes read from an io.Reader. It
// cycles through bits.RingSize buffers so that a buffer is only reused once
// the bit reader has released it.
type Reader struct {
	r    io.Reader
	bufs [bits.RingSize][]byte
	n    uint64
}

// NewReader returns a Reader reading segments of size bytes from r.
func NewReader(r io.Reader, size int) *Reader {
	s := &Reader{r: r}
	for i := range s.bufs {
		s.bufs[i] = make([]byte, size)
	}
	return s
}

// Next implements bits.Source.
func (s *Reader) Next() ([]byte, uint64, error) {
	buf := s.bufs[s.n%bits.RingSize]
	n, err := io.ReadFull(s.r, buf)
	switch err {
	case nil:
	case io.ErrUnexpectedEOF:
		err = io.EOF
	case io.EOF:
	default:
		err = errors.Wrap(err, "could not read segment")
	}
	id := s.n
	s.n++
	return buf[:n], id, err
}

// MTS delivers the PES payloads of one elementary stream of an MPEG-TS
// stream as segments.
type MTS struct {
	d   *mts.Demuxer
	log logging.Logger
	n   uint64
}

// NewMTS returns an MTS reading MPEG-TS from r and extracting the stream on
// pid, which may be mts.AutoPID.
func NewMTS(r io.Reader, pid int, l logging.Logger) *MTS {
	return &MTS{d: mts.NewDemuxer(r, pid), log: l}
}

// Next implements bits.Source.
func (s *MTS) Next() ([]byte, uint64, error) {
	for {
		f, err := s.d.Next()
		if err != nil {
			return nil, 0, err
		}
		if len(f.Media) == 0 {
			continue
		}
		id := s.n
		s.n++
		s.log.Debug("got PES payload", "pid", s.d.PID(), "pts", f.PTS, "len", len(f.Media))
		return f.Media, id, nil
	}
}
