/*
DESCRIPTION
  reader.go provides a bit reader that extracts fixed width fields from a
  byte stream delivered as a sequence of externally owned segments, fetching
  new segments on demand from a Source.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides a segmented bit reader for thor bitstreams. Bytes may
// arrive in up to RingSize concurrently buffered segments which are never
// copied, and reads may span segment boundaries transparently.
package bits

import (
	"io"

	"github.com/pkg/errors"
)

// RingSize is the number of segments the reader can hold at once, i.e. the
// segment being consumed plus RingSize-1 segments of look-ahead.
const RingSize = 4

const ringMask = RingSize - 1

// MaxPeek is the largest number of bits that may be shown in one call.
const MaxPeek = 32

// Errors returned by the Reader.
var (
	ErrReadPastEnd = errors.New("read past end of data")
	ErrNotShown    = errors.New("consumed more bits than were shown")
	ErrLookahead   = errors.New("segment look-ahead exceeded")
	ErrBadWidth    = errors.New("invalid read width")
)

// Source supplies segments to a streaming Reader. Next returns the bytes of
// the next segment and an identifier for it. An empty buf, or any non-nil
// error, marks the end of the stream. A non-empty buf returned together with
// io.EOF is used and is the last segment.
//
// The Reader keeps a reference to buf until the segment has been consumed and
// superseded; a Source must not modify it before then.
type Source interface {
	Next() (buf []byte, id uint64, err error)
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func() ([]byte, uint64, error)

// Next implements Source.
func (f SourceFunc) Next() ([]byte, uint64, error) { return f() }

// Position identifies a bit within the stream as the segment it lies in and
// the bit offset from the start of that segment.
type Position struct {
	Segment uint64
	Bit     int
}

type segment struct {
	buf       []byte
	id        uint64
	pos       int // Next byte to be pulled into the window.
	remaining int // Bits not yet consumed; may go negative transiently.
}

// Reader is a segmented bit reader. The zero value is not usable; create one
// with NewReader or NewStreamReader, or call Init.
type Reader struct {
	src     Source
	seg     [RingSize]segment
	active  int // Segment currently being consumed.
	read    int // Most recently fetched segment.
	eos     bool
	word    uint64
	bits    uint // Valid bits held in word.
	flushed uint64

	overflow bool
	srcErr   error
}

// NewReader returns a Reader over the single buffer buf. The end of buf is the
// end of the stream.
func NewReader(buf []byte) *Reader {
	r := &Reader{}
	if buf == nil {
		buf = []byte{}
	}
	r.Init(buf, nil)
	return r
}

// NewStreamReader returns a Reader that obtains its data from src.
func NewStreamReader(src Source) *Reader {
	r := &Reader{}
	r.Init(nil, src)
	return r
}

// Init resets the reader. If buf is non-nil it is installed as the only
// segment and the stream ends after it. Otherwise the first segment is
// fetched from src immediately.
func (r *Reader) Init(buf []byte, src Source) {
	r.src = src
	r.seg = [RingSize]segment{}
	r.active = 0
	r.word = 0
	r.bits = 0
	r.flushed = 0
	r.overflow = false
	r.srcErr = nil

	if buf != nil {
		r.eos = true
		r.read = 0
		r.seg[0] = segment{buf: buf, remaining: len(buf) << 3}
		return
	}

	r.eos = false
	r.read = -1
	r.nextSegment()
}

// More returns true while there are bits left to consume, either in the
// active segment, in segments already fetched, or from the Source.
func (r *Reader) More() bool {
	return !r.eos || r.read != r.active || r.seg[r.active].remaining > 0
}

// Peek returns the next n bits, n <= MaxPeek, in the least significant bits
// of the result without advancing. Bits beyond the end of the stream read as
// zero.
func (r *Reader) Peek(n int) uint32 {
	if n < 0 || n > MaxPeek {
		panic("bits: invalid peek width")
	}
	for r.bits < uint(n) {
		r.word = r.word<<8 | uint64(r.nextByte())
		r.bits += 8
	}
	return uint32((r.word >> (r.bits - uint(n))) & (1<<uint(n) - 1))
}

// Consume advances past n bits which must already have been shown by Peek.
// Crossing a segment boundary rotates the active segment, carrying any
// overshoot into the next segment. ErrReadPastEnd is returned if the bits
// are not actually present in the stream.
func (r *Reader) Consume(n int) error {
	if n < 0 || uint(n) > r.bits {
		return ErrNotShown
	}
	if r.overflow {
		return ErrLookahead
	}

	s := &r.seg[r.active]
	r.bits -= uint(n)
	s.remaining -= n
	r.flushed += uint64(n)

	for s.remaining < 0 && r.active != r.read {
		over := -s.remaining
		r.active = (r.active + 1) & ringMask
		s = &r.seg[r.active]
		s.remaining -= over
	}

	if s.remaining < 0 {
		if r.srcErr != nil {
			return errors.Wrapf(ErrReadPastEnd, "source failed: %v", r.srcErr)
		}
		return ErrReadPastEnd
	}

	if s.remaining == 0 && !r.eos {
		if r.active != r.read {
			r.active = (r.active + 1) & ringMask
		} else {
			// Pull a byte so that the next segment is fetched and More
			// reflects the true state of the stream.
			r.Peek(8)
		}
	}
	return nil
}

// Read returns the next n bits, n <= MaxPeek, and advances past them.
func (r *Reader) Read(n int) (uint32, error) {
	if n < 0 || n > MaxPeek {
		return 0, ErrBadWidth
	}
	v := r.Peek(n)
	err := r.Consume(n)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Align consumes the bits up to the next byte boundary.
func (r *Reader) Align() error {
	_, err := r.Read(r.AlignBits())
	return err
}

// AlignBits returns the number of bits up to the next byte boundary.
func (r *Reader) AlignBits() int {
	return int(r.bits & 7)
}

// ByteAligned returns true if the reader is positioned on a byte boundary.
func (r *Reader) ByteAligned() bool {
	return r.bits&7 == 0
}

// SkipToFrameEnd discards bytes until length bits have been consumed since
// the flushed count start. The reader is expected to be byte aligned.
func (r *Reader) SkipToFrameEnd(start, length uint64) error {
	for r.flushed-start < length {
		r.Peek(8)
		err := r.Consume(8)
		if err != nil {
			return err
		}
	}
	return nil
}

// Flushed returns the number of bits consumed since Init.
func (r *Reader) Flushed() uint64 {
	return r.flushed
}

// Position returns the position of the next bit to be consumed.
func (r *Reader) Position() Position {
	s := &r.seg[r.active]
	return Position{Segment: s.id, Bit: len(s.buf)<<3 - s.remaining}
}

func (r *Reader) nextByte() byte {
	s := &r.seg[r.read]
	if s.pos >= len(s.buf) {
		if r.eos {
			return 0
		}
		r.nextSegment()
		s = &r.seg[r.read]
		if s.pos >= len(s.buf) {
			return 0
		}
	}
	b := s.buf[s.pos]
	s.pos++
	return b
}

// nextSegment fetches a new segment from the source into the slot after
// read. The active segment is never overwritten.
func (r *Reader) nextSegment() {
	next := (r.read + 1) & ringMask
	if r.read >= 0 && next == r.active {
		r.overflow = true
		return
	}

	var (
		buf []byte
		id  uint64
		err error
	)
	if r.src != nil {
		buf, id, err = r.src.Next()
	}
	if err != nil {
		r.eos = true
		if err != io.EOF {
			r.srcErr = err
		}
	}

	if len(buf) == 0 {
		r.eos = true
		if r.read < 0 {
			r.read = 0
		}
	} else {
		r.seg[next] = segment{buf: buf, id: id, remaining: len(buf) << 3}
		r.read = next
	}

	if r.seg[r.active].remaining <= 0 && r.read != r.active {
		r.active = (r.active + 1) & ringMask
	}
}
