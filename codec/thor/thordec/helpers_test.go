/*
DESCRIPTION
  helpers_test.go provides bitstream construction and event recording
  utilities for thordec tests.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package thordec

import (
	"io"
	"testing"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/thor/codec/thor/thordec/config"
)

// bitWriter packs values MSB first.
type bitWriter struct {
	buf  []byte
	cur  byte
	nCur int
}

func (w *bitWriter) write(v int, n int) {
	for i := n - 1; i >= 0; i-- {
		w.cur = w.cur<<1 | byte(uint(v)>>uint(i)&1)
		w.nCur++
		if w.nCur == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur, w.nCur = 0, 0
		}
	}
}

func (w *bitWriter) flag(b bool) {
	if b {
		w.write(1, 1)
		return
	}
	w.write(0, 1)
}

// bytes returns the written bits padded with zeros to a byte boundary.
func (w *bitWriter) bytes() []byte {
	for w.nCur != 0 {
		w.write(0, 1)
	}
	return w.buf
}

func (w *bitWriter) seq(s SequenceHeader) {
	w.write(s.Width, 16)
	w.write(s.Height, 16)
	w.flag(s.PBSplit)
	w.flag(s.TBSplit)
	w.write(s.MaxNumRef-1, 2)
	w.flag(s.InterpRef)
	w.write(s.MaxDeltaQP, 1)
	w.flag(s.Deblocking)
	w.flag(s.CLPF)
	w.flag(s.BlockContexts)
	w.flag(s.BiPred)
	w.flag(s.QuantMatrix)
}

// frame writes a frame header. Frames with refs are predicted. Three refs
// with the first selecting the synthesised reference use the extended form.
func (w *bitWriter) frame(qp, display int, refs ...int) {
	if len(refs) == 0 {
		w.write(int(FrameIntra), 1)
	} else {
		w.write(int(FramePredicted), 1)
	}
	w.write(qp, 8)
	w.write(0, 4)
	if len(refs) != 0 {
		extended := len(refs) == 3 && refs[0] == refInterp
		n := len(refs)
		if extended {
			n = 2
		}
		w.write(n-1, 2)
		for i, r := range refs {
			if extended && i == 2 {
				w.write(r+1, 5)
				continue
			}
			w.write(r+1, 6)
		}
	}
	w.write(display, 16)
}

// au wraps a payload, padded to a byte boundary, with its length prefix.
func au(payload func(w *bitWriter)) []byte {
	var p bitWriter
	payload(&p)
	b := p.bytes()
	var w bitWriter
	w.write(len(b), 32)
	return append(w.bytes(), b...)
}

func concat(aus ...[]byte) []byte {
	var b []byte
	for _, a := range aus {
		b = append(b, a...)
	}
	return b
}

var testSeq = SequenceHeader{Width: 64, Height: 64, MaxNumRef: 2}

// intraAU returns an access unit holding an intra frame, preceded by a
// sequence header if seq is non-nil.
func intraAU(seq *SequenceHeader, qp, display int) []byte {
	return au(func(w *bitWriter) {
		if seq != nil {
			w.seq(*seq)
		}
		w.frame(qp, display)
	})
}

func interAU(seq *SequenceHeader, display int, refs ...int) []byte {
	return au(func(w *bitWriter) {
		if seq != nil {
			w.seq(*seq)
		}
		w.frame(30, display, refs...)
	})
}

// recorder records decoder events.
type recorder struct {
	pics   []Picture
	frames []uint64
	ctus   [][2]int
	errs   []error
	groups []string
	bits   map[string]uint64
	elems  []SyntaxElement
	msgs   []string
}

func newRecorder() *recorder { return &recorder{bits: make(map[string]uint64)} }

func (r *recorder) Output(p *Picture)              { r.pics = append(r.pics, *p) }
func (r *recorder) FrameDecoded(n uint64)          { r.frames = append(r.frames, n) }
func (r *recorder) CTUDecoded(x, y, w, h int)      { r.ctus = append(r.ctus, [2]int{x, y}) }
func (r *recorder) DecodeError(err error)          { r.errs = append(r.errs, err) }
func (r *recorder) GroupStart(g Group)             { r.groups = append(r.groups, "+"+g.Name) }
func (r *recorder) SyntaxElement(e *SyntaxElement) { r.elems = append(r.elems, *e) }
func (r *recorder) Message(msg string)             { r.msgs = append(r.msgs, msg) }

func (r *recorder) GroupEnd(g Group, n uint64) {
	r.groups = append(r.groups, "-"+g.Name)
	r.bits[g.Name] = n
}

// displayOrder returns the display numbers of the recorded pictures.
func (r *recorder) displayOrder() []int {
	var d []int
	for _, p := range r.pics {
		d = append(d, p.DisplayNum)
	}
	return d
}

// silentLogger discards log output, for tests that expect decode errors.
type silentLogger struct{}

func (silentLogger) Log(l int8, m string, a ...interface{})  {}
func (silentLogger) SetLevel(l int8)                         {}
func (silentLogger) Debug(msg string, args ...interface{})   {}
func (silentLogger) Info(msg string, args ...interface{})    {}
func (silentLogger) Warning(msg string, args ...interface{}) {}
func (silentLogger) Error(msg string, args ...interface{})   {}
func (silentLogger) Fatal(msg string, args ...interface{})   {}

func newTestDecoder(t *testing.T, l logging.Logger, mode uint8, opts ...Option) *Decoder {
	t.Helper()
	if l == nil {
		l = (*logging.TestLogger)(t)
	}
	d, err := New(config.Config{Logger: l, LogLevel: logging.Debug, Mode: mode}, opts...)
	if err != nil {
		t.Fatalf("could not create decoder: %v", err)
	}
	return d
}

// fillDecoder fills the whole reconstructed frame with a value derived from
// its display number, and calls check for every CTU.
type fillDecoder struct {
	check func(fs *FrameState, x, y int)
}

func fillValue(display int) byte { return byte(10 * (display + 1)) }

func (f *fillDecoder) DecodeCTU(fs *FrameState, x, y, size int) error {
	if x == 0 && y == 0 && fs.Mode <= config.ModePrediction {
		v := fillValue(fs.Header.DisplayNum)
		for p := PlaneY; p <= PlaneV; p++ {
			w, h := fs.Rec.Size(p)
			for j := 0; j < h; j++ {
				for i := 0; i < w; i++ {
					fs.Rec.Set(p, i, j, v)
				}
			}
		}
	}
	if f.check != nil {
		f.check(fs, x, y)
	}
	return nil
}

// segments delivers a fixed list of segments.
type segments struct {
	segs [][]byte
	i    int
}

func (s *segments) Next() ([]byte, uint64, error) {
	if s.i >= len(s.segs) {
		return nil, 0, io.EOF
	}
	s.i++
	return s.segs[s.i-1], uint64(s.i - 1), nil
}
