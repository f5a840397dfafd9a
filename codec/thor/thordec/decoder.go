/*
DESCRIPTION
  decoder.go provides the thor Decoder, which drives the decoding of access
  units from a buffer or a segment source and releases pictures in display
  order.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package thordec provides the control core of a thor video decoder. It
// parses sequence and frame headers, manages the decoded picture buffer and
// reference window, reorders frames for display and drives pluggable block
// decoding and in-loop filtering.
package thordec

import (
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/thor/codec/thor/thordec/bits"
	"github.com/ausocean/thor/codec/thor/thordec/config"
)

// Decoder decodes a thor bitstream. A Decoder is not safe for concurrent use.
type Decoder struct {
	cfg  config.Config
	mode uint8 // Mode at construction, restored by Reset.
	log  logging.Logger

	br  bits.Reader
	src bits.Source
	fr  fieldReader
	tr  tracer

	seq        SequenceHeader
	needHeader bool
	hdr        FrameHeader
	dpb        DPB
	blocks     *BlockMap
	clpf       CLPFDecisions
	fs         FrameState
	stats      Stats
	failed     error

	blockDec BlockDecoder
	deblock  Deblocker
	loop     LoopFilter
	interp   Interpolator

	output OutputListener
	frameL FrameListener
	ctuL   CTUListener
	errL   ErrorListener
	traceL TraceListener
}

// New returns a new Decoder. The config is validated and options are applied
// in order.
func New(c config.Config, opts ...Option) (*Decoder, error) {
	err := c.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	nop := nopListener{}
	d := &Decoder{
		cfg:        c,
		mode:       c.Mode,
		log:        c.Logger,
		needHeader: true,
		blockDec:   nopBlockDecoder{},
		deblock:    nopDeblocker{},
		loop:       nopLoopFilter{},
		interp:     LinearInterpolator{},
		output:     nop,
		frameL:     nop,
		ctuL:       nop,
		errL:       nop,
		traceL:     nop,
	}

	for i, opt := range opts {
		err := opt(d)
		if err != nil {
			return nil, errors.Wrapf(err, "option %d failed", i)
		}
	}

	d.tr.init(d.traceL, TraceType(c.TraceGroups), TraceType(c.TraceSyntax), &d.br)
	d.fr = fieldReader{br: &d.br, t: &d.tr}
	d.dpb.ResetOrder()
	return d, nil
}

// Decode decodes every access unit in buf, or in the configured source if
// buf is nil. Decoding stops at the first access unit that fails; pictures
// already released remain valid and the decoder may be called again.
// ErrAllocation is returned by every call once it has occurred.
func (d *Decoder) Decode(buf []byte) error {
	if d.failed != nil {
		return d.failed
	}
	if buf == nil && d.src == nil {
		return ErrNoSource
	}

	d.br.Init(buf, d.src)
	for d.br.More() {
		err := d.decodeAccessUnit()
		if err != nil {
			d.log.Error("could not decode access unit", "decode", d.dpb.decodeNum, "error", err.Error())
			d.errL.DecodeError(err)
			if errors.Is(err, ErrAllocation) {
				d.failed = err
			}
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeAccessUnit() error {
	d.fr.reset()
	d.tr.reset()
	start := d.br.Flushed()

	d.tr.startGroup("access_unit", TraceAccessUnit)
	defer d.tr.endGroup()

	length := uint64(d.fr.read("frame_length", 32)) << 3
	if err := d.fr.err(); err != nil {
		return errors.Wrap(err, "could not read access unit length")
	}
	frameStart := d.br.Flushed()

	if d.needHeader {
		err := d.decodeSequenceHeader()
		if err != nil {
			return err
		}
		d.needHeader = false
	}
	if d.seq.Width == 0 || d.seq.Height == 0 {
		return ErrNoSequenceHeader
	}

	err := d.decodeFrame()
	if err != nil {
		return err
	}

	d.fr.align()
	if err := d.fr.err(); err != nil {
		return err
	}
	if d.cfg.Mode == config.ModeHeader {
		err := d.br.SkipToFrameEnd(frameStart, length)
		if err != nil {
			return errors.Wrapf(ErrMalformed, "could not skip to end of access unit: %v", err)
		}
	}

	h := &d.hdr
	d.dpb.MarkAvailable(h.DisplayNum, h.DecodeNum)
	n := d.br.Flushed() - start
	d.stats.frame(h.StatType, n)
	d.frameL.FrameDecoded(n)
	d.log.Debug("decoded access unit", "decode", h.DecodeNum, "display", h.DisplayNum, "type", h.StatType.String(), "bits", n)

	if p, ok := d.dpb.PopReadyOutput(); ok {
		d.output.Output(&p)
	}
	d.dpb.decodeNum++
	return nil
}

func (d *Decoder) decodeSequenceHeader() error {
	d.tr.startGroup("sequence_header", TraceSequenceHeader)
	s := parseSequenceHeader(&d.fr)
	d.tr.endGroup()
	if err := d.fr.err(); err != nil {
		return errors.Wrap(err, "could not parse sequence header")
	}

	if !s.needsRealloc(&d.seq) {
		d.seq = s
		return nil
	}

	if s.Width == 0 || s.Height == 0 {
		d.seq = s
		return nil
	}
	if uint(s.Width) > d.cfg.MaxWidth || uint(s.Height) > d.cfg.MaxHeight {
		return errors.Wrapf(ErrAllocation, "%dx%d exceeds limit of %dx%d", s.Width, s.Height, d.cfg.MaxWidth, d.cfg.MaxHeight)
	}

	err := d.dpb.Alloc(s.Width, s.Height, s.InterpRef)
	if err != nil {
		return err
	}
	d.blocks = newBlockMap(s.Width, s.Height)
	d.clpf.resize((s.Width+CTUSize-1)/CTUSize, (s.Height+CTUSize-1)/CTUSize)
	d.seq = s
	d.log.Info("allocated frame buffers", "width", s.Width, "height", s.Height, "interp", s.InterpRef, "qmtx", s.QuantMatrix)
	return nil
}

// Flush releases, in display order, the consecutive run of decoded pictures
// following the last one released and returns how many were released.
func (d *Decoder) Flush() int {
	return d.dpb.FlushTail(d.output.Output)
}

// Reset discards ordering state and restores the mode the decoder was created
// with, so that the next access unit is treated as the start of a new stream,
// which must begin with a sequence header.
func (d *Decoder) Reset() {
	d.cfg.Mode = d.mode
	d.dpb.ResetOrder()
	d.needHeader = true
}

// RequestSequenceHeader causes the next access unit to be parsed as starting
// with a sequence header.
func (d *Decoder) RequestSequenceHeader() {
	d.needHeader = true
}

// SetMode changes the decoding mode from the next access unit.
func (d *Decoder) SetMode(m uint8) error {
	if m > config.ModeHeader {
		return ErrInvalidMode
	}
	d.cfg.Mode = m
	return nil
}

// SequenceHeader returns the most recently parsed sequence header.
func (d *Decoder) SequenceHeader() SequenceHeader { return d.seq }

// PicInfo describes the frame most recently selected for reconstruction.
func (d *Decoder) PicInfo() Picture { return d.dpb.Current() }

// CLPFDecisions returns the filter decisions of the most recent frame. The
// result is overwritten by the next frame.
func (d *Decoder) CLPFDecisions() *CLPFDecisions { return &d.clpf }

// Stats returns the statistics gathered since the decoder was created.
func (d *Decoder) Stats() *Stats { return &d.stats }
