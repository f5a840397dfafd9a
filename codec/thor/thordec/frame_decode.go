/*
DESCRIPTION
  frame_decode.go provides decoding of a single frame: header parsing,
  reference synthesis, the coding tree unit loop, in-loop filtering and the
  update of the reference window.

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

	"github.com/ausocean/thor/codec/thor/thordec/config"
)

// FrameState is the state of the frame being decoded, as seen by a
// BlockDecoder.
type FrameState struct {
	Seq    *SequenceHeader
	Header *FrameHeader
	Rec    *Frame
	Blocks *BlockMap
	Mode   uint8

	d *Decoder
}

// ReadBits reads a named n bit field from the bitstream.
func (fs *FrameState) ReadBits(name string, n int) (int, error) {
	v := fs.d.fr.read(name, n)
	return v, fs.d.fr.err()
}

// ReadFlag reads a named one bit field from the bitstream.
func (fs *FrameState) ReadFlag(name string) (bool, error) {
	v := fs.d.fr.readFlag(name)
	return v, fs.d.fr.err()
}

// StartGroup opens a trace group. Every StartGroup must be matched by
// EndGroup.
func (fs *FrameState) StartGroup(name string, typ TraceType) { fs.d.tr.startGroup(name, typ) }

// EndGroup closes the innermost trace group.
func (fs *FrameState) EndGroup() { fs.d.tr.endGroup() }

// Reference returns the frame selected by reference index idx of the frame
// header, or nil if the index selects nothing.
func (fs *FrameState) Reference(idx int) *Frame {
	if idx == refInterp {
		return fs.d.dpb.Interp(0)
	}
	if idx < 0 || idx >= MaxRefFrames {
		return nil
	}
	return fs.d.dpb.Ref(idx)
}

// decodeFrame decodes the frame following the sequence header, if any, of the
// current access unit.
func (d *Decoder) decodeFrame() error {
	h := &d.hdr
	*h = FrameHeader{DecodeNum: d.dpb.decodeNum}
	start := d.br.Flushed()

	d.tr.startGroup("frame", TraceFrame)
	defer d.tr.endGroup()

	parseFrameHeader(&d.fr, h)
	if err := d.fr.err(); err != nil {
		return errors.Wrap(err, "could not parse frame header")
	}

	for i := 0; i < h.NumRef; i++ {
		idx := h.RefIdx[i]
		switch {
		case idx == refInterp && d.dpb.Interp(0) == nil:
			return errors.Wrap(ErrMalformed, "synthesised reference used without interpolation enabled")
		case idx == refInterp:
		case idx < 0 || idx >= MaxRefFrames:
			return errors.Wrapf(ErrMalformed, "reference index %d out of range", idx)
		case d.dpb.Ref(idx).Num > h.DisplayNum:
			h.StatType = FrameBiPredicted
		}
	}

	rec, dropped := d.dpb.SelectOutputSlot(h.DisplayNum)
	if dropped {
		d.log.Warning("overwriting frame not yet output", "display", h.DisplayNum, "decode", h.DecodeNum)
	}

	if h.NumRef > 2 && h.RefIdx[0] == refInterp {
		i1, i2 := h.RefIdx[1], h.RefIdx[2]
		if i1 == refInterp || i2 == refInterp {
			return errors.Wrap(ErrMalformed, "synthesised reference interpolated from itself")
		}
		d.dpb.synthesize(d.interp, d.dpb.Ref(i1), d.dpb.Ref(i2), h.DisplayNum)
	}

	d.stats.header(h.StatType, d.br.Flushed()-start)

	d.blocks.clear()
	d.clpf.reset()
	d.fs = FrameState{
		Seq:    &d.seq,
		Header: h,
		Rec:    rec,
		Blocks: d.blocks,
		Mode:   d.cfg.Mode,
		d:      d,
	}

	if d.cfg.Mode < config.ModeHeader {
		err := d.decodeCTUs()
		if err != nil {
			return err
		}
		d.filter(rec, h)
		err = d.decodeCLPF(rec)
		if err != nil {
			return err
		}
	}

	ref := d.dpb.AdvanceWindow()
	if d.cfg.Mode == config.ModeFull {
		ref.copyFrom(rec)
		ref.pad()
	}
	ref.Num = rec.Num
	return nil
}

// decodeCTUs runs the block decoder over every coding tree unit in raster
// order.
func (d *Decoder) decodeCTUs() error {
	w, h := d.seq.Width, d.seq.Height
	for y := 0; y < h; y += CTUSize {
		for x := 0; x < w; x += CTUSize {
			d.tr.message("-- CTU (%d, %d)", x, y)
			d.tr.startGroup("coding_tree_unit", TraceCodingTree)
			err := d.blockDec.DecodeCTU(&d.fs, x, y, CTUSize)
			d.tr.endGroup()
			if err != nil {
				return errors.Wrapf(err, "could not decode CTU at (%d, %d)", x, y)
			}
			if err := d.fr.err(); err != nil {
				return errors.Wrapf(err, "could not decode CTU at (%d, %d)", x, y)
			}
			d.ctuL.CTUDecoded(x, y, CTUSize, CTUSize)
		}
	}
	return nil
}

// filter applies deblocking in full decoding mode.
func (d *Decoder) filter(rec *Frame, h *FrameHeader) {
	if d.cfg.Mode != config.ModeFull || !d.seq.Deblocking {
		return
	}
	d.deblock.DeblockLuma(rec, d.blocks, d.seq.Width, d.seq.Height, h.QP)
	d.deblock.DeblockChroma(rec, d.blocks, d.seq.Width, d.seq.Height, ChromaQP(h.QP))
}

// decodeCLPF reads the constrained low pass filter decisions and applies the
// filter in full decoding mode.
func (d *Decoder) decodeCLPF(rec *Frame) error {
	if !d.seq.CLPF {
		return nil
	}

	c := &d.clpf
	c.Frame = d.fr.readFlag("clpf_frame")
	if c.Frame {
		d.tr.startGroup("clpf", TraceCLPF)
		c.All = d.fr.readFlag("clpf_all")
		if !c.All {
			for i := range c.Flags {
				c.Flags[i] = d.fr.readFlag("clpf_flag")
			}
		}
		d.tr.endGroup()
	}
	if err := d.fr.err(); err != nil {
		return errors.Wrap(err, "could not read CLPF decisions")
	}

	if c.Frame && d.cfg.Mode == config.ModeFull {
		d.loop.Filter(rec, d.blocks, c)
	}
	return nil
}
