/*
DESCRIPTION
  dpb.go provides the decoded picture buffer: a sliding window of padded
  reference frames, a pool of synthesised references and a set of
  reconstruction slots used to reorder frames from decode to display order.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package thordec

import "github.com/pkg/errors"

// DPB dimensions.
const (
	MaxRefFrames    = 8
	ReorderDepth    = 16
	MaxInterpFrames = 4
)

// refInterp is the reference index that selects the synthesised reference.
const refInterp = -1

type recSlot struct {
	frame      *Frame
	available  bool
	displayNum int
	decodeNum  int
}

// DPB is the decoded picture buffer. The zero value holds no frames; call
// Alloc before use.
type DPB struct {
	refs [MaxRefFrames]*Frame
	head int // Index into refs of reference 0.

	interp []*Frame

	rec        [ReorderDepth]recSlot
	cur        int // Slot of the frame being reconstructed.
	lastOutput int // Display number of the last emitted frame.
	decodeNum  int
}

// Alloc replaces all frame storage with frames of the given dimensions and
// resets ordering state. A synthesised reference pool is allocated when
// interp is true. ErrAllocation is returned, and the DPB left unchanged, for
// dimensions that are not positive.
func (d *DPB) Alloc(width, height int, interp bool) error {
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrAllocation, "invalid frame dimensions %dx%d", width, height)
	}
	for i := range d.rec {
		d.rec[i] = recSlot{frame: NewFrame(width, height, 0, 0)}
	}
	for i := range d.refs {
		d.refs[i] = NewFrame(width, height, PaddingY, PaddingC)
	}
	d.head = 0

	d.interp = nil
	if interp {
		for i := 0; i < MaxInterpFrames; i++ {
			d.interp = append(d.interp, NewFrame(width, height, PaddingY, PaddingC))
		}
	}
	d.ResetOrder()
	return nil
}

// ResetOrder clears all availability and resets the output cursor and decode
// counter.
func (d *DPB) ResetOrder() {
	for i := range d.rec {
		d.rec[i].available = false
		d.rec[i].displayNum = 0
		d.rec[i].decodeNum = 0
	}
	d.cur = 0
	d.lastOutput = -1
	d.decodeNum = 0
}

// Ref returns reference i of the sliding window, where 0 is the most
// recently added.
func (d *DPB) Ref(i int) *Frame {
	return d.refs[(d.head+i)%MaxRefFrames]
}

// Interp returns synthesised reference i, or nil if there is no pool.
func (d *DPB) Interp(i int) *Frame {
	if i >= len(d.interp) {
		return nil
	}
	return d.interp[i]
}

// AdvanceWindow rotates the sliding window so that the oldest reference
// storage becomes reference 0, which is returned for the caller to fill.
func (d *DPB) AdvanceWindow() *Frame {
	d.head = (d.head + MaxRefFrames - 1) % MaxRefFrames
	return d.refs[d.head]
}

// SelectOutputSlot makes the slot for display number display current and
// returns its frame. dropped is true if the slot still held a frame that had
// not been emitted, which is lost.
func (d *DPB) SelectOutputSlot(display int) (f *Frame, dropped bool) {
	d.cur = display % ReorderDepth
	s := &d.rec[d.cur]
	dropped = s.available
	s.available = false
	s.displayNum = display
	s.decodeNum = d.decodeNum
	s.frame.Num = display
	return s.frame, dropped
}

// MarkAvailable flags the slot for display as holding a complete frame.
func (d *DPB) MarkAvailable(display, decodeNum int) {
	s := &d.rec[display%ReorderDepth]
	s.available = true
	s.displayNum = display
	s.decodeNum = decodeNum
}

// PopReadyOutput returns the picture following the last one emitted if it is
// available, and advances the output cursor.
func (d *DPB) PopReadyOutput() (Picture, bool) {
	i := (d.lastOutput + 1) % ReorderDepth
	s := &d.rec[i]
	if !s.available {
		return Picture{}, false
	}
	d.lastOutput++
	s.available = false
	return newPicture(s.frame, s.displayNum, s.decodeNum), true
}

// FlushTail emits, in display order, every consecutive available picture
// following the last one emitted and returns the number emitted.
func (d *DPB) FlushTail(emit func(*Picture)) int {
	var n int
	for n < ReorderDepth {
		p, ok := d.PopReadyOutput()
		if !ok {
			break
		}
		emit(&p)
		n++
	}
	return n
}

// Current returns a picture describing the slot being reconstructed.
func (d *DPB) Current() Picture {
	s := &d.rec[d.cur]
	if s.frame == nil {
		return Picture{}
	}
	return newPicture(s.frame, s.displayNum, s.decodeNum)
}

// synthesize fills synthesised reference 0 from ref1 and ref2 for the picture
// at display and pads it.
func (d *DPB) synthesize(ip Interpolator, ref1, ref2 *Frame, display int) *Frame {
	dst := d.interp[0]
	ratio, pos := temporalWeights(display, ref1.Num, ref2.Num)
	ip.Interpolate(dst, ref1, ref2, ratio, pos)
	dst.pad()
	dst.Num = display
	return dst
}
