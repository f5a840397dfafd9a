/*
DESCRIPTION
  collab.go defines the interfaces through which the decoder drives block
  reconstruction, deblocking, constrained low pass filtering and reference
  interpolation, along with the shared per block metadata they operate on.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package thordec

// Block geometry.
const (
	CTUSize      = 64 // Coding tree unit edge in luma samples.
	MinBlockSize = 4  // Granularity of the block map.
)

// BlockMode is the prediction mode of a block.
type BlockMode uint8

const (
	BlockSkip BlockMode = iota
	BlockIntra
	BlockInter
	BlockBiPred
	BlockMerge
)

// MotionVector is a motion vector in quarter sample units.
type MotionVector struct {
	X, Y int16
}

// BlockInfo is the metadata recorded for a block during CTU decoding and read
// by the in-loop filters.
type BlockInfo struct {
	Mode    BlockMode
	Size    uint8
	TBSplit bool
	CBP     uint8 // Coded block pattern, bit i set for plane i.
	QP      uint8
	Dir     uint8 // Prediction direction for bi-prediction.
	RefIdx  [2]int8
	MV      [2]MotionVector
}

// BlockMap holds one BlockInfo for every MinBlockSize square of a frame.
type BlockMap struct {
	Cols int
	Rows int
	Info []BlockInfo
}

func newBlockMap(width, height int) *BlockMap {
	cols := (width + MinBlockSize - 1) / MinBlockSize
	rows := (height + MinBlockSize - 1) / MinBlockSize
	return &BlockMap{Cols: cols, Rows: rows, Info: make([]BlockInfo, cols*rows)}
}

// At returns the metadata for the block covering luma sample (x, y).
func (m *BlockMap) At(x, y int) *BlockInfo {
	return &m.Info[(y/MinBlockSize)*m.Cols+x/MinBlockSize]
}

// Set records b for every map entry covered by the size x size block whose
// top-left luma sample is (x, y). Entries outside the frame are ignored.
func (m *BlockMap) Set(x, y, size int, b BlockInfo) {
	c0, r0 := x/MinBlockSize, y/MinBlockSize
	n := (size + MinBlockSize - 1) / MinBlockSize
	for r := r0; r < r0+n && r < m.Rows; r++ {
		for c := c0; c < c0+n && c < m.Cols; c++ {
			m.Info[r*m.Cols+c] = b
		}
	}
}

func (m *BlockMap) clear() {
	for i := range m.Info {
		m.Info[i] = BlockInfo{}
	}
}

// CLPFDecisions holds the per CTU filter decisions for the current frame.
type CLPFDecisions struct {
	Cols  int
	Rows  int
	Frame bool // Filtering enabled for the frame at all.
	All   bool // Every CTU filtered, no per CTU flags sent.
	Flags []bool
}

func (d *CLPFDecisions) resize(cols, rows int) {
	d.Cols, d.Rows = cols, rows
	d.Flags = make([]bool, cols*rows)
	d.reset()
}

func (d *CLPFDecisions) reset() {
	d.Frame, d.All = false, false
	for i := range d.Flags {
		d.Flags[i] = false
	}
}

// Enabled returns whether the CTU at column col and row row is filtered.
func (d *CLPFDecisions) Enabled(col, row int) bool {
	if !d.Frame {
		return false
	}
	return d.All || d.Flags[row*d.Cols+col]
}

// BlockDecoder reconstructs one coding tree unit. It reads syntax through fs,
// writes samples into fs.Rec and records block metadata in fs.Blocks.
// Implementations must not write samples when fs.Mode is not ModeFull or
// ModePrediction.
type BlockDecoder interface {
	DecodeCTU(fs *FrameState, x, y, size int) error
}

// Deblocker applies the deblocking filter to a reconstructed frame. qp is the
// luma quantiser for DeblockLuma and the mapped chroma quantiser for
// DeblockChroma.
type Deblocker interface {
	DeblockLuma(f *Frame, b *BlockMap, width, height, qp int)
	DeblockChroma(f *Frame, b *BlockMap, width, height, qp int)
}

// LoopFilter applies the constrained low pass filter according to d.
type LoopFilter interface {
	Filter(f *Frame, b *BlockMap, d *CLPFDecisions)
}

// Interpolator synthesises dst from two references. The weight of ref2 is
// pos/ratio and the weight of ref1 is (ratio-pos)/ratio. ratio is always
// greater than zero.
type Interpolator interface {
	Interpolate(dst, ref1, ref2 *Frame, ratio, pos int)
}

type nopBlockDecoder struct{}

func (nopBlockDecoder) DecodeCTU(*FrameState, int, int, int) error { return nil }

type nopDeblocker struct{}

func (nopDeblocker) DeblockLuma(*Frame, *BlockMap, int, int, int)   {}
func (nopDeblocker) DeblockChroma(*Frame, *BlockMap, int, int, int) {}

type nopLoopFilter struct{}

func (nopLoopFilter) Filter(*Frame, *BlockMap, *CLPFDecisions) {}

// chromaQP maps luma qp to chroma qp.
var chromaQP = [52]int{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19,
	20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 29, 30, 31, 32, 32, 33, 34, 34,
	35, 35, 36, 36, 37, 37, 37, 38, 38, 38, 39, 39, 39, 39,
}

// ChromaQP returns the chroma quantiser used for deblocking at luma qp.
func ChromaQP(qp int) int {
	switch {
	case qp < 0:
		qp = 0
	case qp >= len(chromaQP):
		qp = len(chromaQP) - 1
	}
	return chromaQP[qp]
}
