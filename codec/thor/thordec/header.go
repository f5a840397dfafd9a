/*
DESCRIPTION
  header.go provides parsing of thor sequence and frame headers.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package thordec

// SequenceHeader holds stream level parameters.
type SequenceHeader struct {
	Width         int
	Height        int
	PBSplit       bool
	TBSplit       bool
	MaxNumRef     int
	InterpRef     bool
	MaxDeltaQP    int
	Deblocking    bool
	CLPF          bool
	BlockContexts bool
	BiPred        bool
	QuantMatrix   bool
}

// parseSequenceHeader reads a sequence header. Errors are left in r.
func parseSequenceHeader(r *fieldReader) SequenceHeader {
	var s SequenceHeader
	s.Width = r.read("width", 16)
	s.Height = r.read("height", 16)
	s.PBSplit = r.readFlag("pb_split_enable")
	s.TBSplit = r.readFlag("tb_split_enable")
	s.MaxNumRef = r.readOffset("max_num_ref", 2, 1)
	s.InterpRef = r.readFlag("interp_ref")
	s.MaxDeltaQP = r.read("max_delta_qp", 1)
	s.Deblocking = r.readFlag("deblocking")
	s.CLPF = r.readFlag("clpf")
	s.BlockContexts = r.readFlag("use_block_contexts")
	s.BiPred = r.readFlag("enable_bipred")
	s.QuantMatrix = r.readFlag("qmtx")
	return s
}

// needsRealloc returns true if moving from prev to s changes frame storage.
func (s *SequenceHeader) needsRealloc(prev *SequenceHeader) bool {
	return s.Width != prev.Width ||
		s.Height != prev.Height ||
		s.InterpRef != prev.InterpRef ||
		s.QuantMatrix != prev.QuantMatrix
}

// FrameType is the coding type of a frame.
type FrameType int

const (
	FrameIntra FrameType = iota
	FramePredicted
	FrameBiPredicted
	numFrameTypes
)

func (t FrameType) String() string {
	switch t {
	case FrameIntra:
		return "I"
	case FramePredicted:
		return "P"
	case FrameBiPredicted:
		return "B"
	}
	return "unknown"
}

// MaxFrameRefs is the largest number of reference indices a frame header can
// carry.
const MaxFrameRefs = 5

// FrameHeader holds the parameters of one frame.
type FrameHeader struct {
	Type          FrameType
	StatType      FrameType // Type for statistics; B if any reference is displayed later.
	QP            int
	NumIntraModes int
	NumRef        int
	RefIdx        [MaxFrameRefs]int
	InterpRef     bool // Some RefIdx selects the synthesised reference.
	DisplayNum    int
	DecodeNum     int
}

// parseFrameHeader reads a frame header into h. Errors are left in r.
func parseFrameHeader(r *fieldReader, h *FrameHeader) {
	h.Type = FrameType(r.read("frame_type", 1))
	h.StatType = h.Type
	h.QP = r.read("qp", 8)
	h.NumIntraModes = r.read("num_intra_modes", 4)
	if h.Type != FrameIntra {
		h.NumRef = r.readOffset("num_ref", 2, 1)
		for i := 0; i < h.NumRef; i++ {
			h.RefIdx[i] = r.readOffset("ref_idx", 6, -1)
		}
		if h.NumRef == 2 && h.RefIdx[0] == refInterp {
			h.RefIdx[h.NumRef] = r.readOffset("ref_idx", 5, -1)
			h.NumRef++
		}
		for i := 0; i < h.NumRef; i++ {
			if h.RefIdx[i] == refInterp {
				h.InterpRef = true
			}
		}
	}
	h.DisplayNum = r.read("display_frame_num", 16)
}
