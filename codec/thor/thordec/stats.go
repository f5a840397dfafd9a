/*
DESCRIPTION
  stats.go provides per frame type bit statistics for a decoding session.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package thordec

import "math"

// Stats accumulates bit counts of decoded frames by statistical frame type.
// Only running totals are kept, so memory use does not grow with the length
// of the stream.
type Stats struct {
	headerBits [numFrameTypes]uint64
	frames     [numFrameTypes]int
	totalBits  [numFrameTypes]uint64
	sumSq      [numFrameTypes]float64
}

// Summary summarises the frames of one type.
type Summary struct {
	Type       FrameType
	Frames     int
	HeaderBits uint64
	TotalBits  uint64
	MeanBits   float64
	StdDevBits float64 // Sample standard deviation.
}

func (s *Stats) header(t FrameType, n uint64) {
	s.headerBits[t] += n
}

func (s *Stats) frame(t FrameType, n uint64) {
	s.frames[t]++
	s.totalBits[t] += n
	s.sumSq[t] += float64(n) * float64(n)
}

// Frames returns the number of frames decoded.
func (s *Stats) Frames() int {
	var n int
	for _, f := range s.frames {
		n += f
	}
	return n
}

// Summary returns a summary for each frame type in the order I, P, B.
func (s *Stats) Summary() []Summary {
	sum := make([]Summary, numFrameTypes)
	for t := range sum {
		n := s.frames[t]
		sum[t] = Summary{Type: FrameType(t), Frames: n, HeaderBits: s.headerBits[t], TotalBits: s.totalBits[t]}
		if n == 0 {
			continue
		}
		total := float64(s.totalBits[t])
		sum[t].MeanBits = total / float64(n)
		if n == 1 {
			continue
		}
		v := (s.sumSq[t] - total*total/float64(n)) / float64(n-1)
		if v > 0 {
			sum[t].StdDevBits = math.Sqrt(v)
		}
	}
	return sum
}
