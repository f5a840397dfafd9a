/*
DESCRIPTION
  reorder.go provides the coding to display order offsets of frames within a
  sub-GOP.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package thordec

import mathbits "math/bits"

// MaxSubGOP is the longest sub-GOP with a dyadic ordering.
const MaxSubGOP = 16

// codeToDisplay returns the display position of the frame coded at position
// idx of a dyadic sub-GOP of length 1<<l.
func codeToDisplay(l, idx int) int {
	switch l {
	case 0:
		return [...]int{0}[idx]
	case 1:
		return [...]int{1, 0}[idx]
	case 2:
		return [...]int{3, 1, 0, 2}[idx]
	case 3:
		return [...]int{7, 3, 1, 5, 0, 2, 4, 6}[idx]
	case 4:
		return [...]int{15, 7, 3, 11, 1, 5, 9, 13, 0, 2, 4, 6, 8, 10, 12, 14}[idx]
	}
	panic("thordec: sub-GOP longer than MaxSubGOP")
}

// ReorderFrameOffset returns the display offset of the frame coded at
// position idx of a sub-GOP of length subGOP, relative to the last frame of
// the sub-GOP. subGOP must be a power of two no greater than MaxSubGOP when
// dyadic is true, and idx must be less than subGOP.
func ReorderFrameOffset(idx, subGOP int, dyadic bool) int {
	if !dyadic {
		if idx == 0 {
			return 0
		}
		return idx - subGOP
	}
	return codeToDisplay(mathbits.Len(uint(subGOP))-1, idx) - subGOP + 1
}
