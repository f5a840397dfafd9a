/*
DESCRIPTION
  interp.go provides temporal weighting for synthesised references and a
  linear blending Interpolator.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package thordec

// temporalWeights returns the ratio and position used to synthesise the
// picture at display from references displayed at num1 and num2. The ratio
// is always positive; references at the same distance, or displayed at the
// same time, are weighted equally.
func temporalWeights(display, num1, num2 int) (ratio, pos int) {
	off1 := num2 - display
	off2 := display - num1
	if off1 < 0 && off2 < 0 {
		off1, off2 = -off1, -off2
	}
	if off1 == off2 {
		off1, off2 = 1, 1
	}
	ratio, pos = off1+off2, off2
	switch {
	case ratio == 0:
		return 2, 1
	case ratio < 0:
		return -ratio, -pos
	}
	return ratio, pos
}

// LinearInterpolator blends two references sample by sample. Weights outside
// [0, ratio] extrapolate and results are clipped to the sample range.
type LinearInterpolator struct{}

// Interpolate implements Interpolator.
func (LinearInterpolator) Interpolate(dst, ref1, ref2 *Frame, ratio, pos int) {
	w1, w2 := ratio-pos, pos
	for p := PlaneY; p <= PlaneV; p++ {
		d, ds := dst.Plane(p)
		a, as := ref1.Plane(p)
		b, bs := ref2.Plane(p)
		w, h := dst.Size(p)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := (int(a[y*as+x])*w1 + int(b[y*bs+x])*w2 + ratio/2) / ratio
				d[y*ds+x] = clip8(v)
			}
		}
	}
}

func clip8(v int) byte {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return byte(v)
}
