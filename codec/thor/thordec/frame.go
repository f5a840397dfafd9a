/*
DESCRIPTION
  frame.go provides planar 4:2:0 frame buffers with optional replicated
  borders, and the Picture description handed to output listeners.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package thordec

import "image"

// Plane identifies one of the three colour planes of a frame.
type Plane int

const (
	PlaneY Plane = iota
	PlaneU
	PlaneV
)

// Border padding of reference frames in luma and chroma samples.
const (
	PaddingY = 96
	PaddingC = PaddingY / 2
)

// Output picture formats.
const (
	FormatYUV400 = iota
	FormatYUV420
	FormatYUV422
	FormatYUV444
)

type planeBuf struct {
	data   []byte // Whole plane including borders.
	stride int
	width  int
	height int
	pad    int
}

// origin returns the index of the top-left visible sample.
func (p *planeBuf) origin() int { return p.pad*p.stride + p.pad }

// Frame is a planar 4:2:0 picture. All three planes share one backing slice.
type Frame struct {
	// Num is the display number of the picture currently held.
	Num int

	Width  int
	Height int

	planes [3]planeBuf
}

// NewFrame returns a frame of the given luma dimensions with padY luma and
// padC chroma samples of border on every side.
func NewFrame(width, height, padY, padC int) *Frame {
	f := &Frame{Width: width, Height: height}
	cw, ch := width>>1, height>>1

	f.planes[PlaneY] = planeBuf{stride: width + 2*padY, width: width, height: height, pad: padY}
	for _, p := range []Plane{PlaneU, PlaneV} {
		f.planes[p] = planeBuf{stride: cw + 2*padC, width: cw, height: ch, pad: padC}
	}

	var size int
	for i := range f.planes {
		size += f.planes[i].stride * (f.planes[i].height + 2*f.planes[i].pad)
	}
	base := make([]byte, size)

	var off int
	for i := range f.planes {
		p := &f.planes[i]
		n := p.stride * (p.height + 2*p.pad)
		p.data = base[off : off+n : off+n]
		off += n
	}
	return f
}

// Plane returns the samples of plane p starting at the top-left visible
// sample, along with the stride between rows.
func (f *Frame) Plane(p Plane) ([]byte, int) {
	pb := &f.planes[p]
	return pb.data[pb.origin():], pb.stride
}

// Size returns the visible width and height of plane p.
func (f *Frame) Size(p Plane) (int, int) {
	return f.planes[p].width, f.planes[p].height
}

// At returns the sample at visible coordinates (x, y) of plane p. Coordinates
// may extend into the border.
func (f *Frame) At(p Plane, x, y int) byte {
	pb := &f.planes[p]
	return pb.data[pb.origin()+y*pb.stride+x]
}

// Set sets the sample at visible coordinates (x, y) of plane p.
func (f *Frame) Set(p Plane, x, y int, v byte) {
	pb := &f.planes[p]
	pb.data[pb.origin()+y*pb.stride+x] = v
}

// copyFrom copies the visible samples and display number of src, which must
// have the same dimensions, into f.
func (f *Frame) copyFrom(src *Frame) {
	for i := range f.planes {
		d, s := &f.planes[i], &src.planes[i]
		for y := 0; y < d.height; y++ {
			do := d.origin() + y*d.stride
			so := s.origin() + y*s.stride
			copy(d.data[do:do+d.width], s.data[so:so+s.width])
		}
	}
	f.Num = src.Num
}

// pad replicates the edge samples of every plane into its border.
func (f *Frame) pad() {
	for i := range f.planes {
		p := &f.planes[i]
		if p.pad == 0 || p.width == 0 || p.height == 0 {
			continue
		}

		for y := 0; y < p.height; y++ {
			row := p.data[(y+p.pad)*p.stride : (y+p.pad+1)*p.stride]
			l, r := row[p.pad], row[p.pad+p.width-1]
			for x := 0; x < p.pad; x++ {
				row[x] = l
				row[p.pad+p.width+x] = r
			}
		}

		top := p.data[p.pad*p.stride : (p.pad+1)*p.stride]
		bot := p.data[(p.pad+p.height-1)*p.stride : (p.pad+p.height)*p.stride]
		for y := 0; y < p.pad; y++ {
			copy(p.data[y*p.stride:(y+1)*p.stride], top)
			o := (p.pad + p.height + y) * p.stride
			copy(p.data[o:o+p.stride], bot)
		}
	}
}

// Picture describes a frame released for display.
type Picture struct {
	DisplayNum int
	DecodeNum  int

	Planes [3][]byte
	Width  [3]int
	Height [3]int
	Stride [3]int

	Format         int
	PixelSize      int // bytes per sample
	BitDepthLuma   int
	BitDepthChroma int
}

func newPicture(f *Frame, displayNum, decodeNum int) Picture {
	p := Picture{
		DisplayNum:     displayNum,
		DecodeNum:      decodeNum,
		Format:         FormatYUV420,
		PixelSize:      1,
		BitDepthLuma:   8,
		BitDepthChroma: 8,
	}
	for i := range p.Planes {
		p.Planes[i], p.Stride[i] = f.Plane(Plane(i))
		p.Width[i], p.Height[i] = f.Size(Plane(i))
	}
	return p
}

// YCbCr returns an image.YCbCr view of the picture that shares its samples.
func (p *Picture) YCbCr() *image.YCbCr {
	return &image.YCbCr{
		Y:              p.Planes[PlaneY],
		Cb:             p.Planes[PlaneU],
		Cr:             p.Planes[PlaneV],
		YStride:        p.Stride[PlaneY],
		CStride:        p.Stride[PlaneU],
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, p.Width[PlaneY], p.Height[PlaneY]),
	}
}
