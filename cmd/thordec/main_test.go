/*
DESCRIPTION
  main_test.go provides testing for thordec command helpers.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/thor/codec/thor/thordec"
)

func TestParseVars(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]string
	}{
		{in: "", want: map[string]string{}},
		{in: "Mode=header", want: map[string]string{"Mode": "header"}},
		{in: "Mode=syntax, MaxWidth = 1920,bad", want: map[string]string{"Mode": "syntax", "MaxWidth": "1920"}},
	}
	for i, test := range tests {
		got := parseVars(test.in)
		if !cmp.Equal(got, test.want) {
			t.Errorf("did not get expected result for test %d:\n%s", i, cmp.Diff(test.want, got))
		}
	}
}

func TestWritePicture(t *testing.T) {
	f := thordec.NewFrame(4, 2, 0, 0)
	for p := thordec.PlaneY; p <= thordec.PlaneV; p++ {
		w, h := f.Size(p)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				f.Set(p, x, y, byte(int(p)*16+y*w+x))
			}
		}
	}
	pic := thordec.Picture{}
	for i := range pic.Planes {
		pic.Planes[i], pic.Stride[i] = f.Plane(thordec.Plane(i))
		pic.Width[i], pic.Height[i] = f.Size(thordec.Plane(i))
	}

	var buf bytes.Buffer
	err := writePicture(&buf, &pic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0, 1, 2, 3, 4, 5, 6, 7, 16, 17, 32, 33}
	if !cmp.Equal(buf.Bytes(), want) {
		t.Errorf("unexpected output:\n%s", cmp.Diff(want, buf.Bytes()))
	}
}

func TestPlotBits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bits.png")
	err := plotBits(path, []float64{100, 40, 30, 45})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if plotBits(path, nil) == nil {
		t.Error("expected error for no frames")
	}
}

func TestPercentiles(t *testing.T) {
	bits := make([]float64, 100)
	for i := range bits {
		bits[i] = float64(100 - i)
	}
	med, p95 := percentiles(bits)
	if med != 50 || p95 != 95 {
		t.Errorf("unexpected percentiles: got (%v, %v) want (50, 95)", med, p95)
	}
	if bits[0] != 100 {
		t.Error("input was modified")
	}
}
