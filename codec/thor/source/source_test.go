/*
DESCRIPTION
  source_test.go provides testing for the segment sources.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package source

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/thor/codec/thor/thordec/bits"
	"github.com/ausocean/thor/container/mts"
)

func testData(n int) []byte {
	rng := rand.New(rand.NewSource(1))
	b := make([]byte, n)
	rng.Read(b)
	return b
}

// drain reads every byte available from src through a bit reader.
func drain(t *testing.T, src bits.Source) []byte {
	t.Helper()
	r := bits.NewStreamReader(src)
	var out []byte
	for r.More() {
		v, err := r.Read(8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, byte(v))
	}
	return out
}

func TestSlices(t *testing.T) {
	in := testData(100)
	got := drain(t, NewSlices(in[:10], in[10:11], in[11:60], in[60:]))
	if !cmp.Equal(got, in) {
		t.Errorf("unexpected data:\n%s", cmp.Diff(in, got))
	}
}

func TestReader(t *testing.T) {
	in := testData(1000)
	for _, size := range []int{1, 7, 64, 1000, 4096} {
		got := drain(t, NewReader(bytes.NewReader(in), size))
		if !cmp.Equal(got, in) {
			t.Errorf("size %d: data differs from input", size)
		}
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestReaderError(t *testing.T) {
	_, _, err := NewReader(errReader{}, 16).Next()
	if err == nil || err == io.EOF {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestPool(t *testing.T) {
	in := testData(300)
	p := NewPool(16, 64, 10*time.Millisecond, (*logging.TestLogger)(t))

	errs := make(chan error, 1)
	go func() {
		defer p.Close()
		for off := 0; off < len(in); off += 50 {
			end := off + 50
			if end > len(in) {
				end = len(in)
			}
			_, err := p.Write(in[off:end])
			if err != nil {
				errs <- err
				return
			}
		}
	}()

	got := drain(t, p)
	select {
	case err := <-errs:
		t.Fatalf("unexpected write error: %v", err)
	default:
	}
	if !cmp.Equal(got, in) {
		t.Errorf("unexpected data:\n%s", cmp.Diff(in, got))
	}
}

func TestMTS(t *testing.T) {
	const pid = 0x100
	media := testData(mts.PacketSize - 4 - 14)

	pkt := []byte{mts.SyncByte, 0x40 | pid>>8, pid & 0xff, 0x10}
	pkt = append(pkt, 0x00, 0x00, 0x01, 0xe0, 0x00, 0x00, 0x80, 0x80, 0x05, 0x21, 0x00, 0x01, 0x00, 0x01)
	pkt = append(pkt, media...)
	ts := append(append([]byte(nil), pkt...), pkt...)

	got := drain(t, NewMTS(bytes.NewReader(ts), mts.AutoPID, (*logging.TestLogger)(t)))
	want := append(append([]byte(nil), media...), media...)
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected data:\n%s", cmp.Diff(want, got))
	}
}
