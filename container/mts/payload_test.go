/*
NAME
  payload_test.go

DESCRIPTION
  payload_test.go provides testing for the PES payload Demuxer.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

const (
	mediaPID = 0x100
	otherPID = 0x101
	pesHead  = 14 // PES header with PTS only.
)

// tsPacket returns a payload only packet on pid carrying exactly
// PacketSize-4 bytes of payload.
func tsPacket(pid int, pusi bool, cc int, payload []byte) []byte {
	if len(payload) != PacketSize-4 {
		panic("payload must fill packet")
	}
	p := make([]byte, 0, PacketSize)
	b1 := byte(pid>>8) & 0x1f
	if pusi {
		b1 |= 0x40
	}
	p = append(p, SyncByte, b1, byte(pid), 0x10|byte(cc&0xf))
	return append(p, payload...)
}

// pesHeader returns a video PES header carrying pts.
func pesHeader(pts uint64) []byte {
	return []byte{
		0x00, 0x00, 0x01, 0xe0, // Start code and stream ID.
		0x00, 0x00, // Unbounded length.
		0x80, 0x80, 0x05, // PTS only, five bytes of optional header.
		0x21 | byte(pts>>29)&0x0e,
		byte(pts >> 22),
		byte(pts>>14)&0xfe | 1,
		byte(pts >> 7),
		byte(pts<<1)&0xfe | 1,
	}
}

// writePES writes media as a PES packet on pid. len(media) must be
// PacketSize-4-pesHead plus a multiple of PacketSize-4.
func writePES(buf *bytes.Buffer, pid int, cc *int, pts uint64, media []byte) {
	first := append(pesHeader(pts), media[:PacketSize-4-pesHead]...)
	buf.Write(tsPacket(pid, true, *cc, first))
	*cc++
	for rest := media[PacketSize-4-pesHead:]; len(rest) > 0; rest = rest[PacketSize-4:] {
		buf.Write(tsPacket(pid, false, *cc, rest[:PacketSize-4]))
		*cc++
	}
}

// patPacket returns a PAT packet mapping program 1 to pmtPID.
func patPacket(pmtPID int) []byte {
	sec := []byte{
		0x00,             // Table ID.
		0xb0, 0x0d,       // Section length.
		0x00, 0x01,       // Transport stream ID.
		0xc1, 0x00, 0x00, // Version, section and last section.
		0x00, 0x01,       // Program number.
		0xe0 | byte(pmtPID>>8), byte(pmtPID),
	}
	sec = binary.BigEndian.AppendUint32(sec, mpegCRC(sec))
	payload := append([]byte{0x00}, sec...)
	payload = append(payload, bytes.Repeat([]byte{0xff}, PacketSize-4-len(payload))...)
	return tsPacket(PatPid, true, 0, payload)
}

// mpegCRC returns the MPEG-2 CRC32 of b.
func mpegCRC(b []byte) uint32 {
	var tab crc32.Table
	for i := range tab {
		c := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if c&0x80000000 != 0 {
				c = c<<1 ^ 0x04c11db7
			} else {
				c <<= 1
			}
		}
		tab[i] = c
	}
	crc := uint32(0xffffffff)
	for _, v := range b {
		crc = tab[byte(crc>>24)^v] ^ crc<<8
	}
	return crc
}

func randBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}

func TestDemuxer(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	first := PacketSize - 4 - pesHead
	want := []Frame{
		{Media: randBytes(rng, first+PacketSize-4), PTS: 0, ID: 0xe0},
		{Media: randBytes(rng, first), PTS: 3600, ID: 0xe0},
		{Media: randBytes(rng, first+2*(PacketSize-4)), PTS: 7200, ID: 0xe0},
	}

	var (
		ts      bytes.Buffer
		cc, occ int
	)
	for i, f := range want {
		writePES(&ts, mediaPID, &cc, f.PTS, f.Media)
		if i == 0 {
			writePES(&ts, otherPID, &occ, 0, randBytes(rng, first))
		}
	}

	tests := []struct {
		name string
		pid  int
	}{
		{name: "explicit", pid: mediaPID},
		{name: "auto", pid: AutoPID},
	}

	for _, test := range tests {
		d := NewDemuxer(bytes.NewReader(ts.Bytes()), test.pid)
		var got []Frame
		for {
			f, err := d.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", test.name, err)
			}
			got = append(got, f)
		}
		if !cmp.Equal(got, want) {
			t.Errorf("%s: unexpected frames:\n%s", test.name, cmp.Diff(want, got))
		}
		if d.PID() != mediaPID {
			t.Errorf("%s: unexpected PID: got %d want %d", test.name, d.PID(), mediaPID)
		}
	}
}

func TestDemuxerSkipsPMT(t *testing.T) {
	const pmtPID = 0x1000
	rng := rand.New(rand.NewSource(1))
	want := Frame{Media: randBytes(rng, PacketSize-4-pesHead), ID: 0xe0}

	var ts bytes.Buffer
	ts.Write(patPacket(pmtPID))
	var pcc, cc int
	writePES(&ts, pmtPID, &pcc, 0, randBytes(rng, PacketSize-4-pesHead))
	writePES(&ts, mediaPID, &cc, 0, want.Media)

	d := NewDemuxer(bytes.NewReader(ts.Bytes()), AutoPID)
	got, err := d.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected frame:\n%s", cmp.Diff(want, got))
	}
	if d.PID() != mediaPID {
		t.Errorf("unexpected PID: got %#x want %#x", d.PID(), mediaPID)
	}
}

func TestPrograms(t *testing.T) {
	got, err := Programs(patPacket(0x1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[uint16]uint16{1: 0x1000}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected programs:\n%s", cmp.Diff(want, got))
	}
}

func TestDemuxerBadSync(t *testing.T) {
	p := tsPacket(mediaPID, false, 0, make([]byte, PacketSize-4))
	p[0] = 0x00
	_, err := NewDemuxer(bytes.NewReader(p), mediaPID).Next()
	if !errors.Is(err, ErrBadSync) {
		t.Errorf("unexpected error: got %v want %v", err, ErrBadSync)
	}
}
