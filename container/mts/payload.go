/*
NAME
  payload.go

DESCRIPTION
  payload.go provides a Demuxer that extracts the payloads of PES packets of
  one elementary stream from MPEG-TS read incrementally from an io.Reader.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"io"

	"github.com/Comcast/gots/packet"
	"github.com/Comcast/gots/pes"
	"github.com/pkg/errors"
)

// AutoPID selects the first PID, other than those carrying PSI, on which a
// PES packet starts.
const AutoPID = -1

// Frame is the payload of one PES packet.
type Frame struct {
	Media []byte // Payload data following the PES header.
	PTS   uint64 // PTS from the PES header.
	ID    uint8  // Stream ID from the PES header.
}

// Demuxer extracts PES payloads of a single elementary stream.
type Demuxer struct {
	r    io.Reader
	pid  int
	pmts map[int]bool
	pkt  packet.Packet
	cur  Frame
	open bool // A PES packet has started and is being accumulated.
	eof  bool
	n    int // Packets read.
}

// NewDemuxer returns a Demuxer reading MPEG-TS from r and extracting the
// stream carried on pid, which may be AutoPID.
func NewDemuxer(r io.Reader, pid int) *Demuxer {
	return &Demuxer{r: r, pid: pid, pmts: make(map[int]bool)}
}

// PID returns the PID being extracted, or AutoPID if none has been selected.
func (d *Demuxer) PID() int { return d.pid }

// Next returns the next complete PES payload. A PES packet is complete when
// the following one starts or the input ends. io.EOF is returned once all
// payloads have been returned.
func (d *Demuxer) Next() (Frame, error) {
	for {
		if d.eof {
			return Frame{}, io.EOF
		}

		_, err := io.ReadFull(d.r, d.pkt[:])
		switch err {
		case nil:
		case io.EOF, io.ErrUnexpectedEOF:
			d.eof = true
			if d.open {
				d.open = false
				return d.cur, nil
			}
			return Frame{}, io.EOF
		default:
			return Frame{}, errors.Wrap(err, "could not read packet")
		}
		d.n++

		if d.pkt[0] != SyncByte {
			return Frame{}, errors.Wrapf(ErrBadSync, "packet %d", d.n-1)
		}

		pid := d.pkt.PID()
		switch {
		case pid == PatPid:
			progs, err := Programs(d.pkt[:])
			if err != nil {
				return Frame{}, errors.Wrap(err, "could not parse PAT")
			}
			for _, p := range progs {
				d.pmts[int(p)] = true
			}
			continue
		case pid == SdtPid || pid == NullPid || d.pmts[pid]:
			continue
		case d.pid == AutoPID && d.pkt.PayloadUnitStartIndicator():
			d.pid = pid
		}
		if pid != d.pid {
			continue
		}

		payload, err := d.pkt.Payload()
		if err != nil {
			// Adaptation field only.
			continue
		}

		if !d.pkt.PayloadUnitStartIndicator() {
			if d.open {
				d.cur.Media = append(d.cur.Media, payload...)
			}
			continue
		}

		h, err := pes.NewPESHeader(payload)
		if err != nil {
			return Frame{}, errors.Wrap(err, "could not parse PES header")
		}
		prev, wasOpen := d.cur, d.open
		d.cur = Frame{
			Media: append([]byte(nil), h.Data()...),
			PTS:   h.PTS(),
			ID:    h.StreamId(),
		}
		d.open = true
		if wasOpen {
			return prev, nil
		}
	}
}
