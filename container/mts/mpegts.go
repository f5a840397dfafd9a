/*
NAME
  mpegts.go - provides constants and helpers for working with MPEG-TS packets.

DESCRIPTION
  mpegts.go provides MPEG-TS packet constants, and functions for extracting
  the PID and program information of packets.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mts provides MPEG-TS (mts) demultiplexing of elementary stream
// payloads carried in PES packets.
package mts

import (
	gotspsi "github.com/Comcast/gots/psi"
	"github.com/pkg/errors"
)

const PacketSize = 188

// SyncByte starts every MPEG-TS packet.
const SyncByte = 0x47

// Standard program IDs for program specific information MPEG-TS packets.
const (
	PatPid  = 0
	SdtPid  = 17
	NullPid = 0x1fff
)

// ErrBadSync is returned for a packet that does not start with SyncByte.
var ErrBadSync = errors.New("packet does not start with sync byte")

// Programs returns a map of program numbers and corresponding PMT PIDs for a
// given MPEG-TS PAT packet.
func Programs(p []byte) (map[uint16]uint16, error) {
	pat, err := gotspsi.NewPAT(p)
	if err != nil {
		return nil, err
	}
	m := make(map[uint16]uint16)
	for k, v := range pat.ProgramMap() {
		m[uint16(k)] = uint16(v)
	}
	return m, nil
}
