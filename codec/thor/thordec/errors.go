/*
DESCRIPTION
  errors.go defines the errors returned by the thor decoder.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package thordec

import "github.com/pkg/errors"

var (
	// ErrMalformed is returned when the bitstream ends early or carries a
	// value the decoder cannot act on. Decoding may resume with the next call
	// to Decode.
	ErrMalformed = errors.New("malformed bitstream")

	// ErrNoSequenceHeader is returned when an access unit is decoded before
	// any sequence header with non-zero dimensions has been seen.
	ErrNoSequenceHeader = errors.New("no sequence header")

	// ErrAllocation is returned when frame buffers for a sequence header
	// cannot be provided. It is fatal to the decoder instance.
	ErrAllocation = errors.New("could not allocate frame buffers")

	ErrNoSource    = errors.New("no buffer or source to decode from")
	ErrNilArgument = errors.New("nil option argument")
	ErrInvalidMode = errors.New("invalid decoding mode")
)
