/*
DESCRIPTION
  options.go provides functional options for the thor Decoder.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package thordec

import (
	"github.com/ausocean/thor/codec/thor/thordec/bits"
)

// Option configures a Decoder at construction.
type Option func(*Decoder) error

// WithSource sets the segment source used when Decode is called with a nil
// buffer.
func WithSource(src bits.Source) Option {
	return func(d *Decoder) error {
		if src == nil {
			return ErrNilArgument
		}
		d.src = src
		return nil
	}
}

// WithBlockDecoder sets the coding tree unit decoder.
func WithBlockDecoder(b BlockDecoder) Option {
	return func(d *Decoder) error {
		if b == nil {
			return ErrNilArgument
		}
		d.blockDec = b
		return nil
	}
}

// WithDeblocker sets the deblocking filter.
func WithDeblocker(db Deblocker) Option {
	return func(d *Decoder) error {
		if db == nil {
			return ErrNilArgument
		}
		d.deblock = db
		return nil
	}
}

// WithLoopFilter sets the constrained low pass filter.
func WithLoopFilter(f LoopFilter) Option {
	return func(d *Decoder) error {
		if f == nil {
			return ErrNilArgument
		}
		d.loop = f
		return nil
	}
}

// WithInterpolator sets the reference interpolator. The default is
// LinearInterpolator.
func WithInterpolator(ip Interpolator) Option {
	return func(d *Decoder) error {
		if ip == nil {
			return ErrNilArgument
		}
		d.interp = ip
		return nil
	}
}

// WithOutputListener sets the receiver of pictures in display order.
func WithOutputListener(l OutputListener) Option {
	return func(d *Decoder) error {
		if l == nil {
			return ErrNilArgument
		}
		d.output = l
		return nil
	}
}

// WithFrameListener sets the receiver of per access unit notifications.
func WithFrameListener(l FrameListener) Option {
	return func(d *Decoder) error {
		if l == nil {
			return ErrNilArgument
		}
		d.frameL = l
		return nil
	}
}

// WithCTUListener sets the receiver of per coding tree unit notifications.
func WithCTUListener(l CTUListener) Option {
	return func(d *Decoder) error {
		if l == nil {
			return ErrNilArgument
		}
		d.ctuL = l
		return nil
	}
}

// WithErrorListener sets the receiver of access unit failures.
func WithErrorListener(l ErrorListener) Option {
	return func(d *Decoder) error {
		if l == nil {
			return ErrNilArgument
		}
		d.errL = l
		return nil
	}
}

// WithTraceListener sets the receiver of the syntax trace. Events are
// filtered by the TraceGroups and TraceSyntax masks of the config.
func WithTraceListener(l TraceListener) Option {
	return func(d *Decoder) error {
		if l == nil {
			return ErrNilArgument
		}
		d.traceL = l
		return nil
	}
}
