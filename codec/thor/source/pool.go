/*
DESCRIPTION
  pool.go provides a segment source fed by a producer goroutine through an
  ausocean/utils/pool ring buffer.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package source

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/pool"
	"github.com/pkg/errors"

	"github.com/ausocean/thor/codec/thor/thordec/bits"
)

// Pool delivers segments written by a producer goroutine. Every Write
// becomes one segment. Chunk data is copied out of the pool into one of
// bits.RingSize buffers and the chunk released straight away.
type Pool struct {
	buf     *pool.Buffer
	timeout time.Duration
	log     logging.Logger
	segs    [bits.RingSize][]byte
	n       uint64
	done    atomic.Bool
}

// NewPool returns a Pool of n elements of size bytes. timeout is how long Next
// waits for a segment before checking whether the producer has finished.
func NewPool(n, size int, timeout time.Duration, l logging.Logger) *Pool {
	return &Pool{
		buf:     pool.NewBuffer(n, size, timeout),
		timeout: timeout,
		log:     l,
	}
}

// Write implements io.Writer. d is copied into the pool as one segment.
func (p *Pool) Write(d []byte) (int, error) {
	n, err := p.buf.Write(d)
	if err != nil {
		return n, errors.Wrap(err, "could not write to pool")
	}
	p.buf.Flush()
	return n, nil
}

// Close signals that the producer has finished. Segments already written
// are still delivered.
func (p *Pool) Close() error {
	p.done.Store(true)
	return nil
}

// Next implements bits.Source.
func (p *Pool) Next() ([]byte, uint64, error) {
	for {
		// Only a producer finished before the wait began guarantees that a
		// timeout means no segments remain.
		done := p.done.Load()
		c, err := p.buf.Next(p.timeout)
		switch err {
		case nil:
		case pool.ErrTimeout:
			if done {
				return nil, 0, io.EOF
			}
			p.log.Debug("pool read timeout")
			continue
		case io.EOF:
			return nil, 0, io.EOF
		default:
			return nil, 0, errors.Wrap(err, "could not get next chunk")
		}

		slot := p.n % bits.RingSize
		p.segs[slot] = append(p.segs[slot][:0], c.Bytes()...)
		c.Close()
		if len(p.segs[slot]) == 0 {
			continue
		}

		id := p.n
		p.n++
		return p.segs[slot], id, nil
	}
}
