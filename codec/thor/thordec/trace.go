/*
DESCRIPTION
  trace.go defines the listener interfaces through which the decoder reports
  output pictures, progress, errors and a hierarchical trace of the syntax
  it parses.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package thordec

import (
	"fmt"

	"github.com/ausocean/thor/codec/thor/thordec/bits"
)

// TraceType classifies trace groups and the syntax elements within them.
type TraceType uint32

const (
	TraceSequenceHeader TraceType = 1 << iota
	TraceFrame
	TraceCodingTree
	TraceBlock
	TraceResidual
	TraceCLPF
	TraceAccessUnit

	TraceAll     TraceType = 0x00ffffff
	TraceMessage TraceType = 0x80000000
)

// Group describes a trace group.
type Group struct {
	Name  string
	Type  TraceType
	Depth int
}

// SyntaxElement describes one parsed field.
type SyntaxElement struct {
	Name    string
	Type    TraceType // Type of the enclosing group.
	Depth   int
	Raw     uint32
	NumBits int
	Value   int
	Start   bits.Position
	End     bits.Position
}

// OutputListener receives pictures in display order. The picture samples are
// only valid for the duration of the call.
type OutputListener interface {
	Output(p *Picture)
}

// OutputFunc adapts a function to the OutputListener interface.
type OutputFunc func(p *Picture)

// Output implements OutputListener.
func (f OutputFunc) Output(p *Picture) { f(p) }

// FrameListener is told of every decoded access unit along with the number
// of bits it occupied.
type FrameListener interface {
	FrameDecoded(bits uint64)
}

// FrameFunc adapts a function to the FrameListener interface.
type FrameFunc func(bits uint64)

// FrameDecoded implements FrameListener.
func (f FrameFunc) FrameDecoded(bits uint64) { f(bits) }

// CTUListener is told of every decoded coding tree unit.
type CTUListener interface {
	CTUDecoded(x, y, width, height int)
}

// ErrorListener is told of every access unit that fails to decode.
type ErrorListener interface {
	DecodeError(err error)
}

// TraceListener receives the syntax trace. Group events are delivered for
// group types in the group mask, element events for enclosing group types in
// the syntax mask, and messages when the syntax mask has TraceMessage set.
type TraceListener interface {
	GroupStart(g Group)
	GroupEnd(g Group, bits uint64)
	SyntaxElement(e *SyntaxElement)
	Message(msg string)
}

type nopListener struct{}

func (nopListener) Output(*Picture)               {}
func (nopListener) FrameDecoded(uint64)           {}
func (nopListener) CTUDecoded(int, int, int, int) {}
func (nopListener) DecodeError(error)             {}
func (nopListener) GroupStart(Group)              {}
func (nopListener) GroupEnd(Group, uint64)        {}
func (nopListener) SyntaxElement(*SyntaxElement)  {}
func (nopListener) Message(string)                {}

type traceFrame struct {
	g     Group
	start uint64
}

// tracer tracks the group stack and filters events by mask.
type tracer struct {
	l      TraceListener
	groups TraceType
	syntax TraceType
	br     *bits.Reader
	stack  []traceFrame
	elem   SyntaxElement
}

func (t *tracer) init(l TraceListener, groups, syntax TraceType, br *bits.Reader) {
	t.l, t.groups, t.syntax, t.br = l, groups, syntax, br
	t.stack = make([]traceFrame, 0, 16)
}

func (t *tracer) reset() { t.stack = t.stack[:0] }

// cur returns the type of the innermost open group.
func (t *tracer) cur() TraceType {
	if len(t.stack) == 0 {
		return 0
	}
	return t.stack[len(t.stack)-1].g.Type
}

// active returns true if syntax elements read now would be delivered.
func (t *tracer) active() bool {
	return t.syntax&t.cur() != 0
}

func (t *tracer) startGroup(name string, typ TraceType) {
	g := Group{Name: name, Type: typ, Depth: len(t.stack)}
	t.stack = append(t.stack, traceFrame{g: g, start: t.br.Flushed()})
	if t.groups&typ != 0 {
		t.l.GroupStart(g)
	}
}

func (t *tracer) endGroup() {
	if len(t.stack) == 0 {
		return
	}
	f := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	if t.groups&f.g.Type != 0 {
		t.l.GroupEnd(f.g, t.br.Flushed()-f.start)
	}
}

func (t *tracer) element(name string, raw uint32, n, value int, start, end bits.Position) {
	t.elem = SyntaxElement{
		Name:    name,
		Type:    t.cur(),
		Depth:   len(t.stack),
		Raw:     raw,
		NumBits: n,
		Value:   value,
		Start:   start,
		End:     end,
	}
	t.l.SyntaxElement(&t.elem)
}

func (t *tracer) message(format string, args ...interface{}) {
	if t.syntax&TraceMessage == 0 {
		return
	}
	t.l.Message(fmt.Sprintf(format, args...))
}
