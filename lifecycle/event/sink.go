// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package event

// Sink receives events, fire and forget.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a func to Sink.
type SinkFunc func(ev Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Buffer collects events until flushed. Events of reverted operations are
// dropped by truncating the buffer back to a mark.
type Buffer struct {
	events []Event
}

func (b *Buffer) Emit(ev Event) {
	b.events = append(b.events, ev)
}

// Mark returns the current position.
func (b *Buffer) Mark() int {
	return len(b.events)
}

// Truncate drops events emitted after mark.
func (b *Buffer) Truncate(mark int) {
	if mark < len(b.events) {
		b.events = b.events[:mark]
	}
}

// Flush hands all buffered events to sink in emission order and empties the buffer.
func (b *Buffer) Flush(sink Sink) {
	events := b.events
	b.events = nil
	for _, ev := range events {
		sink.Emit(ev)
	}
}

// Events returns the buffered events.
func (b *Buffer) Events() []Event {
	return b.events
}

// Multi fans out to several sinks.
type Multi []Sink

func (m Multi) Emit(ev Event) {
	for _, s := range m {
		s.Emit(ev)
	}
}
