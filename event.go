// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lwpkt

// EventType identifies a protocol milestone an EventSink may observe.
type EventType uint8

const (
	// EventPreRead fires at the start of every Read invocation.
	EventPreRead EventType = iota
	// EventPostRead fires at the end of every Read invocation,
	// unconditionally.
	EventPostRead
	// EventRead fires at the end of a Read invocation that consumed at
	// least one byte.
	EventRead
	// EventPreWrite fires before Write's capacity check.
	EventPreWrite
	// EventPostWrite fires at the end of every Write invocation,
	// unconditionally.
	EventPostWrite
	// EventWrite fires when Write completes successfully.
	EventWrite
	// EventPkt fires only from Process, on a Valid result.
	EventPkt
	// EventTimeout fires only from Process, when the idle watchdog
	// resets an in-progress frame.
	EventTimeout
)

func (e EventType) String() string {
	switch e {
	case EventPreRead:
		return "PRE_READ"
	case EventPostRead:
		return "POST_READ"
	case EventRead:
		return "READ"
	case EventPreWrite:
		return "PRE_WRITE"
	case EventPostWrite:
		return "POST_WRITE"
	case EventWrite:
		return "WRITE"
	case EventPkt:
		return "PKT"
	case EventTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN_EVENT"
	}
}

// Event is the payload delivered to an EventSink.
type Event struct {
	Type   EventType
	Result Result
	// Packet is the instance that raised the event, so a sink shared
	// across instances can identify the source.
	Packet *Packet
}

// EventSink observes protocol milestones. Emit is called synchronously,
// on the same goroutine driving Read/Write/Process; it must not block and
// must not call back into the Packet that invoked it.
//
// This is an interface rather than a function pointer (the original
// design's callback), so sinks can carry their own state (a log handle, a
// publisher) without closures capturing it by hand.
type EventSink interface {
	Emit(ev Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

func (f EventSinkFunc) Emit(ev Event) { f(ev) }

func (p *Packet) emit(t EventType, r Result) {
	if p.sink == nil {
		return
	}
	p.sink.Emit(Event{Type: t, Result: r, Packet: p})
}
