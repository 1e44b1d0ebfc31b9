// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lwpkt

import (
	"github.com/MaJerle/lwpkt/internal/crc"
)

const (
	startByte byte = 0xAA
	stopByte  byte = 0x55
)

// rxState is a state of the receive machine, in dependency order.
type rxState uint8

const (
	stateStart rxState = iota
	stateFrom
	stateTo
	stateFlags
	stateCmd
	stateLen
	stateData
	stateCRC
	stateStop
	stateEnd // sentinel: "no further enabled state"
)

// rxWork is the scratch zone reset between frames. Its meaning depends on
// the current state (e.g. vi counts varint-7 bytes during
// stateFrom/stateTo/stateFlags/stateLen, while dataIdx counts payload
// bytes during stateData).
type rxWork struct {
	state rxState

	vi varintDecoder // active during From/To (extended)/Flags/Len

	from  uint32
	to    uint32
	flags uint32
	cmd   byte
	len   uint32

	dataIdx int

	crcAcc     crc.Accumulator
	crcRecv    [4]byte
	crcRecvLen int
}

// Stats counts protocol outcomes across the lifetime of a Packet. Pure
// bookkeeping: it never gates wire behavior.
type Stats struct {
	Valid        uint64
	CRCErrors    uint64
	StopErrors   uint64
	MemoryErrors uint64
	Timeouts     uint64
}

// Packet is one peer endpoint: configuration, borrowed ring buffers, the
// in-progress receive state, and the decoded payload buffer. It owns no
// heap memory beyond what New allocates once; callers drive it from a
// single goroutine (the ring buffers may be SPSC across a producer
// goroutine, but the Packet itself is not).
type Packet struct {
	cfg      Config
	ownAddr  uint32
	dynFlags uint32
	sink     EventSink

	txRing RingBuffer
	rxRing RingBuffer

	data  []byte // decoded payload storage, len == cfg.MaxDataLen
	txBuf []byte // reusable transmit scratch buffer, zero-alloc steady state

	lastRXMillis int64
	lastResult   Result
	stats        Stats

	rx rxWork
}

// New creates a Packet bound to the given TX/RX ring buffers. All dynamic
// features default to enabled, matching the spec's "all bits set" default.
func New(cfg Config, txRing, rxRing RingBuffer) *Packet {
	p := &Packet{
		cfg:      cfg,
		dynFlags: 1<<uint(featureCount) - 1,
		txRing:   txRing,
		rxRing:   rxRing,
		data:     make([]byte, cfg.MaxDataLen),
		txBuf:    make([]byte, 0, cfg.MaxDataLen+32),
	}
	p.Reset()
	return p
}

// SetOwnAddress configures the local node's address.
func (p *Packet) SetOwnAddress(addr uint32) { p.ownAddr = addr }

// SetFeatureEnabled toggles a Dynamic feature's per-instance runtime
// flag. It has no effect on features configured Disabled or Always at
// build time.
func (p *Packet) SetFeatureEnabled(f Feature, on bool) {
	bit := uint32(1) << uint(f)
	if on {
		p.dynFlags |= bit
	} else {
		p.dynFlags &^= bit
	}
}

// SetEventSink registers (or clears, with nil) the event observer.
func (p *Packet) SetEventSink(sink EventSink) { p.sink = sink }

// Reset discards any partially assembled frame and returns the receive
// machine to stateStart. It does not affect own address, feature flags,
// or the event sink.
func (p *Packet) Reset() {
	p.rx = rxWork{state: stateStart}
}

// Stats returns a snapshot of accumulated outcome counters.
func (p *Packet) Stats() Stats { return p.stats }

// LastResult returns the Result of the most recently completed Read or
// Process call.
func (p *Packet) LastResult() Result { return p.lastResult }

func (p *Packet) enabled(f Feature) bool { return p.cfg.enabled(f, p.dynFlags) }

func (p *Packet) addrExtended() bool { return p.enabled(FeatureAddrExtended) }

func (p *Packet) crc32Enabled() bool { return p.enabled(FeatureCRC32) }

func (p *Packet) newCRCAccumulator() crc.Accumulator {
	if p.crc32Enabled() {
		return &crc.CRC32{}
	}
	return &crc.CRC8{}
}

// From returns the decoded source address of the last Valid frame.
func (p *Packet) From() uint32 { return p.rx.from }

// To returns the decoded destination address of the last Valid frame.
func (p *Packet) To() uint32 { return p.rx.to }

// Flags returns the decoded user-flags value of the last Valid frame.
func (p *Packet) Flags() uint32 { return p.rx.flags }

// Cmd returns the decoded command byte of the last Valid frame.
func (p *Packet) Cmd() byte { return p.rx.cmd }

// DataLen returns the decoded payload length of the last Valid frame.
func (p *Packet) DataLen() int { return int(p.rx.len) }

// Data returns the decoded payload of the last Valid frame. The returned
// slice aliases Packet-owned storage and is only valid until the next
// Read/Process call.
func (p *Packet) Data() []byte { return p.data[:p.rx.len] }

// IsForMe reports whether the last decoded frame's destination address
// equals this instance's own address.
func (p *Packet) IsForMe() bool { return p.rx.to == p.ownAddr }

// IsBroadcast reports whether the last decoded frame's destination
// address equals the configured broadcast sentinel.
func (p *Packet) IsBroadcast() bool { return p.rx.to == p.cfg.AddrBroadcast }
