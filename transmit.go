// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lwpkt

import (
	"github.com/MaJerle/lwpkt/internal/crc"
)

// Write encodes one frame — destination address, user flags, command,
// and payload, each present only if its feature is enabled for this
// instance — and enqueues it onto the TX RingBuffer in a single pass.
//
// The entire frame size is computed before anything is written; if the
// TX RingBuffer lacks free space, Write returns MemoryError and the
// buffer is left untouched. Source address is always this instance's own
// address (set via SetOwnAddress); to, flags, and cmd are ignored when
// their corresponding feature is not enabled for this instance.
func (p *Packet) Write(to uint32, flags uint32, cmd byte, data []byte) Result {
	if p == nil || p.txRing == nil {
		return HardError
	}
	p.emit(EventPreWrite, OK)
	result := p.encodeAndSend(to, flags, cmd, data)
	p.emit(EventPostWrite, result)
	if result == OK {
		p.emit(EventWrite, result)
	}
	return result
}

func (p *Packet) encodeAndSend(to, flags uint32, cmd byte, data []byte) Result {
	if len(data) > len(p.data) {
		p.stats.MemoryErrors++
		return MemoryError
	}

	addrOn := p.enabled(FeatureAddr)
	extended := p.addrExtended()
	flagsOn := p.enabled(FeatureFlags)
	cmdOn := p.enabled(FeatureCmd)
	crcOn := p.enabled(FeatureCRC)

	var acc crc.Accumulator
	crcSize := 0
	if crcOn {
		acc = p.newCRCAccumulator()
		acc.Init()
		crcSize = acc.Size()
	}

	required := 2 // start + stop
	if addrOn {
		if extended {
			required += varint7Len(p.ownAddr) + varint7Len(to)
		} else {
			required += 2
		}
	}
	if flagsOn {
		required += varint7Len(flags)
	}
	if cmdOn {
		required++
	}
	required += varint7Len(uint32(len(data)))
	required += len(data)
	required += crcSize

	if p.txRing.Free() < required {
		p.stats.MemoryErrors++
		return MemoryError
	}

	buf := p.txBuf[:0]
	appendCovered := func(bs ...byte) {
		buf = append(buf, bs...)
		if crcOn {
			for _, x := range bs {
				acc.Update(x)
			}
		}
	}

	buf = append(buf, startByte)

	var tmp [maxVarint7Bytes]byte
	if addrOn {
		if extended {
			n := putVarint7(tmp[:], p.ownAddr)
			appendCovered(tmp[:n]...)
			n = putVarint7(tmp[:], to)
			appendCovered(tmp[:n]...)
		} else {
			appendCovered(byte(p.ownAddr), byte(to))
		}
	}
	if flagsOn {
		n := putVarint7(tmp[:], flags)
		appendCovered(tmp[:n]...)
	}
	if cmdOn {
		appendCovered(cmd)
	}
	n := putVarint7(tmp[:], uint32(len(data)))
	appendCovered(tmp[:n]...)
	if len(data) > 0 {
		appendCovered(data...)
	}

	if crcOn {
		sum := acc.Finish()
		var crcBytes [4]byte
		for i := 0; i < crcSize; i++ {
			crcBytes[i] = byte(sum >> uint(8*i))
		}
		buf = append(buf, crcBytes[:crcSize]...) // not CRC-covered
	}
	buf = append(buf, stopByte)

	p.txBuf = buf
	written := p.txRing.Write(buf)
	if written != len(buf) {
		// The pre-flight Free() check guarantees capacity; a short write
		// here means the RingBuffer implementation violated its
		// single-writer contract.
		return HardError
	}
	return OK
}
