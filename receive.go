// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lwpkt

// Header sections in dependency order. TO always follows FROM (both
// gated by FeatureAddr); LEN has no gate and is always present.
var headerOrder = [5]rxState{stateFrom, stateTo, stateFlags, stateCmd, stateLen}

const (
	headerIdxTo    = 1
	headerIdxFlags = 2
	headerIdxCmd   = 3
	headerIdxLen   = 4
)

// Trailer sections in dependency order, consulted once header and
// payload are done. STOP has no gate and is always present.
var tailOrder = [2]rxState{stateCRC, stateStop}

func (p *Packet) enabledState(s rxState) bool {
	switch s {
	case stateFrom, stateTo:
		return p.enabled(FeatureAddr)
	case stateFlags:
		return p.enabled(FeatureFlags)
	case stateCmd:
		return p.enabled(FeatureCmd)
	case stateLen, stateStop:
		return true
	case stateCRC:
		return p.enabled(FeatureCRC)
	default:
		return false
	}
}

func (p *Packet) nextHeaderState(fromIdx int) rxState {
	for i := fromIdx; i < len(headerOrder); i++ {
		if p.enabledState(headerOrder[i]) {
			return headerOrder[i]
		}
	}
	return stateEnd
}

func (p *Packet) nextTailState(fromIdx int) rxState {
	for i := fromIdx; i < len(tailOrder); i++ {
		if p.enabledState(tailOrder[i]) {
			return tailOrder[i]
		}
	}
	return stateEnd
}

// enterState transitions into s, initializing whatever scratch that
// state will accumulate into.
func (p *Packet) enterState(s rxState) {
	switch s {
	case stateFrom, stateTo, stateFlags, stateLen:
		p.rx.vi.reset()
	case stateData:
		p.rx.dataIdx = 0
	case stateCRC:
		p.rx.crcRecvLen = 0
	}
	p.rx.state = s
}

func (p *Packet) advanceHeader(fromIdx int) {
	next := p.nextHeaderState(fromIdx)
	if next == stateEnd {
		// LEN is ungated and always terminates the header chain; this
		// should be unreachable.
		next = stateLen
	}
	p.enterState(next)
}

func (p *Packet) advanceTail() {
	next := p.nextTailState(0)
	if next == stateEnd {
		// STOP is ungated; unreachable.
		next = stateStop
	}
	p.enterState(next)
}

func (p *Packet) memoryError() (Result, bool) {
	p.Reset()
	return MemoryError, true
}

func (p *Packet) feedStart(b byte) (Result, bool) {
	if b != startByte {
		return 0, false
	}
	acc := p.newCRCAccumulator()
	acc.Init()
	p.rx = rxWork{state: stateStart, crcAcc: acc}
	next := p.nextHeaderState(0)
	if next == stateEnd {
		next = stateLen
	}
	p.enterState(next)
	return 0, false
}

func (p *Packet) feedAddr(b byte, isFrom bool) (Result, bool) {
	p.rx.crcAcc.Update(b)
	if !p.addrExtended() {
		if isFrom {
			p.rx.from = uint32(b)
			p.advanceHeader(headerIdxTo)
		} else {
			p.rx.to = uint32(b)
			p.advanceHeader(headerIdxFlags)
		}
		return 0, false
	}
	done, overflow := p.rx.vi.step(b)
	if overflow {
		return p.memoryError()
	}
	if !done {
		return 0, false
	}
	if isFrom {
		p.rx.from = p.rx.vi.value
		p.advanceHeader(headerIdxTo)
	} else {
		p.rx.to = p.rx.vi.value
		p.advanceHeader(headerIdxFlags)
	}
	return 0, false
}

func (p *Packet) feedFlags(b byte) (Result, bool) {
	p.rx.crcAcc.Update(b)
	done, overflow := p.rx.vi.step(b)
	if overflow {
		return p.memoryError()
	}
	if !done {
		return 0, false
	}
	p.rx.flags = p.rx.vi.value
	p.advanceHeader(headerIdxCmd)
	return 0, false
}

func (p *Packet) feedCmd(b byte) (Result, bool) {
	p.rx.cmd = b
	p.rx.crcAcc.Update(b)
	p.advanceHeader(headerIdxLen)
	return 0, false
}

func (p *Packet) feedLen(b byte) (Result, bool) {
	p.rx.crcAcc.Update(b)
	done, overflow := p.rx.vi.step(b)
	if overflow {
		return p.memoryError()
	}
	if !done {
		return 0, false
	}
	p.rx.len = p.rx.vi.value
	if int(p.rx.len) > len(p.data) {
		return p.memoryError()
	}
	if p.rx.len > 0 {
		p.enterState(stateData)
	} else {
		p.advanceTail()
	}
	return 0, false
}

func (p *Packet) feedData(b byte) (Result, bool) {
	if p.rx.dataIdx >= int(p.rx.len) {
		return p.memoryError()
	}
	p.data[p.rx.dataIdx] = b
	p.rx.dataIdx++
	p.rx.crcAcc.Update(b)
	if p.rx.dataIdx == int(p.rx.len) {
		p.advanceTail()
	}
	return 0, false
}

func (p *Packet) feedCRC(b byte) (Result, bool) {
	p.rx.crcRecv[p.rx.crcRecvLen] = b
	p.rx.crcRecvLen++
	need := p.rx.crcAcc.Size()
	if p.rx.crcRecvLen < need {
		return 0, false
	}
	var recv uint32
	for i := 0; i < need; i++ {
		recv |= uint32(p.rx.crcRecv[i]) << uint(8*i)
	}
	if recv != p.rx.crcAcc.Finish() {
		p.Reset()
		return CRCError, true
	}
	p.enterState(stateStop)
	return 0, false
}

func (p *Packet) feedStop(b byte) (Result, bool) {
	if b == stopByte {
		p.enterState(stateStart)
		return Valid, true
	}
	p.Reset()
	return StopError, true
}

// feed advances the receive machine by exactly one byte. It returns a
// terminal Result when a frame completes (successfully or not); a
// non-terminal byte returns (0, false) and the caller should keep
// feeding.
func (p *Packet) feed(b byte) (Result, bool) {
	switch p.rx.state {
	case stateStart:
		return p.feedStart(b)
	case stateFrom:
		return p.feedAddr(b, true)
	case stateTo:
		return p.feedAddr(b, false)
	case stateFlags:
		return p.feedFlags(b)
	case stateCmd:
		return p.feedCmd(b)
	case stateLen:
		return p.feedLen(b)
	case stateData:
		return p.feedData(b)
	case stateCRC:
		return p.feedCRC(b)
	case stateStop:
		return p.feedStop(b)
	default:
		return HardError, true
	}
}

// Read pumps the receive machine with whatever is currently available in
// the RX RingBuffer. It consumes bytes until either a frame completes
// (successfully or with an error) or the buffer drains, and returns
// immediately in either case — it never blocks waiting for more bytes.
func (p *Packet) Read() Result {
	if p == nil || p.rxRing == nil {
		return HardError
	}
	p.emit(EventPreRead, OK)

	consumed := false
	decided := false
	result := InProgress
	for {
		b, ok := p.rxRing.ReadByte()
		if !ok {
			break
		}
		consumed = true
		res, terminal := p.feed(b)
		if terminal {
			result = res
			decided = true
			break
		}
	}
	if !decided {
		if p.rx.state != stateStart {
			result = InProgress
		} else {
			result = WaitingForData
		}
	}

	switch result {
	case Valid:
		p.stats.Valid++
	case CRCError:
		p.stats.CRCErrors++
	case StopError:
		p.stats.StopErrors++
	case MemoryError:
		p.stats.MemoryErrors++
	}
	p.lastResult = result

	p.emit(EventPostRead, result)
	if consumed {
		p.emit(EventRead, result)
	}
	return result
}
