// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lwpkt

// Process pumps Read and applies the idle-timeout watchdog: on a truncated
// frame that is still in progress at least Config.ProcessTimeout after the
// last Process call whose Read result was not InProgress (or after the
// last timeout), the parser is reset and EventTimeout fires instead of
// leaving the machine pinned mid-state forever. Bytes arriving mid-frame
// do not restart that window.
//
// now is a caller-supplied monotonic millisecond tick (e.g. from a
// hardware timer or time.Now().UnixMilli()); the watchdog never reads the
// system clock itself.
func (p *Packet) Process(nowMillis int64) Result {
	if p == nil || p.rxRing == nil {
		return HardError
	}
	result := p.Read()

	switch result {
	case Valid:
		p.lastRXMillis = nowMillis
		p.emit(EventPkt, result)
	case InProgress:
		if nowMillis-p.lastRXMillis >= p.cfg.ProcessTimeout.Milliseconds() {
			p.Reset()
			p.lastRXMillis = nowMillis
			p.stats.Timeouts++
			p.emit(EventTimeout, InProgress)
		}
	default:
		p.lastRXMillis = nowMillis
	}
	return result
}
