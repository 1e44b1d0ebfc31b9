// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/charmbracelet/log"

	"github.com/MaJerle/lwpkt"
)

// LogSink logs every emitted protocol event at a level matching its
// severity: decoded packets and successful sends at info, timeouts, CRC
// errors and stop-byte errors at warn, everything else at debug.
type LogSink struct {
	log *log.Logger
}

func NewLogSink(l *log.Logger) *LogSink { return &LogSink{log: l} }

func (s *LogSink) Emit(ev lwpkt.Event) {
	switch ev.Type {
	case lwpkt.EventPkt:
		s.log.Info("packet", "from", ev.Packet.From(), "to", ev.Packet.To(),
			"cmd", ev.Packet.Cmd(), "len", ev.Packet.DataLen())
	case lwpkt.EventWrite:
		s.log.Info("sent", "result", ev.Result.String())
	case lwpkt.EventTimeout:
		s.log.Warn("timeout, frame reset")
	default:
		if ev.Result == lwpkt.CRCError || ev.Result == lwpkt.StopError {
			s.log.Warn("frame rejected", "result", ev.Result.String())
		} else {
			s.log.Debug("event", "type", ev.Type.String(), "result", ev.Result.String())
		}
	}
}

var _ lwpkt.EventSink = (*LogSink)(nil)
