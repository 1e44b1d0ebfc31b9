// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sink provides lwpkt.EventSink implementations that publish
// decoded protocol events to an external system rather than just
// counting them in-process.
package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MaJerle/lwpkt"
)

// RedisSink publishes EventPkt events as JSON to a Redis pub/sub
// channel and drops every other event type. Publish failures are swallowed after one log-worthy attempt:
// EventSink.Emit must not block or propagate errors back into the
// protocol's Read/Write/Process call.
type RedisSink struct {
	client  *redis.Client
	channel string
	ctx     context.Context
	onError func(error)
}

// wireEvent is the JSON shape published to the channel; Packet itself is
// not serialized (it has no stable identity across processes), only the
// decoded fields relevant at the moment the event fired.
type wireEvent struct {
	Type    string `json:"type"`
	Result  string `json:"result"`
	From    uint32 `json:"from,omitempty"`
	To      uint32 `json:"to,omitempty"`
	Flags   uint32 `json:"flags,omitempty"`
	Cmd     byte   `json:"cmd,omitempty"`
	DataLen int    `json:"data_len,omitempty"`
}

// NewRedisSink dials addr and returns a sink publishing to channel. ctx
// bounds every Publish call issued by Emit; onError, if non-nil, is
// invoked (from the calling goroutine) whenever a publish fails.
func NewRedisSink(ctx context.Context, addr, channel string, onError func(error)) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return &RedisSink{client: client, channel: channel, ctx: ctx, onError: onError}, nil
}

// Emit publishes only EventPkt occurrences — the decoded-packet
// milestone a fleet-wide subscriber actually cares about. Every other
// event type (read/write bookkeeping, timeouts) stays local.
func (s *RedisSink) Emit(ev lwpkt.Event) {
	if ev.Type != lwpkt.EventPkt {
		return
	}
	we := wireEvent{Type: ev.Type.String(), Result: ev.Result.String()}
	if ev.Packet != nil {
		we.From = ev.Packet.From()
		we.To = ev.Packet.To()
		we.Flags = ev.Packet.Flags()
		we.Cmd = ev.Packet.Cmd()
		we.DataLen = ev.Packet.DataLen()
	}
	payload, err := json.Marshal(we)
	if err != nil {
		if s.onError != nil {
			s.onError(err)
		}
		return
	}
	if err := s.client.Publish(s.ctx, s.channel, payload).Err(); err != nil {
		if s.onError != nil {
			s.onError(err)
		}
	}
}

// Close releases the underlying Redis connection.
func (s *RedisSink) Close() error { return s.client.Close() }

var _ lwpkt.EventSink = (*RedisSink)(nil)
