// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package transport bridges a physical or network byte stream to the pair
// of RingBuffers a lwpkt.Packet reads and writes. Each transport runs two
// goroutines — one pumping inbound bytes into the RX ring, one draining
// the TX ring onto the wire — so the Packet itself stays single-goroutine
// and non-blocking.
package transport
