// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lwpkt

// Varint-7: little-endian base-128 unsigned integer, MSB of each wire
// byte set means "more bytes follow", clear means "last byte". A 32-bit
// value needs at most 5 bytes (ceil(32/7) = 5).
const maxVarint7Bytes = 5

// varint7Len reports how many bytes v encodes to.
func varint7Len(v uint32) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}

// putVarint7 encodes v into dst (which must have len(dst) >= varint7Len(v))
// and returns the number of bytes written.
func putVarint7(dst []byte, v uint32) int {
	i := 0
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			dst[i] = b | 0x80
			i++
			continue
		}
		dst[i] = b
		i++
		return i
	}
}

// varintDecoder accumulates a varint-7 value one wire byte at a time, so
// the receive state machine can resume mid-field across Read calls.
type varintDecoder struct {
	value uint32
	index int // number of bytes consumed so far
}

func (d *varintDecoder) reset() { d.value = 0; d.index = 0 }

// step folds one more wire byte in. done reports the value is complete
// (MSB clear). overflow reports the field ran past the maximum 5 bytes
// without terminating, which is a protocol violation.
func (d *varintDecoder) step(b byte) (done, overflow bool) {
	if d.index >= maxVarint7Bytes {
		return false, true
	}
	d.value |= uint32(b&0x7F) << uint(7*d.index)
	d.index++
	if b&0x80 == 0 {
		return true, false
	}
	return false, false
}
