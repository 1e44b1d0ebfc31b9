// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package crc implements the two streaming CRC accumulators the wire
// format can select: CRC-8 (Dallas/1-Wire family, reversed polynomial
// 0x8C) and CRC-32 (ISO-HDLC/CRC-32, reversed polynomial 0xEDB88320,
// all-ones init and final XOR). Both process input bit-reversed (LSB
// first) and fold one byte at a time so a frame's CRC can be accumulated
// across many independent, partial reads of its header and payload.
package crc
