// Package lwpkt implements a lightweight, framed packet protocol for
// point-to-point and multi-drop byte-stream links (UART/RS-485, USB CDC,
// or any reliable byte pipe).
//
// Semantics and design:
//   - Framing relies on explicit length, not byte stuffing: payload bytes
//     equal to the start/stop markers are permitted on the wire.
//   - The receive state machine is resumable: Read consumes whatever is
//     currently available in the RX RingBuffer and returns a Result;
//     partial frames survive across calls until the buffer yields more.
//   - The transmit encoder pre-computes the exact frame size, fails before
//     writing anything if the TX RingBuffer lacks capacity, and folds CRC
//     in the same pass that serializes the frame.
//   - Every wire-format section (addressing, flags, command, CRC) is
//     feature-gated per Config and, for Dynamic features, per Packet
//     instance; the encoder and decoder consult the same predicate so the
//     wire never disagrees with itself.
//
// Wire format: a frame is exactly
//
//	START(0xAA) || [FROM] || [TO] || [FLAGS] || [CMD] || LEN || DATA[0:LEN] || [CRC] || STOP(0x55)
//
// where bracketed sections are present only when their feature is enabled.
// Addresses are one raw byte in compact mode or a varint-7 in extended
// mode; flags and length are always varint-7; CRC is 1 byte (CRC-8) or 4
// bytes little-endian (CRC-32), covering every byte from the first header
// byte through the last payload byte. START and STOP are never covered by
// CRC and never escaped.
//
// Byte I/O is external: the core consumes and produces bytes through
// RingBuffer, a minimal, non-blocking, single-producer/single-consumer
// byte FIFO. Transport drivers (serial ports, sockets) live outside this
// package; see internal/transport for reference implementations.
package lwpkt
