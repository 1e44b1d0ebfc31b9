// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lwpkt

import "errors"

// Result is the outcome of a single Read, Write, or Process invocation.
type Result uint8

const (
	// OK reports that a transmit operation completed successfully.
	OK Result = iota
	// InProgress reports that Read consumed bytes but the frame is not
	// yet complete.
	InProgress
	// WaitingForData reports that Read is idle, awaiting a start byte.
	WaitingForData
	// Valid reports a complete, integrity-verified frame is available.
	Valid
	// CRCError reports a CRC mismatch; the frame was discarded and the
	// parser reset.
	CRCError
	// StopError reports a byte other than the stop byte where the stop
	// byte was expected; the frame was discarded and the parser reset.
	StopError
	// MemoryError reports that a payload would exceed the configured
	// capacity (receive) or that the TX RingBuffer lacks free space
	// (transmit); no partial frame is ever emitted in the transmit case.
	MemoryError
	// HardError reports an unreachable state or an invalid argument
	// (nil instance, nil ring buffer).
	HardError
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case InProgress:
		return "IN_PROGRESS"
	case WaitingForData:
		return "WAITING_FOR_DATA"
	case Valid:
		return "VALID"
	case CRCError:
		return "CRC_ERROR"
	case StopError:
		return "STOP_ERROR"
	case MemoryError:
		return "MEMORY_ERROR"
	case HardError:
		return "HARD_ERROR"
	default:
		return "UNKNOWN_RESULT"
	}
}

// Sentinel errors naming the failure behind an error Result. Read, Write
// and Process report outcomes only as a Result; no function in this
// package returns these values.
var (
	// ErrInvalidArgument names a nil Packet, nil RingBuffer, or other
	// invalid argument; corresponds to HardError.
	ErrInvalidArgument = errors.New("lwpkt: invalid argument")

	// ErrPayloadTooLong names a payload that exceeds the instance's
	// configured MaxDataLen; corresponds to MemoryError on transmit.
	ErrPayloadTooLong = errors.New("lwpkt: payload exceeds max data length")

	// ErrNoCapacity names a TX RingBuffer that lacks free space for the
	// frame that would be produced; corresponds to MemoryError on
	// transmit, in which case no bytes are written.
	ErrNoCapacity = errors.New("lwpkt: tx ring buffer has insufficient free space")

	// ErrCRCMismatch corresponds to CRCError.
	ErrCRCMismatch = errors.New("lwpkt: crc mismatch")

	// ErrUnexpectedStopByte corresponds to StopError.
	ErrUnexpectedStopByte = errors.New("lwpkt: expected stop byte")
)
