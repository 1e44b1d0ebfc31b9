package lwpkt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// drain reads every byte currently queued in r, returning them in order.
func drain(r *Ring) []byte {
	var out []byte
	for {
		b, ok := r.ReadByte()
		if !ok {
			return out
		}
		out = append(out, b)
	}
}

func feed(r *Ring, bytes []byte) {
	for _, b := range bytes {
		if r.Write([]byte{b}) != 1 {
			panic("rx ring full in test")
		}
	}
}

// Scenario 1 (spec.md §8): CRC-8, compact addresses, command on, flags off.
func TestScenario1BasicRoundTrip(t *testing.T) {
	cfg := NewConfig(WithFlags(Disabled))
	tx := NewRing(128)
	rx := NewRing(128)
	p := New(cfg, tx, rx)
	p.SetOwnAddress(0x12)

	data := []byte("Hello World\r\n")
	require.Equal(t, OK, p.Write(0x11, 0, 0x85, data))

	wire := drain(tx)
	require.Len(t, wire, 1+1+1+1+1+len(data)+1+1) // start+from+to+cmd+len+data+crc8+stop
	require.Equal(t, byte(0xAA), wire[0])
	require.Equal(t, byte(0x12), wire[1])
	require.Equal(t, byte(0x11), wire[2])
	require.Equal(t, byte(0x85), wire[3])
	require.Equal(t, byte(0x0D), wire[4])
	require.Equal(t, data, wire[5:5+len(data)])
	require.Equal(t, byte(0x55), wire[len(wire)-1])

	feed(rx, wire)
	require.Equal(t, Valid, p.Read())
	require.EqualValues(t, 0x12, p.From())
	require.EqualValues(t, 0x11, p.To())
	require.EqualValues(t, 0x85, p.Cmd())
	require.Equal(t, len(data), p.DataLen())
	require.Equal(t, data, p.Data())
}

// Scenario 2: same as scenario 1 but CRC-32 — CRC section is 4 bytes.
func TestScenario2CRC32(t *testing.T) {
	cfg := NewConfig(WithFlags(Disabled), WithCRC(Always, true))
	tx := NewRing(128)
	rx := NewRing(128)
	p := New(cfg, tx, rx)
	p.SetOwnAddress(0x12)

	data := []byte("Hello World\r\n")
	require.Equal(t, OK, p.Write(0x11, 0, 0x85, data))

	wire := drain(tx)
	require.Len(t, wire, 1+1+1+1+1+len(data)+4+1)

	feed(rx, wire)
	require.Equal(t, Valid, p.Read())
	require.Equal(t, data, p.Data())
}

// Scenario 3: extended addressing, own=0x12345678, to=0x87654321 — FROM
// and TO each occupy 5 varint-7 bytes.
func TestScenario3ExtendedAddressing(t *testing.T) {
	cfg := NewConfig(WithAddressing(Always, Always), WithFlags(Disabled), WithCmd(Disabled))
	tx := NewRing(128)
	rx := NewRing(128)
	p := New(cfg, tx, rx)
	p.SetOwnAddress(0x12345678)

	data := []byte("x")
	require.Equal(t, OK, p.Write(0x87654321, 0, 0, data))

	wire := drain(tx)
	// start(1) + from(5) + to(5) + len(1) + data(1) + crc8(1) + stop(1)
	require.Len(t, wire, 1+5+5+1+1+1+1)

	feed(rx, wire)
	require.Equal(t, Valid, p.Read())
	require.EqualValues(t, 0x12345678, p.From())
	require.EqualValues(t, 0x87654321, p.To())
}

// Scenario 4: broadcast.
func TestScenario4Broadcast(t *testing.T) {
	cfg := NewConfig(WithFlags(Disabled))
	tx := NewRing(128)
	rx := NewRing(128)
	p := New(cfg, tx, rx)
	p.SetOwnAddress(0x12)

	require.Equal(t, OK, p.Write(0xFF, 0, 0x01, nil))
	feed(rx, drain(tx))

	require.Equal(t, Valid, p.Read())
	require.True(t, p.IsBroadcast())
	require.False(t, p.IsForMe())
}

// Scenario 5: CRC corruption, then immediate recovery with a fresh valid
// frame (spec.md §8 invariant 5).
func TestScenario5CRCCorruptionThenRecovery(t *testing.T) {
	cfg := NewConfig(WithFlags(Disabled))
	tx := NewRing(256)
	rx := NewRing(256)
	p := New(cfg, tx, rx)
	p.SetOwnAddress(0x12)

	data := []byte("Hello World\r\n")
	require.Equal(t, OK, p.Write(0x11, 0, 0x85, data))
	wire := drain(tx)

	crcIdx := len(wire) - 2 // CRC-8 is one byte before STOP
	wire[crcIdx] ^= 0x01

	feed(rx, wire)
	require.Equal(t, CRCError, p.Read())

	require.Equal(t, OK, p.Write(0x11, 0, 0x85, data))
	feed(rx, drain(tx))
	require.Equal(t, Valid, p.Read())
	require.Equal(t, data, p.Data())
}

// Scenario 6: truncation collapses via the watchdog, then a fresh frame
// still decodes.
func TestScenario6TruncationAndTimeout(t *testing.T) {
	cfg := NewConfig(WithFlags(Disabled))
	tx := NewRing(256)
	rx := NewRing(256)
	p := New(cfg, tx, rx)
	p.SetOwnAddress(0x12)

	data := []byte("Hello World\r\n")
	require.Equal(t, OK, p.Write(0x11, 0, 0x85, data))
	wire := drain(tx)

	feed(rx, wire[:len(wire)-1]) // withhold the stop byte
	require.Equal(t, InProgress, p.Process(0))
	require.Equal(t, InProgress, p.Process(99))
	require.Equal(t, InProgress, p.Process(100)) // 100ms idle -> reset fires

	require.Equal(t, OK, p.Write(0x11, 0, 0x85, data))
	feed(rx, drain(tx))
	require.Equal(t, Valid, p.Process(200))
	require.Equal(t, data, p.Data())
	require.EqualValues(t, 1, p.Stats().Timeouts)
}

// spec.md §8 invariant 2: any strict prefix of a valid frame returns
// IN_PROGRESS or WAITING_FOR_DATA, never VALID.
func TestTruncationNeverValid(t *testing.T) {
	cfg := NewConfig()
	tx := NewRing(256)
	rx := NewRing(256)
	p := New(cfg, tx, rx)
	p.SetOwnAddress(0x12)

	require.Equal(t, OK, p.Write(0x11, 0x2A, 0x85, []byte("payload")))
	wire := drain(tx)

	for n := 0; n < len(wire); n++ {
		rx.Reset()
		p.Reset()
		feed(rx, wire[:n])
		res := p.Read()
		require.NotEqual(t, Valid, res, "prefix of length %d must not be VALID", n)
	}
}

// spec.md §8 invariant 4: feeding one byte at a time vs all at once must
// be observationally equivalent.
func TestChunkIndependence(t *testing.T) {
	cfg := NewConfig()
	tx := NewRing(256)
	rx1 := NewRing(256)
	rx2 := NewRing(256)
	p1 := New(cfg, tx, rx1)
	p1.SetOwnAddress(0x12)

	require.Equal(t, OK, p1.Write(0x11, 7, 0x85, []byte("chunked?")))
	wire := drain(tx)

	p2 := New(cfg, nil, rx2)
	p2.SetOwnAddress(0x12)

	feed(rx1, wire)
	require.Equal(t, Valid, p1.Read())

	for _, b := range wire {
		feed(rx2, []byte{b})
		res := p2.Read()
		if res != InProgress && res != WaitingForData {
			require.Equal(t, Valid, res)
		}
	}
	require.Equal(t, p1.From(), p2.From())
	require.Equal(t, p1.To(), p2.To())
	require.Equal(t, p1.Flags(), p2.Flags())
	require.Equal(t, p1.Cmd(), p2.Cmd())
	require.Equal(t, p1.Data(), p2.Data())
}

// spec.md §8 boundary cases.
func TestZeroLengthPayload(t *testing.T) {
	cfg := NewConfig()
	tx := NewRing(128)
	rx := NewRing(128)
	p := New(cfg, tx, rx)
	p.SetOwnAddress(0x12)

	require.Equal(t, OK, p.Write(0x11, 0, 0x01, nil))
	wire := drain(tx)
	feed(rx, wire)
	require.Equal(t, Valid, p.Read())
	require.Equal(t, 0, p.DataLen())
}

func TestMaxDataLenBoundary(t *testing.T) {
	cfg := NewConfig(WithMaxDataLen(8))
	tx := NewRing(256)
	rx := NewRing(256)
	p := New(cfg, tx, rx)
	p.SetOwnAddress(0x12)

	ok := make([]byte, 8)
	require.Equal(t, OK, p.Write(0x11, 0, 0x01, ok))
	feed(rx, drain(tx))
	require.Equal(t, Valid, p.Read())

	tooLong := make([]byte, 9)
	require.Equal(t, MemoryError, p.Write(0x11, 0, 0x01, tooLong))
}

// spec.md §8 invariant 7: if Write returns MemoryError, the TX ring
// buffer byte count is unchanged.
func TestWritePreflightLeavesRingUntouched(t *testing.T) {
	cfg := NewConfig()
	tx := NewRing(4) // far too small for any real frame
	rx := NewRing(4)
	p := New(cfg, tx, rx)
	p.SetOwnAddress(0x12)

	before := tx.Full()
	require.Equal(t, MemoryError, p.Write(0x11, 0, 0x01, []byte("too big for this ring")))
	require.Equal(t, before, tx.Full())
}

func TestStopByteImpostorInPayload(t *testing.T) {
	cfg := NewConfig(WithFlags(Disabled))
	tx := NewRing(128)
	rx := NewRing(128)
	p := New(cfg, tx, rx)
	p.SetOwnAddress(0x12)

	payload := []byte{0x55, 0x55, 0xAA, 0x55} // stop/start impostors inside DATA
	require.Equal(t, OK, p.Write(0x11, 0, 0x01, payload))
	feed(rx, drain(tx))
	require.Equal(t, Valid, p.Read())
	require.Equal(t, payload, p.Data())
}

func TestIsForMeAndIsBroadcast(t *testing.T) {
	cfg := NewConfig()
	tx := NewRing(128)
	rx := NewRing(128)
	p := New(cfg, tx, rx)
	p.SetOwnAddress(0x12)

	require.Equal(t, OK, p.Write(0x12, 0, 0, nil))
	feed(rx, drain(tx))
	require.Equal(t, Valid, p.Read())
	require.True(t, p.IsForMe())
	require.False(t, p.IsBroadcast())
}

func TestAccessorsSafeBeforeFirstPacket(t *testing.T) {
	cfg := NewConfig()
	p := New(cfg, NewRing(8), NewRing(8))
	require.EqualValues(t, 0, p.From())
	require.EqualValues(t, 0, p.To())
	require.EqualValues(t, 0, p.Flags())
	require.EqualValues(t, byte(0), p.Cmd())
	require.Equal(t, 0, p.DataLen())
	require.True(t, p.IsForMe())     // own address defaults to 0, matching the zero-value To
	require.False(t, p.IsBroadcast()) // broadcast sentinel defaults to 0xFF, not 0
}
