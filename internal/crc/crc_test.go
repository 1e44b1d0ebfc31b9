package crc

import "testing"

func TestCRC8KnownVector(t *testing.T) {
	var c CRC8
	c.Init()
	for _, b := range []byte("123456789") {
		c.Update(b)
	}
	// Dallas/Maxim CRC-8 (poly 0x31 normal / 0x8C reversed, init 0,
	// no xorout) check value for the ASCII string "123456789".
	const want = 0xA1
	if got := c.Finish(); got != want {
		t.Fatalf("CRC8(\"123456789\") = 0x%02X, want 0x%02X", got, want)
	}
}

func TestCRC32KnownVector(t *testing.T) {
	var c CRC32
	c.Init()
	for _, b := range []byte("123456789") {
		c.Update(b)
	}
	// CRC-32/ISO-HDLC check value for "123456789" is the textbook
	// 0xCBF43926, reproduced by zlib/gzip's crc32 and Go's hash/crc32.
	const want = 0xCBF43926
	if got := c.Finish(); got != want {
		t.Fatalf("CRC32(\"123456789\") = 0x%08X, want 0x%08X", got, want)
	}
}

func TestCRC8EmptyInputIsInitValue(t *testing.T) {
	var c CRC8
	c.Init()
	if got := c.Finish(); got != 0 {
		t.Fatalf("CRC8() over no bytes = 0x%02X, want 0", got)
	}
}

func TestCRC32EmptyInputIsInitXorFinal(t *testing.T) {
	var c CRC32
	c.Init()
	if got := c.Finish(); got != 0 {
		t.Fatalf("CRC32() over no bytes = 0x%08X, want 0", got)
	}
}

func TestSizes(t *testing.T) {
	var c8 CRC8
	var c32 CRC32
	if c8.Size() != 1 {
		t.Fatalf("CRC8.Size() = %d, want 1", c8.Size())
	}
	if c32.Size() != 4 {
		t.Fatalf("CRC32.Size() = %d, want 4", c32.Size())
	}
}
