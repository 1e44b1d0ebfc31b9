// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/MaJerle/lwpkt"
)

// SerialConfig names the physical link: port device, baud rate, and the
// read-side poll tick used to keep the pump responsive to ctx cancellation
// even while the port driver blocks.
type SerialConfig struct {
	Port     string
	BaudRate int
	PollTick time.Duration
}

func (c SerialConfig) withDefaults() SerialConfig {
	if c.BaudRate == 0 {
		c.BaudRate = 115200
	}
	if c.PollTick == 0 {
		c.PollTick = 20 * time.Millisecond
	}
	return c
}

// RunSerial opens a UART/RS-485/USB-CDC serial port and pumps bytes
// between it and the given ring buffers until ctx is cancelled or the
// port returns an unrecoverable error. rx receives bytes read from the
// wire; tx is drained onto the wire as fast as it fills.
func RunSerial(ctx context.Context, cfg SerialConfig, rx, tx *lwpkt.Ring) error {
	cfg = cfg.withDefaults()
	mode := &serial.Mode{BaudRate: cfg.BaudRate}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return fmt.Errorf("transport: open serial port %s: %w", cfg.Port, err)
	}
	defer port.Close()

	if err := port.SetReadTimeout(cfg.PollTick); err != nil {
		return fmt.Errorf("transport: set read timeout: %w", err)
	}

	errCh := make(chan error, 2)
	go readSerialLoop(ctx, port, rx, errCh)
	go writeSerialLoop(ctx, port, tx, cfg.PollTick, errCh)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func readSerialLoop(ctx context.Context, port serial.Port, rx *lwpkt.Ring, errCh chan<- error) {
	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := port.Read(buf)
		if err != nil {
			errCh <- fmt.Errorf("transport: serial read: %w", err)
			return
		}
		if n == 0 {
			continue // read timeout elapsed with no data; poll again
		}
		off := 0
		for off < n {
			written := rx.Write(buf[off:n])
			if written == 0 {
				time.Sleep(time.Millisecond) // RX ring momentarily full
				continue
			}
			off += written
		}
	}
}

func writeSerialLoop(ctx context.Context, port serial.Port, tx *lwpkt.Ring, tick time.Duration, errCh chan<- error) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	var scratch [256]byte
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		n := 0
		for n < len(scratch) {
			b, ok := tx.ReadByte()
			if !ok {
				break
			}
			scratch[n] = b
			n++
		}
		if n == 0 {
			continue
		}
		if _, err := port.Write(scratch[:n]); err != nil {
			errCh <- fmt.Errorf("transport: serial write: %w", err)
			return
		}
	}
}
