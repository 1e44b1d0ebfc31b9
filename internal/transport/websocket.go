// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MaJerle/lwpkt"
)

// WebSocket connections preserve message boundaries, but lwpkt frames are
// already self-delimited by their own START/STOP bytes, so the bridge
// treats each binary message as an arbitrary chunk of the same byte
// stream: boundaries are not meaningful here, only throughput is.

// RunWebSocketClient dials url and bridges the connection with rx/tx until
// ctx is cancelled or the socket closes.
func RunWebSocketClient(ctx context.Context, url string, rx, tx *lwpkt.Ring) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("transport: dial websocket %s: %w", url, err)
	}
	defer conn.Close()
	return bridgeWebSocket(ctx, conn, rx, tx)
}

// wsUpgrader accepts a server-side bridge connection. Origin checking is
// left to the caller's reverse proxy; this CLI is meant for trusted links.
var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// RunWebSocketServer upgrades a single incoming HTTP connection to a
// WebSocket and bridges it with rx/tx. Each call serves one connection;
// concurrent calls are not serialized or rejected, so concurrent clients
// given the same rings share them.
func RunWebSocketServer(ctx context.Context, w http.ResponseWriter, r *http.Request, rx, tx *lwpkt.Ring) error {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("transport: upgrade websocket: %w", err)
	}
	defer conn.Close()
	return bridgeWebSocket(ctx, conn, rx, tx)
}

func bridgeWebSocket(ctx context.Context, conn *websocket.Conn, rx, tx *lwpkt.Ring) error {
	errCh := make(chan error, 2)
	go readWebSocketLoop(conn, rx, errCh)
	go writeWebSocketLoop(ctx, conn, tx, errCh)

	select {
	case <-ctx.Done():
		_ = conn.Close()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func readWebSocketLoop(conn *websocket.Conn, rx *lwpkt.Ring, errCh chan<- error) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			errCh <- fmt.Errorf("transport: websocket read: %w", err)
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		off := 0
		for off < len(data) {
			written := rx.Write(data[off:])
			if written == 0 {
				time.Sleep(time.Millisecond)
				continue
			}
			off += written
		}
	}
}

func writeWebSocketLoop(ctx context.Context, conn *websocket.Conn, tx *lwpkt.Ring, errCh chan<- error) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	var scratch [512]byte
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
		if err := conn.WriteMessage(websocket.BinaryMessage, scratch[:n]); err != nil {
			errCh <- fmt.Errorf("transport: websocket write: %w", err)
			return
		}
	}
}
