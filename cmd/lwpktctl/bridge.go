// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/MaJerle/lwpkt"
	"github.com/MaJerle/lwpkt/internal/transport"
)

var flagListen string

// bridgeCmd relays raw bytes between a WebSocket peer and a serial port
// through two independent Ring buffers — the lwpkt frame itself is never
// inspected, only carried, demonstrating that framing is transport-
// agnostic on either side of the bridge.
var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Bridge a serial port to a WebSocket peer",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// fromSerial carries bytes serial->websocket; fromWS carries the
		// reverse direction. Each Ring is single-producer/single-consumer,
		// so this pair exactly matches the SPSC contract on both links.
		fromSerial := lwpkt.NewRing(4096)
		fromWS := lwpkt.NewRing(4096)

		errCh := make(chan error, 2)
		go func() {
			errCh <- transport.RunSerial(ctx, transport.SerialConfig{Port: flagPort, BaudRate: flagBaudRate}, fromSerial, fromWS)
		}()

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if err := transport.RunWebSocketServer(ctx, w, r, fromWS, fromSerial); err != nil {
				logger.Warn("websocket bridge session ended", "err", err)
			}
		})
		srv := &http.Server{Addr: flagListen, Handler: mux}
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
			return nil
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	bridgeCmd.Flags().StringVar(&flagListen, "listen", ":8080", "address to serve the websocket bridge on")
	rootCmd.AddCommand(bridgeCmd)
}
