// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/MaJerle/lwpkt"
	"github.com/MaJerle/lwpkt/internal/sink"
	"github.com/MaJerle/lwpkt/internal/transport"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Decode frames arriving on a serial port",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		rx := lwpkt.NewRing(4096)
		tx := lwpkt.NewRing(256) // RunSerial drains a TX ring even though listen never writes

		p := lwpkt.New(lwpkt.NewConfig(), tx, rx)
		p.SetOwnAddress(flagOwn)

		logSink := NewLogSink(logger)
		p.SetEventSink(logSink)

		if flagRedis != "" {
			rsink, err := sink.NewRedisSink(ctx, flagRedis, "lwpkt:packets", func(err error) {
				logger.Warn("redis publish failed", "err", err)
			})
			if err != nil {
				return err
			}
			defer rsink.Close()
			p.SetEventSink(lwpkt.EventSinkFunc(func(ev lwpkt.Event) {
				logSink.Emit(ev)
				rsink.Emit(ev)
			}))
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- transport.RunSerial(ctx, transport.SerialConfig{Port: flagPort, BaudRate: flagBaudRate}, rx, tx)
		}()

		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case err := <-errCh:
				return err
			case <-ticker.C:
				p.Process(time.Now().UnixMilli())
			}
		}
	},
}

func init() {
	listenCmd.Flags().Uint32Var(&flagOwn, "own", 0, "this node's own address")
	listenCmd.Flags().StringVar(&flagRedis, "redis", "", "redis addr to fan out PKT events to (optional)")
	rootCmd.AddCommand(listenCmd)
}
