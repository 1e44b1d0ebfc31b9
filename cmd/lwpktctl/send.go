// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/MaJerle/lwpkt"
	"github.com/MaJerle/lwpkt/internal/transport"
)

var (
	flagTo   uint32
	flagCmd  uint8
	flagData string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Encode and transmit one frame over a serial port",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		rx := lwpkt.NewRing(64) // send never reads; RunSerial still pumps inbound bytes into it
		tx := lwpkt.NewRing(4096)

		p := lwpkt.New(lwpkt.NewConfig(), tx, rx)
		p.SetOwnAddress(flagOwn)
		p.SetEventSink(NewLogSink(logger))

		if res := p.Write(flagTo, 0, flagCmd, []byte(flagData)); res != lwpkt.OK {
			return fmt.Errorf("encode frame: %s", res)
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- transport.RunSerial(ctx, transport.SerialConfig{Port: flagPort, BaudRate: flagBaudRate}, rx, tx)
		}()

		drainTimeout := time.After(2 * time.Second)
		for tx.Full() > 0 {
			select {
			case err := <-errCh:
				return err
			case <-drainTimeout:
				return fmt.Errorf("send: timed out draining tx ring")
			case <-time.After(10 * time.Millisecond):
			}
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().Uint32Var(&flagOwn, "own", 0, "this node's own address")
	sendCmd.Flags().Uint32Var(&flagTo, "to", 0, "destination address")
	sendCmd.Flags().Uint8Var(&flagCmd, "cmd", 0, "command byte")
	sendCmd.Flags().StringVar(&flagData, "data", "", "payload")
	rootCmd.AddCommand(sendCmd)
}
