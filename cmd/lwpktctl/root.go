// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagPort     string
	flagBaudRate int
	flagOwn      uint32
	flagRedis    string
	logger       = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
)

var rootCmd = &cobra.Command{
	Use:     "lwpktctl",
	Short:   "Drive a lwpkt framed-packet link from the command line",
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPort, "port", "p", "", "serial port device")
	rootCmd.PersistentFlags().IntVarP(&flagBaudRate, "baud", "b", 115200, "baud rate")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
