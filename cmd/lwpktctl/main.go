// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command lwpktctl drives a lwpkt link from the command line: listening
// for and decoding frames off a serial port, encoding and sending a
// single frame, or bridging a serial port to a WebSocket peer.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
