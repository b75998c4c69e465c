// Command pcnsim runs payment-channel routing simulations, inspects
// listchannels snapshots and generates synthetic ones.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pcnsim:", err)
		os.Exit(1)
	}
}
