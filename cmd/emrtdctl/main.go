// Command emrtdctl reads, decodes, and simulates ICAO Doc 9303 eMRTD chips:
// MRZ parsing, APDU encode/decode, a PC/SC reader walk over BAC and secure
// messaging, and an in-process chip simulator for exercising the stack
// without a physical document.
package main

import (
	"fmt"
	"os"

	"github.com/andrei-cloud/go-emrtd/cmd/emrtdctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
