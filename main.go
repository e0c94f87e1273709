//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"fmt"
	"os"

	"diskread/src/ui"
)

func main() {
	if err := ui.RunDiskRead(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
