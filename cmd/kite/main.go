// Package main provides the kite command: a syntax checker for Kite source
// files built on the Kite lexer, parser and diagnostic renderer.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errDiagnostics) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "kite: %v\n", err)
		os.Exit(2)
	}
}
