// Command wuppiefuzz is a grey-box REST API fuzzer: given an OpenAPI
// specification and a running target, it generates and mutates request
// chains, executes them against the target, and uses endpoint and (when
// configured) code coverage to decide which chains are worth keeping.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
