// Command quorumd runs a single quorum cluster member: it holds one
// Node, talks to its configured peers over HTTP, and serves that same
// protocol (plus a small admin surface) for the rest of the cluster to
// reach it.
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
