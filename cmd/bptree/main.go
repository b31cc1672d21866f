// bptree drives a snapshot-backed B+ tree index from the command line.
// Usage: go run ./cmd/bptree demo --file tree.json --order 6
// Then:  go run ./cmd/bptree range 10 20 --file tree.json --order 6
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
