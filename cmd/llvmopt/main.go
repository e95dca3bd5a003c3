// Command llvmopt loads tablegen option schemas and exercises the
// table-driven parser against real argument vectors: validate a schema,
// list its options, or parse an invocation and dump the records.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
