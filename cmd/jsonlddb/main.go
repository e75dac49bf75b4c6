// Command jsonlddb ingests JSON-LD documents into snapshots and queries them
// with frames.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
