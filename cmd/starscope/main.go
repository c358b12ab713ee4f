// main is the entry point for the starscope CLI.
package main

import (
	"fmt"
	"os"

	"github.com/starscope/starscope/cmd"
	"github.com/starscope/starscope/internal/iocache"
)

func main() {
	// Wire the global store manager into the command layer and make
	// sure open handles are released however the command ends.
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
