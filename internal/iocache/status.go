package iocache

import (
	"fmt"

	"github.com/starscope/starscope/schema"
)

// PrintCacheStatus prints snapshot cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	if status.Backend == schema.BackendNone {
		return
	}
	fmt.Printf("Total Entries: %d\n", status.Entries)
	if status.Entries > 0 {
		fmt.Printf("Newest Entry: %s\n", status.NewestItem.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Entry: %s\n", status.OldestItem.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Table Size: %d bytes\n", status.SizeBytes)
}

// PrintRunsStatus prints run store status information.
func PrintRunsStatus(status schema.RunsStatus) {
	fmt.Printf("Runs Backend: %s\n", status.Backend)
	if status.Backend == schema.BackendNone {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.Runs)
	fmt.Printf("Total Series Points: %d\n", status.Points)
	if status.Runs > 0 {
		fmt.Printf("Last Run: %s\n", status.LastRun.Format("2006-01-02 15:04:05"))
	}
}
