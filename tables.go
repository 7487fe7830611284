package zipcrack

import "sync"

// Package-wide precomputed tables. Built once, lazily, on first use and
// shared read-only across every goroutine the Driver spawns; there is no
// mutation after construction, so no further locking is needed once the
// sync.Once has fired.
var (
	tablesOnce sync.Once

	sharedCrc32Tab     *crc32Tab
	sharedMultTab      *multTab
	sharedKeystreamTab *keystreamTab
)

func ensureTables() {
	tablesOnce.Do(func() {
		sharedCrc32Tab = newCrc32Tab()
		sharedMultTab = newMultTab()
		sharedKeystreamTab = newKeystreamTab()
	})
}

func init() {
	ensureTables()
}
