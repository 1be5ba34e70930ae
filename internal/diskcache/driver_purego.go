//go:build !cgo_sqlite

package diskcache

import (
	_ "modernc.org/sqlite"
)

// driverName is the database/sql driver name to use for the disk cache.
// Default build uses the pure-Go modernc.org/sqlite driver.
const driverName = "sqlite"

// driverType identifies which SQLite implementation is active.
const driverType = "purego"
