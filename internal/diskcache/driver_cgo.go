//go:build cgo_sqlite

package diskcache

import (
	_ "github.com/mattn/go-sqlite3"
)

// driverName is the database/sql driver name to use for the disk cache.
// Built with -tags cgo_sqlite, this selects the CGO mattn/go-sqlite3
// driver instead of the pure-Go default.
const driverName = "sqlite3"

// driverType identifies which SQLite implementation is active.
const driverType = "cgo"
