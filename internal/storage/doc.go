// Package storage provides JSON-based persistence for rankings snapshots.
//
// The latest complete rankings are written to rankings.json in the data
// directory so that a restarted server can show them before its first fetch
// cycle finishes, and so the CLI can notify from them without scraping again.
// The default storage location is ~/.liga-rankings/.
package storage
