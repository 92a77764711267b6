// Package database stores evaluation history in SQLite.
//
// The HistoryDB is an audit log for the command line tool: every saved
// evaluation is kept with its timestamp so score changes of a URL can be
// reviewed later. It is never consulted when evaluating; the in-memory
// result cache serves that purpose.
//
// The driver is modernc.org/sqlite, a CGO-free implementation, and the
// database runs in WAL mode with a single writer connection.
package database
