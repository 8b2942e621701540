// Package store provides SQLite-backed durable storage for quiz attempts
// and spaced-repetition cards.
//
// The store holds two tables:
//   - attempts: an append-only log of graded quiz attempts
//   - cards: one SM-2 scheduling record per "<quizID>::<itemID>" key
//
// # Ordering
//
// Attempt listings are newest first: ORDER BY ts DESC, id DESC. The id
// tiebreak keeps equal-timestamp attempts in reverse insertion order.
//
// Due listings select due_ts <= asOf and, by default, return the least
// overdue card first: ORDER BY due_ts DESC, key DESC. MostOverdueFirst
// reverses this.
//
// # Iteration
//
// Attempts and DueCards return lazy iter.Seq2 sequences. Each range
// re-runs the query and holds the store's single connection until the
// loop ends, so the loop body must not call back into the Store.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Both github.com/mattn/go-sqlite3 (DriverCGO) and modernc.org/sqlite
// (DriverPureGo) are registered; they share one schema.
package store
