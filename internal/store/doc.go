// Package store provides SQLite-backed durable storage for the ledger
// snapshot.
//
// The entire ledger - four collections plus the audit trail - is one
// JSON document persisted under a well-known key in the snapshots
// table. Load and Save always move the full document; no component
// reads or writes a partial snapshot. This keeps the persisted state
// structurally valid even when an operation fails mid-flight: either
// the whole new document is written or the old one remains.
//
// Failure semantics follow the "no data is not an error" contract: an
// absent row or an unparseable document makes Load return (nil, nil)
// with a diagnostic log line. Callers treat a nil snapshot as empty.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
