// Package engine implements the ledger operations: typed repositories
// over the snapshot collections, the cross-tier transfer engine, and
// export/import of the persisted document.
//
// Every mutating operation runs as one critical section: load the full
// snapshot, mutate it in memory, append exactly one audit entry, save
// the full snapshot. A mutex serializes these sections so concurrent
// callers cannot interleave partial updates (the read-modify-write
// pattern is not atomic on its own). Failed operations return before
// the audit/save step, so they leave no trace in the store.
//
// Transfers are the only multi-entity mutations: they decrement the
// source record's quantity, flip its status, append a derived
// destination record with a fixed markup, and log a Completed order -
// all within the same critical section and the same save.
package engine
