// Package ledger defines the record types and the snapshot document for
// the AgriSync supply-chain ledger.
//
// The ledger models goods moving farmer → distributor → retailer:
//   - Batch: a farmer's harvested lot with a depletable quantity
//   - InventoryItem: a distributor's holding, derived from a batch transfer
//   - StockItem: a retailer's holding, derived from an inventory transfer
//   - Order: an immutable record of one completed transfer between tiers
//   - AuditEntry: one append-only log record of a mutation, capped at 100
//
// All collections plus the audit log live in a single Snapshot document.
// JSON field names of the snapshot are a compatibility contract with the
// persisted data format and must not change.
//
// Quantities and prices use shopspring/decimal. Money values are rounded
// to 2 decimal places via RoundMoney.
package ledger
