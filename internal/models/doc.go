// Package models defines the core domain records for splitkip.
//
// # Records
//
//   - Split: one session of dividing a total amount among named participants
//   - UserShare: one participant's share, running balance and purchases
//   - Purchase: a single recorded spend attributed to one participant
//   - Calculation: a standalone divide/percentage/subtract calculation
//
// Settlements (proposed transfers between participants) are derived on
// demand by the engine package and are intentionally absent here: they are
// never persisted, only recomputed from the current balance snapshot.
//
// # Design Principles
//
//  1. **Explicit state**: a Split is a plain value owned by exactly one
//     session controller; no package-level mutable state anywhere.
//  2. **Strict boundary**: persisted rows decode into these typed records at
//     the storage layer; loosely-typed data never crosses into the engine.
//  3. **Stable identifiers**: UUIDs assigned by the storage layer, never
//     derived from timestamps.
//
// Monetary values are plain float64 amounts in Lao Kip. Exact decimal
// accounting is out of scope; the engine guards comparisons with a fixed
// epsilon instead.
package models
