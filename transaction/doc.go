// Package transaction defines the ledger of portfolio movements and its JSONL
// persistence. The ledger is the source of truth: portfolio state (cash and
// open positions) is always reconstructed by replaying it in date order.
package transaction
