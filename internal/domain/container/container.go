// Package container is a minimal license-plate-number (LPN) movement record,
// named in spec §C6 as a repository contract but explicitly excluded from
// core invariants ("Ancillary aggregates with simple CRUD lifecycle ... unless
// they intersect with the ledger invariants"). Kept minimal: just enough to be
// referenced by a stock transfer (spec.md SPEC_FULL.md supplemented features).
package container

import "time"

// Container is one license-plate-numbered unit of movement.
type Container struct {
	LPN         string
	CurrentSKU  *string
	Quantity    int64
	Location    string
	LastMovedAt time.Time
}
