// Package resource provides a handle table for host values referenced from
// array elements.
//
// Resource arrays store 32-bit handles. The table maps each handle to a Go
// value and tracks the two ways an element can be consumed:
//
//	own    - Take removes the entry; the caller now owns the value
//	borrow - Borrow returns a Lease; the entry stays until the lease is returned
//	drop   - Drop removes the entry and calls Dropper.Drop on the value
//
// An entry with outstanding leases cannot be taken or dropped.
//
// Handles are recycled. Code that may outlive an entry keeps the Stamp from
// InsertStamped and drops with DropStamped, which refuses to touch a later
// entry at the same handle.
//
//	table := resource.NewTable()
//	h := table.Insert(FileTypeID, f)
//
//	lease, err := table.Borrow(h)
//	use(lease.Value())
//	lease.Return()
//
//	v, err := table.Take(h)
//
// # Observers
//
// Subscribe registers an Observer for lifecycle events. Observers are
// called outside the table lock and may call back into the table.
//
// Close destroys every remaining value, including borrowed ones.
package resource
