package convert

import (
	"github.com/wippyai/wasm-array/errors"
	"github.com/wippyai/wasm-array/resource"
)

// ResourceFull takes each handle's value out of table. The caller owns the
// value afterwards and the handle is dead.
func ResourceFull(table *resource.Table) Full[resource.Handle, any] {
	return func(h resource.Handle) any {
		v, err := table.Take(h)
		if err != nil {
			errors.Fatal(errors.New(errors.PhaseConvert, errors.KindNotFound).
				Value(uint32(h)).
				Cause(err).
				Detail("take resource %d", h).
				Build())
		}
		return v
	}
}

// ResourceNone borrows each handle. The table keeps the value; every lease
// must be returned before the handle can be taken or dropped.
func ResourceNone(table *resource.Table) None[resource.Handle, *resource.Lease] {
	return func(h resource.Handle) *resource.Lease {
		l, err := table.Borrow(h)
		if err != nil {
			errors.Fatal(errors.New(errors.PhaseConvert, errors.KindNotFound).
				Value(uint32(h)).
				Cause(err).
				Detail("borrow resource %d", h).
				Build())
		}
		return l
	}
}

// LowerResource inserts host values into table. The guard drops the entry,
// so the handle is only valid while the staging storage lives.
//
// An entry that was taken in the meantime belongs to someone else and is left
// alone, even if its handle has been reused. Releasing the guard while a lease
// on the entry is still out is fatal.
func LowerResource(table *resource.Table, typeID uint32) Lowerer[any, resource.Handle] {
	return func(v any) (resource.Handle, Guard) {
		h, stamp := table.InsertStamped(typeID, v)
		if h == 0 {
			errors.Fatal(errors.New(errors.PhaseConvert, errors.KindInvalidInput).
				Detail("resource table is closed").
				Build())
		}
		return h, GuardFunc(func() {
			if err := table.DropStamped(h, stamp); err == resource.ErrOutstandingBorrow {
				errors.Fatal(errors.New(errors.PhaseConvert, errors.KindBorrowConflict).
					Value(uint32(h)).
					Cause(err).
					Detail("drop staged resource %d", h).
					Build())
			}
		})
	}
}
