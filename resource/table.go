package resource

import (
	"errors"
	"sync"
)

var (
	ErrClosed            = errors.New("resource table closed")
	ErrOutstandingBorrow = errors.New("resource has outstanding borrows")
	ErrInvalidHandle     = errors.New("invalid resource handle")
)

// Handle names an entry in a Table. 0 never names anything.
type Handle uint32

// Stamp identifies one insertion. Handles are recycled after an entry is
// removed, stamps are not, so a (Handle, Stamp) pair names a single value
// for the lifetime of the table.
type Stamp uint64

// EventType is the kind of change an Event reports.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventTaken
	EventBorrowed
	EventBorrowReturned
)

// Event is delivered to observers after the table changes.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Type   EventType
}

type Observer interface {
	OnResourceEvent(Event)
}

// Dropper is called when the table destroys a value. Values that are taken
// out of the table are not dropped.
type Dropper interface {
	Drop()
}

type entry struct {
	value       any
	stamp       Stamp
	typeID      uint32
	borrowCount uint32
	valid       bool
}

// Table maps handles to host values and tracks borrows.
//
// An entry is owned by the table until it is taken (ownership moves to the
// caller) or dropped (the table destroys it). Borrows are independent claims
// that keep the entry from being taken or dropped until returned.
type Table struct {
	entries   []entry
	freeList  []Handle
	observers []Observer
	mu        sync.Mutex
	lastStamp Stamp
	closed    bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Insert stores a value and returns its handle, or 0 if the table is closed.
func (t *Table) Insert(typeID uint32, value any) Handle {
	h, _ := t.InsertStamped(typeID, value)
	return h
}

// InsertStamped is Insert that also returns the stamp of the new entry,
// for later use with DropStamped.
func (t *Table) InsertStamped(typeID uint32, value any) (Handle, Stamp) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, 0
	}

	t.lastStamp++
	stamp := t.lastStamp
	e := entry{typeID: typeID, value: value, stamp: stamp, valid: true}
	var h Handle
	if n := len(t.freeList); n > 0 {
		h = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = e
	} else {
		t.entries = append(t.entries, e)
		h = Handle(len(t.entries))
	}
	obs := t.observers
	t.mu.Unlock()

	notify(obs, Event{Type: EventCreated, Handle: h, TypeID: typeID, Value: value})
	return h, stamp
}

// Get retrieves a value by handle without affecting ownership.
func (t *Table) Get(h Handle) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.lookup(h)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// GetTyped retrieves a value only if it was inserted with typeID.
func (t *Table) GetTyped(h Handle, typeID uint32) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.lookup(h)
	if e == nil || e.typeID != typeID {
		return nil, false
	}
	return e.value, true
}

// Take removes the entry and hands its value to the caller, who now owns it.
// Fails while borrows are outstanding. Dropper is not called.
func (t *Table) Take(h Handle) (any, error) {
	value, typeID, err := t.remove(h, 0)
	if err != nil {
		return nil, err
	}
	t.emit(Event{Type: EventTaken, Handle: h, TypeID: typeID, Value: value})
	return value, nil
}

// Drop removes the entry and destroys its value.
func (t *Table) Drop(h Handle) error {
	return t.drop(h, 0)
}

// DropStamped is Drop restricted to the entry created with stamp. If h has
// since been taken or dropped, possibly with the handle reused by a later
// Insert, it returns ErrInvalidHandle and leaves the table alone.
func (t *Table) DropStamped(h Handle, stamp Stamp) error {
	if stamp == 0 {
		return ErrInvalidHandle
	}
	return t.drop(h, stamp)
}

func (t *Table) drop(h Handle, stamp Stamp) error {
	value, typeID, err := t.remove(h, stamp)
	if err != nil {
		return err
	}
	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	t.emit(Event{Type: EventDropped, Handle: h, TypeID: typeID, Value: value})
	return nil
}

// Borrow takes a new independent claim on the entry.
func (t *Table) Borrow(h Handle) (*Lease, error) {
	t.mu.Lock()
	e := t.lookup(h)
	if e == nil {
		t.mu.Unlock()
		return nil, ErrInvalidHandle
	}
	e.borrowCount++
	lease := &Lease{table: t, handle: h, value: e.value}
	typeID := e.typeID
	obs := t.observers
	t.mu.Unlock()

	notify(obs, Event{Type: EventBorrowed, Handle: h, TypeID: typeID, Value: lease.value})
	return lease, nil
}

// Borrows returns the number of outstanding borrows of h.
func (t *Table) Borrows(h Handle) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e := t.lookup(h); e != nil {
		return int(e.borrowCount)
	}
	return 0
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.entries {
		if e.valid {
			n++
		}
	}
	return n
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers[:len(t.observers):len(t.observers)], o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			next := make([]Observer, 0, len(t.observers)-1)
			next = append(next, t.observers[:i]...)
			t.observers = append(next, t.observers[i+1:]...)
			return
		}
	}
}

// Close destroys every remaining entry, borrowed or not, and rejects further inserts.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	entries := t.entries
	t.entries = nil
	t.freeList = nil
	t.mu.Unlock()

	for _, e := range entries {
		if !e.valid {
			continue
		}
		if d, ok := e.value.(Dropper); ok {
			d.Drop()
		}
	}
	return nil
}

// remove matches any entry at h when stamp is 0.
func (t *Table) remove(h Handle, stamp Stamp) (any, uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, 0, ErrClosed
	}
	e := t.lookup(h)
	if e == nil || (stamp != 0 && e.stamp != stamp) {
		return nil, 0, ErrInvalidHandle
	}
	if e.borrowCount > 0 {
		return nil, 0, ErrOutstandingBorrow
	}
	value, typeID := e.value, e.typeID
	*e = entry{}
	t.freeList = append(t.freeList, h)
	return value, typeID, nil
}

func (t *Table) returnBorrow(h Handle) {
	t.mu.Lock()
	e := t.lookup(h)
	if e == nil || e.borrowCount == 0 {
		t.mu.Unlock()
		return
	}
	e.borrowCount--
	ev := Event{Type: EventBorrowReturned, Handle: h, TypeID: e.typeID, Value: e.value}
	obs := t.observers
	t.mu.Unlock()

	notify(obs, ev)
}

// lookup must be called with mu held.
func (t *Table) lookup(h Handle) *entry {
	if h == 0 || int(h) > len(t.entries) {
		return nil
	}
	e := &t.entries[h-1]
	if !e.valid {
		return nil
	}
	return e
}

func (t *Table) emit(e Event) {
	t.mu.Lock()
	obs := t.observers
	t.mu.Unlock()
	notify(obs, e)
}

func notify(obs []Observer, e Event) {
	for _, o := range obs {
		o.OnResourceEvent(e)
	}
}

// Lease is a borrow of a table entry. The value stays in the table, and the
// entry cannot be taken or dropped until every lease on it is returned.
type Lease struct {
	table    *Table
	value    any
	handle   Handle
	returned bool
}

// Value returns the borrowed value.
func (l *Lease) Value() any {
	return l.value
}

// Handle returns the borrowed handle.
func (l *Lease) Handle() Handle {
	return l.handle
}

// Return gives the borrow back. Safe to call more than once.
func (l *Lease) Return() {
	if l.returned {
		return
	}
	l.returned = true
	l.table.returnBorrow(l.handle)
}

// Release is Return, so a Lease can serve as a staging guard.
func (l *Lease) Release() {
	l.Return()
}
