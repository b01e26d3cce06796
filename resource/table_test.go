package resource

import (
	"errors"
	"sync"
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

type dropCounter struct {
	n int
}

func (d *dropCounter) Drop() { d.n++ }

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	h := table.Insert(1, "test")
	if h == 0 {
		t.Fatal("expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok || val != "test" {
		t.Fatalf("Get = %v, %v", val, ok)
	}
	if _, ok := table.GetTyped(h, 1); !ok {
		t.Fatal("GetTyped with correct type failed")
	}
	if _, ok := table.GetTyped(h, 2); ok {
		t.Fatal("GetTyped with wrong type should fail")
	}

	val, err := table.Take(h)
	if err != nil || val != "test" {
		t.Fatalf("Take = %v, %v", val, err)
	}
	if _, ok := table.Get(h); ok {
		t.Fatal("Get after Take should fail")
	}
	if _, err := table.Take(h); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("second Take err = %v", err)
	}
}

func TestTable_ZeroHandle(t *testing.T) {
	table := NewTable()
	if _, ok := table.Get(0); ok {
		t.Fatal("handle 0 must be invalid")
	}
	if err := table.Drop(0); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Drop(0) err = %v", err)
	}
	if _, err := table.Borrow(0); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Borrow(0) err = %v", err)
	}
}

func TestTable_HandleReuse(t *testing.T) {
	table := NewTable()
	h1 := table.Insert(1, "a")
	h2 := table.Insert(1, "b")
	if h1 == h2 {
		t.Fatal("handles should be distinct")
	}
	if err := table.Drop(h1); err != nil {
		t.Fatal(err)
	}
	h3 := table.Insert(1, "c")
	if h3 != h1 {
		t.Fatalf("expected freed handle %d to be reused, got %d", h1, h3)
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}
}

func TestTable_DropCallsDropper(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}
	h := table.Insert(1, d)

	if err := table.Drop(h); err != nil {
		t.Fatal(err)
	}
	if d.n != 1 {
		t.Fatalf("Drop count = %d, want 1", d.n)
	}
	if err := table.Drop(h); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("double drop err = %v", err)
	}
	if d.n != 1 {
		t.Fatal("double drop must not call Drop again")
	}
}

func TestTable_TakeSkipsDropper(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}
	h := table.Insert(1, d)

	if _, err := table.Take(h); err != nil {
		t.Fatal(err)
	}
	if d.n != 0 {
		t.Fatal("Take must hand ownership over without dropping")
	}
}

func TestTable_Borrow(t *testing.T) {
	table := NewTable()
	h := table.Insert(1, "v")

	l1, err := table.Borrow(h)
	if err != nil {
		t.Fatal(err)
	}
	l2, err := table.Borrow(h)
	if err != nil {
		t.Fatal(err)
	}
	if table.Borrows(h) != 2 {
		t.Fatalf("Borrows = %d, want 2", table.Borrows(h))
	}
	if l1.Value() != "v" || l1.Handle() != h {
		t.Fatalf("lease = %v/%d", l1.Value(), l1.Handle())
	}

	if _, err := table.Take(h); !errors.Is(err, ErrOutstandingBorrow) {
		t.Fatalf("Take while borrowed err = %v", err)
	}
	if err := table.Drop(h); !errors.Is(err, ErrOutstandingBorrow) {
		t.Fatalf("Drop while borrowed err = %v", err)
	}

	l1.Return()
	l1.Return()
	if table.Borrows(h) != 1 {
		t.Fatalf("Borrows after return = %d, want 1", table.Borrows(h))
	}
	l2.Release()
	if table.Borrows(h) != 0 {
		t.Fatalf("Borrows = %d, want 0", table.Borrows(h))
	}
	if err := table.Drop(h); err != nil {
		t.Fatal(err)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	h := table.Insert(7, "x")
	l, _ := table.Borrow(h)
	l.Return()
	_, _ = table.Take(h)
	h2 := table.Insert(7, "y")
	_ = table.Drop(h2)

	want := []EventType{EventCreated, EventBorrowed, EventBorrowReturned, EventTaken, EventCreated, EventDropped}
	if len(obs.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(obs.events), len(want))
	}
	for i, ev := range obs.events {
		if ev.Type != want[i] {
			t.Errorf("event %d = %v, want %v", i, ev.Type, want[i])
		}
		if ev.TypeID != 7 {
			t.Errorf("event %d TypeID = %d", i, ev.TypeID)
		}
	}

	table.Unsubscribe(obs)
	table.Insert(7, "z")
	if len(obs.events) != len(want) {
		t.Fatal("unsubscribed observer still notified")
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()
	d1, d2 := &dropCounter{}, &dropCounter{}
	table.Insert(1, d1)
	h := table.Insert(1, d2)
	if _, err := table.Borrow(h); err != nil {
		t.Fatal(err)
	}

	if err := table.Close(); err != nil {
		t.Fatal(err)
	}
	if d1.n != 1 || d2.n != 1 {
		t.Fatalf("drops = %d/%d, want 1/1", d1.n, d2.n)
	}
	if table.Insert(1, "late") != 0 {
		t.Fatal("Insert after Close should return 0")
	}
	if err := table.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestTable_Concurrent(t *testing.T) {
	table := NewTable()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h := table.Insert(uint32(i), j)
				l, err := table.Borrow(h)
				if err != nil {
					t.Error(err)
					return
				}
				l.Return()
				if _, err := table.Take(h); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	if table.Len() != 0 {
		t.Fatalf("Len = %d, want 0", table.Len())
	}
}

func TestTable_DropStamped(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}
	h, stamp := table.InsertStamped(1, d)
	if h == 0 || stamp == 0 {
		t.Fatalf("InsertStamped = %d, %d", h, stamp)
	}

	if err := table.DropStamped(h, stamp+1); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("wrong stamp err = %v", err)
	}
	if err := table.DropStamped(h, 0); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("zero stamp err = %v", err)
	}
	if err := table.DropStamped(h, stamp); err != nil {
		t.Fatal(err)
	}
	if d.n != 1 {
		t.Fatalf("Drop count = %d, want 1", d.n)
	}

	h2, stamp2 := table.InsertStamped(1, &dropCounter{})
	if h2 != h || stamp2 == stamp {
		t.Fatalf("reused handle %d got stamp %d, previous %d", h2, stamp2, stamp)
	}
	if err := table.DropStamped(h2, stamp); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("stale stamp err = %v", err)
	}
	if table.Len() != 1 {
		t.Fatal("stale stamp must not drop the new entry")
	}

	lease, err := table.Borrow(h2)
	if err != nil {
		t.Fatal(err)
	}
	if err := table.DropStamped(h2, stamp2); !errors.Is(err, ErrOutstandingBorrow) {
		t.Fatalf("borrowed err = %v", err)
	}
	lease.Return()
}
