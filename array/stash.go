package array

import (
	"sync"

	"github.com/wippyai/wasm-array/convert"
)

type guardList struct {
	guards []convert.Guard
}

var guardListPool = sync.Pool{
	New: func() any {
		return &guardList{guards: make([]convert.Guard, 0, 8)}
	},
}

const maxPooledGuardCapacity = 128

// release runs every guard even if some panic, then re-raises the first panic.
func (gl *guardList) release() {
	var fault any
	for i := len(gl.guards) - 1; i >= 0; i-- {
		if g := gl.guards[i]; g != nil {
			if r := releaseGuard(g); r != nil && fault == nil {
				fault = r
			}
		}
	}
	clear(gl.guards)
	gl.guards = gl.guards[:0]
	if cap(gl.guards) <= maxPooledGuardCapacity {
		guardListPool.Put(gl)
	}
	if fault != nil {
		panic(fault)
	}
}

func releaseGuard(g convert.Guard) (fault any) {
	defer func() { fault = recover() }()
	g.Release()
	return nil
}

// Stash is the staging storage of a built array: the lowered elements in
// order, each with the guard keeping its referent alive.
type Stash[T any] struct {
	values []T
	guards *guardList
}

func newStash[T any](n int) *Stash[T] {
	return &Stash[T]{
		values: make([]T, 0, n),
		guards: guardListPool.Get().(*guardList),
	}
}

func (s *Stash[T]) add(v T, g convert.Guard) {
	s.values = append(s.values, v)
	s.guards.guards = append(s.guards.guards, g)
}

// Len returns the number of staged elements.
func (s *Stash[T]) Len() int {
	return len(s.values)
}

// Values returns the staged elements. The slice must not be modified.
func (s *Stash[T]) Values() []T {
	return s.values
}

// Release releases every guard, last staged first. Safe to call more than once.
// A guard that panics does not stop the rest; the first panic is re-raised
// once all guards have run.
func (s *Stash[T]) Release() {
	if s == nil || s.guards == nil {
		return
	}
	gl := s.guards
	s.guards = nil
	gl.release()
}

// Released reports whether the guards have been released.
func (s *Stash[T]) Released() bool {
	return s == nil || s.guards == nil
}
