package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/wippyai/wasm-array/garray"
	"github.com/wippyai/wasm-array/memory"
	"github.com/wippyai/wasm-array/snapshot"
)

// session is one standalone guest memory and everything allocated in it.
type session struct {
	sa      *memory.Standalone
	arena   *garray.Arena
	cleanup []func()
}

// dump is a loaded array together with the rendering of its elements.
type dump struct {
	ga     *garray.Array
	kind   elemKind
	source string
	values []string
}

func newSession(ctx context.Context, cfg memory.HeapConfig) (*session, error) {
	sa, err := memory.NewStandalone(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &session{
		sa:    sa,
		arena: garray.NewArena(sa.Memory, sa.Heap, garray.Options{}),
	}, nil
}

func (s *session) onClose(fn func()) {
	s.cleanup = append(s.cleanup, fn)
}

func (s *session) close(ctx context.Context) {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
	s.cleanup = nil
	_ = s.sa.Close(ctx)
}

func (s *session) load(opts options) (*dump, error) {
	if opts.in != "" {
		return s.loadSnapshot(opts)
	}
	if opts.values == "" {
		return nil, fmt.Errorf("one of --values or --in is required")
	}

	typ := opts.typ
	if typ == "" {
		typ = "u32"
	}
	k, ok := kinds[typ]
	if !ok {
		return nil, fmt.Errorf("unknown type %q (want one of %s)", typ, strings.Join(kindNames(), ", "))
	}

	ga, err := k.build(s, strings.Split(opts.values, ","))
	if err != nil {
		return nil, err
	}
	return &dump{ga: ga, kind: k, source: "--values", values: k.format(s, ga)}, nil
}

func (s *session) loadSnapshot(opts options) (*dump, error) {
	f, err := os.Open(opts.in)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := snapshot.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.in, err)
	}

	typ := opts.typ
	if typ == "" {
		typ = unsignedBySize[img.ElementSize]
	}
	k, ok := kinds[typ]
	switch {
	case !ok:
		return nil, fmt.Errorf("no element type for %d-byte elements; pass --type", img.ElementSize)
	case !k.portable:
		return nil, fmt.Errorf("%s elements are guest pointers and cannot be restored", k.name)
	case k.size != img.ElementSize:
		return nil, fmt.Errorf("snapshot holds %d-byte elements, %s is %d bytes", img.ElementSize, k.name, k.size)
	}

	ga, err := img.Build(s.arena)
	if err != nil {
		return nil, err
	}
	return &dump{ga: ga, kind: k, source: opts.in, values: k.format(s, ga)}, nil
}

func (s *session) save(d *dump, opts options) error {
	if !d.kind.portable {
		return fmt.Errorf("%s elements are guest pointers and cannot be saved", d.kind.name)
	}
	comp, err := snapshot.ParseCompression(opts.compress)
	if err != nil {
		return err
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return err
	}
	if err := snapshot.Encode(f, d.ga, snapshot.Options{Compression: comp}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
