package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/wasm-array/memory"
)

func runCapture(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, options{}, &out)
	return out.String(), err
}

func TestRun_Values(t *testing.T) {
	out, err := runCapture(t, "--type", "u32", "--values", "1,2,3")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"u32[3]", "0\t1\t01000000", "2\t3\t03000000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_SignedAndFloat(t *testing.T) {
	out, err := runCapture(t, "-t", "s16", "--values", "-1, 7")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "0\t-1\tffff") || !strings.Contains(out, "1\t7\t0700") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = runCapture(t, "-t", "f64", "--values", "0.5")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "0\t0.5\t000000000000e03f") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRun_Strings(t *testing.T) {
	out, err := runCapture(t, "-t", "string", "--values", "alpha,beta")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "0\talpha\t") || !strings.Contains(out, "1\tbeta\t") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRun_SnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.snap")
	vals := strings.Repeat("5,", 199) + "5"

	if _, err := runCapture(t, "-t", "u16", "--values", vals, "--out", path, "--compress", "zstd"); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := runCapture(t, "--in", path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(out, "u16[200]") || !strings.Contains(out, "199\t5\t0500") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = runCapture(t, "--in", path, "-t", "s16")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "s16[200]") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := runCapture(t, "--in", path, "-t", "u32"); err == nil {
		t.Fatal("expected element size error")
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no input", []string{"-t", "u8"}, "--values or --in"},
		{"unknown type", []string{"-t", "u128", "--values", "1"}, "unknown type"},
		{"out of range", []string{"-t", "s8", "--values", "300"}, "value 0"},
		{"string snapshot", []string{"-t", "string", "--values", "x", "--out", "x.snap"}, "cannot be saved"},
		{"bad compression", []string{"--values", "1", "--out", "x.snap", "--compress", "brotli"}, "unknown compression"},
		{"missing file", []string{"--in", "does-not-exist.snap"}, "does-not-exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCapture(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	ctx := t.Context()
	s, err := newSession(ctx, memory.HeapConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer s.close(ctx)

	d, err := s.load(options{typ: "u8", values: "9,10"})
	if err != nil {
		t.Fatal(err)
	}
	defer d.ga.Release()

	out := renderTable(d)
	for _, want := range []string{"VALUE", "BYTES", "0a"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
