// arraydump builds a typed array in a fresh guest memory and prints it, or
// reads one back from a snapshot file.
//
//	arraydump --type u32 --values 1,2,3
//	arraydump --type f64 --values 0.5,1.5 --out data.snap --compress zstd
//	arraydump --in data.snap -i
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasm-array/errors"
	"github.com/wippyai/wasm-array/garray"
	"github.com/wippyai/wasm-array/memory"
)

type options struct {
	typ         string
	values      string
	in          string
	out         string
	compress    string
	maxPages    uint32
	interactive bool
	verbose     bool
	tty         bool
}

func main() {
	opts := options{tty: term.IsTerminal(int(os.Stdout.Fd()))}
	if err := run(os.Args[1:], opts, os.Stdout); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, opts options, stdout io.Writer) (err error) {
	flags := pflag.NewFlagSet("arraydump", pflag.ContinueOnError)
	flags.StringVarP(&opts.typ, "type", "t", "", "element type: "+strings.Join(kindNames(), ", "))
	flags.StringVar(&opts.values, "values", "", "comma-separated element values")
	flags.StringVar(&opts.in, "in", "", "read the array from a snapshot file")
	flags.StringVar(&opts.out, "out", "", "write the array to a snapshot file")
	flags.StringVar(&opts.compress, "compress", "lz4", "snapshot compression: none, lz4, zstd, group")
	flags.Uint32Var(&opts.maxPages, "max-pages", 0, "guest memory limit in 64 KiB pages (0 = 4 GiB)")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "browse the elements in a table viewer")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log guest allocator activity")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if opts.verbose {
		logger, lerr := zap.NewDevelopment()
		if lerr != nil {
			return lerr
		}
		defer logger.Sync()
		garray.SetLogger(logger)
		memory.SetLogger(logger)
	}

	defer func() {
		if r := recover(); r != nil {
			e, ok := errors.FromPanic(r)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()

	ctx := context.Background()
	s, err := newSession(ctx, memory.HeapConfig{MaxPages: opts.maxPages})
	if err != nil {
		return err
	}
	defer s.close(ctx)

	d, err := s.load(opts)
	if err != nil {
		return err
	}
	defer d.ga.Release()

	if opts.out != "" {
		if err := s.save(d, opts); err != nil {
			return err
		}
	}

	if opts.interactive {
		return runInteractive(d)
	}
	if opts.tty {
		fmt.Fprintln(stdout, renderTable(d))
	} else {
		renderPlain(stdout, d)
	}
	return nil
}
