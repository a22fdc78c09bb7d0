package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"solfront/internal/diagfmt"
	"solfront/internal/doccache"
	"solfront/internal/session"
	"solfront/internal/source"
)

var parseUseCache bool

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Parse source units and emit Parsed-stage documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		var cache *doccache.Cache
		if parseUseCache {
			if cache, err = doccache.Open("solfront"); err != nil {
				return err
			}
		}
		return runFiles(cmd, args, opts, func(ctx *session.Context, src, name string) (string, bool) {
			key := doccache.Key(src, opts.compact)
			if doc, hit, _ := cache.Get(key, name); hit {
				return string(doc), true
			}
			out, ok := ctx.Parse(src, name)
			if ok {
				_ = cache.Put(key, name, []byte(out))
			}
			return out, ok
		})
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseUseCache, "cache", false, "reuse cached documents for unchanged sources")
}

// fileResult is the per-file outcome. Results are collected into a slice
// indexed by argument position so the output order is deterministic even
// though files are processed concurrently.
type fileResult struct {
	name string
	src  string
	out  string
	ok   bool
	ctx  *session.Context
	err  error
}

func runFiles(cmd *cobra.Command, args []string, opts options, fn func(*session.Context, string, string) (string, bool)) error {
	results := make([]fileResult, len(args))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range args {
		g.Go(func() error {
			res := &results[i]
			res.name = path
			data, err := os.ReadFile(path)
			if err != nil {
				res.err = err
				return nil
			}
			res.src = string(data)
			ctx := session.NewWithLimit(opts.maxDiagnostics)
			ctx.Compact = opts.compact
			res.ctx = ctx
			res.out, res.ok = fn(ctx, res.src, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := false
	for _, res := range results {
		if res.err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "solfront: %v\n", res.err)
			failed = true
			continue
		}
		renderDiagnostics(cmd, &res, opts)
		if !res.ok {
			failed = true
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.out)
	}
	if failed {
		return fmt.Errorf("some files failed")
	}
	return nil
}

func renderDiagnostics(cmd *cobra.Command, res *fileResult, opts options) {
	if res.ctx == nil || res.ctx.Bag().Len() == 0 {
		return
	}
	file := source.NewFile(res.name, res.src)
	diagfmt.Pretty(cmd.ErrOrStderr(), res.ctx.Bag(), file, diagfmt.PrettyOpts{
		Color:     opts.useColor,
		ShowNotes: true,
	})
}
