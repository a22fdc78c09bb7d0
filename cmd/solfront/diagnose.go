package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"solfront/internal/diagfmt"
	"solfront/internal/session"
	"solfront/internal/source"
)

var diagnoseFormat string

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <file>...",
	Short: "Analyze source units and report diagnostics only",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		if diagnoseFormat != "pretty" && diagnoseFormat != "json" {
			return fmt.Errorf("unknown format %q", diagnoseFormat)
		}

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
				res.ctx = ctx
				_, res.ok = analyzeOne(ctx, res.src, path)
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
			file := source.NewFile(res.name, res.src)
			switch diagnoseFormat {
			case "json":
				if err := diagfmt.JSON(cmd.OutOrStdout(), res.ctx.Bag(), file); err != nil {
					return err
				}
			default:
				diagfmt.Pretty(cmd.OutOrStdout(), res.ctx.Bag(), file, diagfmt.PrettyOpts{
					Color:     opts.useColor,
					ShowNotes: true,
				})
			}
			if res.ctx.Bag().HasErrors() {
				failed = true
			}
		}
		if failed {
			return fmt.Errorf("diagnostics reported")
		}
		return nil
	},
}

func init() {
	diagnoseCmd.Flags().StringVar(&diagnoseFormat, "format", "pretty", "diagnostics output format (pretty|json)")
}
