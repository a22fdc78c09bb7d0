package main

import (
	"github.com/spf13/cobra"

	"solfront/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Parse and analyze source units, emit AnalysisSuccessful documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		return runFiles(cmd, args, opts, analyzeOne)
	},
}

// analyzeOne runs the full round trip: parse to the interchange document,
// then feed that document back through the analysis pipeline.
func analyzeOne(ctx *session.Context, src, name string) (string, bool) {
	parsed, ok := ctx.Parse(src, name)
	if !ok {
		return "", false
	}
	return ctx.Analyze(parsed, name)
}
