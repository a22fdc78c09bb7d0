package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"solfront/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "solfront",
	Short: "Solidity-subset frontend and analyzer",
	Long:          `solfront parses a Solidity subset, runs the semantic analysis pipeline and emits annotated AST documents`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(diagnoseCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Bool("compact", false, "emit single-line JSON documents")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "solfront:", err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
