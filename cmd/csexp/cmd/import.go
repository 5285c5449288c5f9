package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/ethanxxxl/ProgrammableTanks2-sub000/pkg/csexp"
	"github.com/ethanxxxl/ProgrammableTanks2-sub000/pkg/sexp/importer"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Convert free-form S-expressions to canonical form",
	Long: `Parse a free-form S-expression file with a general-purpose reader
and print each top-level expression in canonical form.

Examples:
  csexp import legacy.sexp
  csexp import --storage linear legacy.sexp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	input, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	exprs, err := importer.ImportString(input)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if verbose {
		log.Printf("imported %d expressions", len(exprs))
	}

	for _, e := range exprs {
		doc, err := csexp.Convert(csexp.NewTree(e), storage())
		if err != nil {
			return err
		}
		if _, err := doc.WriteTo(os.Stdout); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}
