package cmd

import (
	"errors"
	"fmt"

	"github.com/ethanxxxl/ProgrammableTanks2-sub000/pkg/csexp"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate an S-expression and show where it fails",
	Long: `Validate that a file (or stdin) holds exactly one well-formed
S-expression. On failure the offending line is printed with a caret under
the error position.

Examples:
  csexp check msg.sexp
  csexp check --max-depth 16 msg.sexp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	input, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	doc, err := csexp.Read(input, storage(), readOptions()...)
	if err != nil {
		var perr *csexp.Error
		if errors.As(err, &perr) && perr.Offset >= 0 {
			fmt.Println(perr.Caret())
		}
		return fmt.Errorf("%s: %w", name, err)
	}

	fmt.Printf("%s: ok", name)
	if n, err := doc.Len(); err == nil {
		fmt.Printf(" (list of %d)", n)
	}
	fmt.Println()
	return nil
}
