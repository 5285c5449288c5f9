package cmd

import (
	"fmt"
	"log"

	"github.com/ethanxxxl/ProgrammableTanks2-sub000/pkg/csexp"
	"github.com/ethanxxxl/ProgrammableTanks2-sub000/pkg/sexp"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <name> [file]",
	Short: "Print every list whose head is the given symbol",
	Long: `Search a message for nested lists whose first element is the given
symbol (matched case-insensitively) and print each in canonical form.
The message is read with the --storage strategy; a linear document is
converted to a tree for the search.

Examples:
  csexp query pos state.sexp
  echo '(state (pos 1 2) (hp 3))' | csexp query hp`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	key := args[0]
	input, name, err := readInput(cmd, args[1:])
	if err != nil {
		return err
	}

	doc, err := csexp.Read(input, storage(), readOptions()...)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if doc, err = csexp.Convert(doc, csexp.StorageTree); err != nil {
		return err
	}

	matches := sexp.FindDeep(doc.(*csexp.Tree).Root(), key)
	if verbose {
		log.Printf("found %d %s nodes", len(matches), key)
	}
	for _, m := range matches {
		text, err := csexp.Serialize(m)
		if err != nil {
			return err
		}
		fmt.Println(text)
	}
	return nil
}
