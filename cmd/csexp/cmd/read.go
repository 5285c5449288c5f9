package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ethanxxxl/ProgrammableTanks2-sub000/pkg/csexp"
	"github.com/spf13/cobra"
)

var (
	perLine bool
	wrap    bool
)

var readCmd = &cobra.Command{
	Use:   "read [file]",
	Short: "Read S-expressions and print their canonical form",
	Long: `Read an S-expression from a file (or stdin) and print it in canonical
form. With --lines every non-blank line is read as its own message.

Examples:
  csexp read msg.sexp
  echo '(move 10 20)' | csexp read
  csexp read --lines --wrap log.txt        # Collect all messages into one list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().BoolVarP(&perLine, "lines", "l", false,
		"read one message per line")
	readCmd.Flags().BoolVarP(&wrap, "wrap", "w", false,
		"with --lines, collect all messages into a single list")
}

func runRead(cmd *cobra.Command, args []string) error {
	input, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	if !perLine {
		doc, err := csexp.Read(input, storage(), readOptions()...)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return printDocument(doc)
	}

	var all csexp.Document
	if wrap {
		if all, err = csexp.Read("()", storage()); err != nil {
			return err
		}
	}

	count := 0
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), len(input)+1)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		doc, err := csexp.Read(line, storage(), readOptions()...)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		count++
		if all != nil {
			if err := csexp.AppendDocument(all, doc); err != nil {
				return fmt.Errorf("%s:%d: %w", name, lineNo, err)
			}
			continue
		}
		if err := printDocument(doc); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan input: %w", err)
	}

	if verbose {
		log.Printf("read %d messages using %s storage", count, storage())
	}
	if all != nil {
		return printDocument(all)
	}
	return nil
}

func printDocument(doc csexp.Document) error {
	if verbose {
		if n, err := doc.Len(); err == nil {
			log.Printf("%s document, %d elements", doc.Storage(), n)
		}
	}
	if _, err := doc.WriteTo(os.Stdout); err != nil {
		return err
	}
	fmt.Println()
	return nil
}
