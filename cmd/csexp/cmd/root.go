package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ethanxxxl/ProgrammableTanks2-sub000/pkg/csexp"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose     bool
	storageName string
	maxDepth    int
)

var rootCmd = &cobra.Command{
	Use:   "csexp",
	Short: "Canonical S-expression reader and printer",
	Long: `A tool for reading, validating and printing canonical S-expressions,
the message format exchanged between tank clients and the game server.

Examples:
  csexp read msg.sexp                        # Print the canonical form
  csexp read --lines --storage linear log.txt
  csexp check msg.sexp                       # Validate and point at errors
  csexp query pos state.sexp                 # Print every (POS ...) node
  csexp import legacy.sexp                   # Convert a free-form file`,
	Version:      "0.9.0",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := csexp.ParseStorage(storageName); !ok {
			return fmt.Errorf("unknown storage %q (want tree or linear)", storageName)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	log.SetPrefix("csexp: ")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&storageName, "storage", "s", "tree",
		"storage strategy: tree or linear")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", csexp.DefaultMaxDepth,
		"maximum list nesting depth")
}

func storage() csexp.Storage {
	s, _ := csexp.ParseStorage(storageName)
	return s
}

func readOptions() []csexp.Option {
	return []csexp.Option{csexp.WithMaxDepth(maxDepth)}
}

// readInput returns the contents of the named file, or of stdin when the
// name is empty or "-".
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	name := "-"
	if len(args) > 0 {
		name = args[0]
	}
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", name, fmt.Errorf("failed to read input: %w", err)
	}
	if verbose {
		log.Printf("read %d bytes from %s", len(data), name)
	}
	return string(data), name, nil
}
