// Command htmlcore parses an HTML document and prints its tree, using the
// html5lib tree-construction test format.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arlojansen/htmlcore"
	"github.com/arlojansen/htmlcore/dom"
	"github.com/arlojansen/htmlcore/serialize"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		fragmentContext string
		strict          bool
		collectErrors   bool
	)

	cmd := &cobra.Command{
		Use:   "htmlcore [file]",
		Short: "Parse HTML and print its tree-construction test-format output",
		Long: `htmlcore parses an HTML file (or stdin, with "-" or no argument)
through the WHATWG HTML5 tokenizer and tree constructor and prints the
result in the html5lib tree-construction test format.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			var opts []htmlcore.Option
			if strict {
				opts = append(opts, htmlcore.WithStrictMode())
			}
			if collectErrors {
				opts = append(opts, htmlcore.WithCollectErrors())
			}

			if fragmentContext != "" {
				return runFragment(cmd, string(input), fragmentContext, strict, opts)
			}
			return runDocument(cmd, string(input), strict, opts)
		},
	}

	cmd.Flags().StringVar(&fragmentContext, "fragment-context", "", `parse as a fragment within the given context element (e.g. "tr")`)
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on the first parse error instead of recovering")
	cmd.Flags().BoolVar(&collectErrors, "collect-errors", false, "print recovered parse errors to stderr")
	cmd.Version = version

	return cmd
}

func runDocument(cmd *cobra.Command, input string, strict bool, opts []htmlcore.Option) error {
	doc, err := htmlcore.Parse(input, opts...)
	if err != nil && strict {
		return fmt.Errorf("parsing HTML: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), serialize.Document(doc))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "parse errors: %v\n", err)
	}
	return nil
}

func runFragment(cmd *cobra.Command, input, context string, strict bool, opts []htmlcore.Option) error {
	elements, err := htmlcore.ParseFragment(input, context, opts...)
	if err != nil && strict {
		return fmt.Errorf("parsing HTML fragment: %w", err)
	}

	nodes := make([]dom.Node, len(elements))
	for i, e := range elements {
		nodes[i] = e
	}
	fmt.Fprintln(cmd.OutOrStdout(), serialize.Nodes(nodes))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "parse errors: %v\n", err)
	}
	return nil
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}
