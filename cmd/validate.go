package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/postpipe/core/blocks"
	"github.com/gaurav-prasanna/postpipe/core/render"
)

// ErrWarnings is returned by validate when the document would render with
// degraded blocks.
var ErrWarnings = errors.New("document has render warnings")

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a JSON block document for blocks that would not render",
	Long: `Validate decodes a local rich-text block document, renders it without
writing any output, and prints every warning: unknown block types, malformed
blocks, clamped heading levels, dropped nested lists and unsafe links.

Exits non-zero when any warning is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	doc, err := blocks.DecodeString(string(data))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	rendered := newBlockRenderer(localBase()).RenderDocument(doc)
	warnings := render.Warnings(rendered)

	out := cmd.OutOrStdout()
	for _, r := range rendered {
		for _, w := range r.Warnings {
			fmt.Fprintf(out, "✗ %s\n", w)
			if text := preview(doc[r.Index]); text != "" {
				fmt.Fprintf(out, "    %q\n", text)
			}
		}
	}
	if len(warnings) > 0 {
		return fmt.Errorf("%w: %d of %d blocks", ErrWarnings, len(warnings), len(doc))
	}
	fmt.Fprintf(out, "✓ %d blocks OK\n", len(doc))
	return nil
}

const previewLen = 40

// preview returns the start of a block's text for locating it in the source.
func preview(b blocks.Block) string {
	text := []rune(blocks.PlainText(blocks.SpansOf(b)))
	if len(text) > previewLen {
		return string(text[:previewLen]) + "…"
	}
	return string(text)
}
