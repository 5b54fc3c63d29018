package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/snipcheck/internal/check"
	"github.com/pdiddy/snipcheck/internal/classify"
	"github.com/pdiddy/snipcheck/internal/extract"
	"github.com/pdiddy/snipcheck/internal/report"
	"github.com/pdiddy/snipcheck/internal/source"
	"github.com/pdiddy/snipcheck/pkg/types"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks <path>",
	Short: "Dump the extracted and classified blocks of a document",
	Long: `Blocks runs the extractor and classifier on one Markdown document and
prints the resulting sections and blocks, with each code block's sub-kind.
Use it to see why a snippet was or was not flagged. Use "-" for stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runBlocks,
}

func runBlocks(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	var (
		doc *types.Document
		err error
	)
	if args[0] == source.Stdin {
		data, rerr := readAll(cmd)
		if rerr != nil {
			return rerr
		}
		doc, err = extract.Extract(check.StdinName, data)
	} else {
		doc, err = extract.ExtractFile(args[0])
	}
	if err != nil {
		return err
	}

	doc = classify.Document(doc)
	logger.Debug("extracted document",
		zap.String("path", doc.Path),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("code_blocks", doc.CodeBlockCount()))

	return report.WriteDocument(cmd.OutOrStdout(), doc, types.OutputFormat(format))
}

func readAll(cmd *cobra.Command) (string, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func init() {
	blocksCmd.Flags().String("format", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(blocksCmd)
}
