package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/parser"
	"github.com/ludo-technologies/pysim/internal/similarity"
	"github.com/ludo-technologies/pysim/service"
)

// NormalizeCommand prints the canonical form of a file
type NormalizeCommand struct {
	tree       bool
	configFile string
}

// NewNormalizeCommand creates a new normalize command
func NewNormalizeCommand() *NormalizeCommand {
	return &NormalizeCommand{}
}

// CreateCobraCommand creates the cobra command for canonical text inspection
func (n *NormalizeCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize FILE",
		Short: "Print the normalized source of a Python file",
		Long: `Print the text a file is compared on: the source after renaming,
blanking docstrings and dropping decorators and return annotations.

Examples:
  pysim normalize solution.py
  pysim normalize solution.py --tree`,
		Args: cobra.ExactArgs(1),
		RunE: n.runNormalize,
	}

	cmd.Flags().BoolVar(&n.tree, "tree", false, "Print the normalized syntax tree instead of source")
	cmd.Flags().StringVarP(&n.configFile, "config", "c", "", "Configuration file path")

	return cmd
}

func (n *NormalizeCommand) runNormalize(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig(cmd, n.configFile, firstDir(args))
	if err != nil {
		return err
	}
	opts, err := cfg.NormalizerOptions()
	if err != nil {
		return domain.NewConfigError("invalid normalize configuration", err)
	}

	content, err := service.NewFileReader().ReadFile(path)
	if err != nil {
		return err
	}

	comparer := similarity.NewComparer(opts)

	if n.tree {
		tree, err := comparer.NormalizedTree(cmd.Context(), string(content))
		if err != nil {
			if ctxErr := cmd.Context().Err(); ctxErr != nil {
				return ctxErr
			}
			return domain.NewParseError(path, err)
		}
		tree.Root.Accept(parser.NewPrinterVisitor(cmd.OutOrStdout()))
		return nil
	}

	doc, err := comparer.Canonicalize(cmd.Context(), string(content))
	if err != nil {
		return err
	}
	if !doc.OK() {
		return domain.NewParseError(path, doc.Err)
	}
	if doc.Canonical != "" {
		fmt.Fprintln(cmd.OutOrStdout(), doc.Canonical)
	}
	return nil
}

// NewNormalizeCmd creates and returns the normalize cobra command
func NewNormalizeCmd() *cobra.Command {
	return NewNormalizeCommand().CreateCobraCommand()
}
