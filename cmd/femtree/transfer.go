package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/femtree/internal/cli"
	"github.com/aretw0/femtree/internal/presentation/tui"
	"github.com/aretw0/femtree/pkg/document"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <project> <file|->",
	Short: "Write the document of a project",
	Long: `Writes the project document, or the subtree at --path, to a file or to stdout ("-").
The format follows the file extension (.json, .yaml, anything else is an archive) unless --format is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		format, err := fileFormat(cmd, args[1])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			doc, err := app.Engine.Document(ctx, args[0], path)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := document.Encode(&buf, doc, format); err != nil {
				return err
			}
			if args[1] == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := document.WriteFileAtomic(args[1], buf.Bytes()); err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "exported %d nodes to %s", doc.Count(), args[1])
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <project> <file|->",
	Short: "Store a document as a project",
	Long: `Reads a document (archive, JSON or YAML) and stores it as the project. The document must
rebuild into a model tree. An existing project is replaced only with --overwrite.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		format, err := fileFormat(cmd, args[1])
		if err != nil {
			return err
		}

		var r io.Reader = cmd.InOrStdin()
		if args[1] != "-" {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		doc, err := document.Decode(r, format)
		if err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			if err := app.Engine.ImportDocument(ctx, args[0], doc, overwrite); err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "imported %d nodes into %s", doc.Count(), args[0])
			return nil
		})
	},
}

// fileFormat resolves --format, falling back to the extension of name.
// Standard streams default to JSON.
func fileFormat(cmd *cobra.Command, name string) (document.Format, error) {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		format, err := document.ParseFormat(f)
		if err != nil {
			return "", fmt.Errorf("--format: %w", err)
		}
		return format, nil
	}
	if name == "-" {
		return document.FormatJSON, nil
	}
	return document.FormatFromPath(name), nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("path", "", "Export only the subtree at this path")
	exportCmd.Flags().String("format", "", "archive, json or yaml")

	rootCmd.AddCommand(importCmd)
	importCmd.Flags().Bool("overwrite", false, "Replace an existing project")
	importCmd.Flags().String("format", "", "archive, json or yaml")
}
