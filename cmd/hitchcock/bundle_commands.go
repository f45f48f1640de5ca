package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hitchcock/internal/codec"
	"hitchcock/internal/config"
	"hitchcock/internal/fileutil"
	"hitchcock/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		format string
		output string
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the whole storyboard as one JSON or YAML bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = codec.FormatFromPath(output)
			}
			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				bundle, err := codec.Collect(cmd.Context(), st)
				if err != nil {
					return err
				}

				target := strings.TrimSpace(output)
				if target == "" && save {
					target = filepath.Join(cfg.Paths.ExportDir, "storyboard."+c.Format())
				}
				if target == "" || target == "-" {
					return c.Export(bundle, cmd.OutOrStdout())
				}

				var buf bytes.Buffer
				if err := c.Export(bundle, &buf); err != nil {
					return err
				}
				if err := fileutil.WriteFileAtomic(target, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write bundle: %w", err)
				}
				ctx.appLogger().Info("storyboard exported", "path", target, "format", c.Format())
				fmt.Fprintf(cmd.OutOrStdout(), "Exported storyboard to %s\n", target)
				printBundleCounts(cmd, bundle)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Bundle format: json or yaml (default from output extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&save, "save", false, "Write into the configured export directory")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <bundle-file|->",
		Short: "Import a JSON or YAML bundle, overwriting entities with the same ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := strings.TrimSpace(args[0])
			if format == "" {
				format = codec.FormatFromPath(source)
			}
			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

			var bundle *codec.Bundle
			if source == "-" {
				bundle, err = c.Parse(cmd.InOrStdin())
			} else {
				file, openErr := os.Open(source)
				if openErr != nil {
					return fmt.Errorf("open bundle: %w", openErr)
				}
				defer file.Close()
				bundle, err = c.Parse(file)
			}
			if err != nil {
				return err
			}

			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				if err := codec.Apply(cmd.Context(), st, bundle); err != nil {
					return err
				}
				ctx.appLogger().Info("storyboard imported", "source", source, "format", c.Format())
				fmt.Fprintf(cmd.OutOrStdout(), "Imported storyboard from %s\n", source)
				printBundleCounts(cmd, bundle)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Bundle format: json or yaml (default from file extension, else json)")
	return cmd
}

func printBundleCounts(cmd *cobra.Command, bundle *codec.Bundle) {
	counts := bundle.Counts()
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	rows := make([][]string, 0, len(kinds))
	for _, kind := range kinds {
		rows = append(rows, []string{kind, strconv.Itoa(counts[kind])})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Entity", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
}
