package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hitchcock/internal/config"
	"hitchcock/internal/preflight"
	"hitchcock/internal/store"
)

type statusReport struct {
	Preflight []preflight.Result   `json:"preflight"`
	Database  store.DatabaseHealth `json:"database"`
	Counts    store.TableCounts    `json:"counts"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		skipLLM    bool
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show preflight checks, database health and storyboard counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := statusReport{
				Preflight: preflight.RunAll(cmd.Context(), cfg, preflight.Options{SkipLLM: skipLLM}),
			}

			err = ctx.withStore(func(_ *config.Config, st *store.Store) error {
				health, healthErr := st.CheckHealth(cmd.Context())
				if healthErr != nil && health.Error == "" {
					health.Error = healthErr.Error()
				}
				report.Database = health
				counts, countErr := st.Counts(cmd.Context())
				if countErr != nil {
					return countErr
				}
				report.Counts = counts
				return nil
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}
			printStatus(cmd, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "Skip the LLM health check")
	return cmd
}

func printStatus(cmd *cobra.Command, report statusReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintln(out, renderSectionHeader("Preflight", colorize))
	for _, result := range report.Preflight {
		fmt.Fprintln(out, renderStatusLine(result.Name, preflightKind(result), result.Detail, colorize))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSectionHeader("Database", colorize))
	health := report.Database
	fmt.Fprintln(out, renderStatusLine("Path", statusInfo, health.DBPath, colorize))
	if health.Healthy() {
		fmt.Fprintln(out, renderStatusLine("Health", statusOK, "schema v"+strconv.Itoa(health.SchemaVersion), colorize))
	} else {
		message := health.Error
		if message == "" && len(health.MissingTables) > 0 {
			message = fmt.Sprintf("missing tables: %v", health.MissingTables)
		}
		if message == "" {
			message = "integrity check failed"
		}
		fmt.Fprintln(out, renderStatusLine("Health", statusError, message, colorize))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSectionHeader("Storyboard", colorize))
	rows := make([][]string, 0, len(store.Tables))
	for _, table := range store.Tables {
		rows = append(rows, []string{table, strconv.Itoa(report.Counts[table])})
	}
	fmt.Fprintln(out, renderTable([]string{"Table", "Rows"}, rows, []columnAlignment{alignLeft, alignRight}))
}
