package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hitchcock/internal/config"
	"hitchcock/internal/pipeline"
	"hitchcock/internal/services"
	"hitchcock/internal/store"
)

func newPipelineCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newStageCommand(ctx, "breakdown <script-file|->", "Split a script into scenes", true,
			func(r *pipeline.Runner, script string) []pipeline.Stage {
				return []pipeline.Stage{r.BreakdownStage(script)}
			}),
		newStageCommand(ctx, "analyze", "Plan shots for the important scenes", false,
			func(r *pipeline.Runner, _ string) []pipeline.Stage {
				return []pipeline.Stage{r.AnalysisStage()}
			}),
		newStageCommand(ctx, "plan", "Plan lighting, atmosphere, props and effects per analysed scene", false,
			func(r *pipeline.Runner, _ string) []pipeline.Stage {
				return []pipeline.Stage{r.VisualPlanStage()}
			}),
		newStageCommand(ctx, "join", "Build shot image specs from scenes, analyses and plans", false,
			func(r *pipeline.Runner, _ string) []pipeline.Stage {
				return []pipeline.Stage{r.JoinStage()}
			}),
		newStageCommand(ctx, "run <script-file|->", "Run every pipeline stage for a script", true,
			func(r *pipeline.Runner, script string) []pipeline.Stage {
				return []pipeline.Stage{r.BreakdownStage(script), r.AnalysisStage(), r.VisualPlanStage(), r.JoinStage()}
			}),
	}
}

func newStageCommand(ctx *commandContext, use, short string, needsScript bool, stages func(*pipeline.Runner, string) []pipeline.Stage) *cobra.Command {
	var jsonOutput bool
	positional := cobra.NoArgs
	if needsScript {
		positional = cobra.ExactArgs(1)
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  positional,
		RunE: func(cmd *cobra.Command, args []string) error {
			var script string
			if needsScript {
				text, err := readScript(cmd.InOrStdin(), args[0])
				if err != nil {
					return err
				}
				script = text
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				runner := pipeline.NewRunner(cfg, st, nil, ctx.appLogger())
				reports, err := runner.RunStages(cmd.Context(), stages(runner, script)...)
				if jsonOutput {
					if encodeErr := writeJSON(cmd, reports); encodeErr != nil {
						return errors.Join(err, encodeErr)
					}
				} else {
					printReports(cmd.OutOrStdout(), reports)
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output stage reports as JSON")
	return cmd
}

// readScript reads the script from a file, or from stdin when path is "-".
func readScript(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if strings.TrimSpace(path) == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		expanded, expandErr := config.ExpandPath(path)
		if expandErr != nil {
			return "", fmt.Errorf("resolve script path: %w", expandErr)
		}
		data, err = os.ReadFile(expanded)
	}
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", services.Wrap(services.ErrValidation, "cli", "read script", "script is empty", nil)
	}
	return string(data), nil
}

func printReports(out io.Writer, reports []pipeline.Report) {
	if len(reports) == 0 {
		return
	}
	rows := make([][]string, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, []string{
			report.Stage,
			strconv.Itoa(report.Saved),
			strconv.Itoa(report.Fallbacks),
			strconv.Itoa(report.Skipped),
			report.Duration.Round(time.Millisecond).String(),
		})
	}
	headers := []string{"Stage", "Saved", "Fallbacks", "Skipped", "Duration"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
}
