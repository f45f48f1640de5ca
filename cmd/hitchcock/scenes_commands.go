package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hitchcock/internal/config"
	"hitchcock/internal/services"
	"hitchcock/internal/store"
	"hitchcock/internal/storyboard"
)

func newScenesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "Inspect stored scenes",
	}
	cmd.AddCommand(newScenesListCommand(ctx))
	cmd.AddCommand(newScenesShowCommand(ctx))
	return cmd
}

func newScenesListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scenes with their pipeline progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				ids, err := st.SceneIDs(cmd.Context())
				if err != nil {
					return err
				}
				metas := make([]storyboard.SceneMetadata, 0, len(ids))
				for _, id := range ids {
					meta, err := st.SceneMetadata(cmd.Context(), id)
					if err != nil {
						return err
					}
					if meta != nil {
						metas = append(metas, *meta)
					}
				}

				if jsonOutput {
					return writeJSON(cmd, metas)
				}
				if len(metas) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No scenes stored")
					return nil
				}
				rows := make([][]string, 0, len(metas))
				for _, meta := range metas {
					rows = append(rows, []string{
						meta.SceneID,
						meta.Title,
						string(meta.Importance),
						strconv.Itoa(meta.CharacterCount),
						yesNo(meta.HasAnalysis),
						yesNo(meta.HasVisualPlan),
						strconv.Itoa(meta.ShotSpecCount),
					})
				}
				headers := []string{"Scene", "Title", "Importance", "Characters", "Analysis", "Plan", "Specs"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newScenesShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <scene-id>",
		Short: "Show one scene with its analysis and visual plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sceneID := strings.TrimSpace(args[0])
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				scene, err := st.GetScene(cmd.Context(), sceneID)
				if err != nil {
					return err
				}
				if scene == nil {
					return services.Wrap(services.ErrNotFound, "cli", "show scene", fmt.Sprintf("scene %q", sceneID), nil)
				}
				meta, err := st.SceneMetadata(cmd.Context(), sceneID)
				if err != nil {
					return err
				}
				analysis, err := st.GetSceneAnalysis(cmd.Context(), sceneID)
				if err != nil {
					return err
				}
				plan, err := st.GetVisualPlan(cmd.Context(), sceneID)
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, sceneDetail{Scene: *scene, Metadata: meta, Analysis: analysis, VisualPlan: plan})
				}
				printSceneDetail(cmd, *scene, meta, analysis, plan)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type sceneDetail struct {
	Scene      storyboard.Scene          `json:"scene"`
	Metadata   *storyboard.SceneMetadata `json:"metadata"`
	Analysis   *storyboard.SceneAnalysis `json:"analysis"`
	VisualPlan *storyboard.VisualPlan    `json:"visual_plan"`
}

func printSceneDetail(cmd *cobra.Command, scene storyboard.Scene, meta *storyboard.SceneMetadata, analysis *storyboard.SceneAnalysis, plan *storyboard.VisualPlan) {
	out := cmd.OutOrStdout()
	fields := [][2]string{
		{"Scene", scene.SceneID},
		{"Title", scene.Title},
		{"Importance", string(scene.Importance)},
		{"Characters", joinOrDash(scene.Characters)},
		{"Description", scene.Description},
	}
	if meta != nil {
		fields = append(fields,
			[2]string{"Analysis", yesNo(meta.HasAnalysis)},
			[2]string{"Visual plan", yesNo(meta.HasVisualPlan)},
			[2]string{"Shot specs", strconv.Itoa(meta.ShotSpecCount)},
		)
	}
	fmt.Fprintln(out, renderFields(fields))

	if analysis != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderFields([][2]string{
			{"Mood", analysis.Mood},
			{"Pacing", string(analysis.Pacing)},
			{"Time of day", analysis.TimeOfDay},
			{"Key moments", joinOrDash(analysis.KeyMoments)},
		}))
		if len(analysis.Shots) > 0 {
			rows := make([][]string, 0, len(analysis.Shots))
			for i, shot := range analysis.Shots {
				rows = append(rows, []string{
					storyboard.ShotID(scene.SceneID, i),
					shot.Type,
					shot.Camera,
					shot.Description,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Shot", "Type", "Camera", "Description"}, rows, nil))
		}
	}
	if plan != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderFields([][2]string{
			{"Lighting", plan.Lighting},
			{"Atmosphere", plan.Atmosphere},
			{"Props", joinOrDash(plan.Props)},
			{"Effects", joinOrDash(plan.SpecialEffects)},
		}))
	}
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
