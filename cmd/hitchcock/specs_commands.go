package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hitchcock/internal/config"
	"hitchcock/internal/store"
	"hitchcock/internal/storyboard"
)

func newSpecsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specs",
		Short: "Inspect shot image specs",
	}
	cmd.AddCommand(newSpecsListCommand(ctx))
	return cmd
}

func newSpecsListCommand(ctx *commandContext) *cobra.Command {
	var (
		sceneID    string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shot image specs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				var (
					specs []storyboard.ShotImageSpec
					err   error
				)
				if id := strings.TrimSpace(sceneID); id != "" {
					specs, err = st.GetShotImageSpecsBySceneID(cmd.Context(), id)
				} else {
					specs, err = st.LoadShotImageSpecs(cmd.Context())
				}
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, specs)
				}
				if len(specs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No shot image specs stored")
					return nil
				}
				rows := make([][]string, 0, len(specs))
				for _, spec := range specs {
					rows = append(rows, []string{
						spec.ShotID,
						spec.SceneID,
						spec.CameraSpecs.Type,
						spec.VisualElements.Lighting,
						joinOrDash(spec.Characters),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Shot", "Scene", "Camera", "Lighting", "Characters"}, rows, nil))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sceneID, "scene", "", "Only list specs of this scene")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
