package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hitchcock/internal/config"
	"hitchcock/internal/handoff"
	"hitchcock/internal/store"
)

func newHandoffCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handoff",
		Short: "Prepare requests for image and narration collaborators",
	}
	cmd.AddCommand(newHandoffImagesCommand(ctx))
	cmd.AddCommand(newHandoffAudioCommand(ctx))
	return cmd
}

func newHandoffImagesCommand(ctx *commandContext) *cobra.Command {
	var (
		sceneID    string
		jsonOutput bool
		write      bool
	)
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Build one image request per shot image spec",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				requests, err := handoff.ImageRequests(cmd.Context(), st, sceneID, handoff.ImageOptions{
					OutputDir: cfg.Handoff.ImageDir,
					Format:    cfg.Handoff.ImageFormat,
				})
				if err != nil {
					return err
				}
				if write {
					path, err := handoff.WriteManifest(cfg.Handoff.ImageDir, handoff.ImageManifestName, requests)
					if err != nil {
						return err
					}
					ctx.appLogger().Info("image manifest written", "path", path, "requests", len(requests))
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d image requests to %s\n", len(requests), path)
					return nil
				}
				if jsonOutput {
					return writeJSON(cmd, requests)
				}
				if len(requests) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No shot image specs stored")
					return nil
				}
				rows := make([][]string, 0, len(requests))
				for _, req := range requests {
					rows = append(rows, []string{req.ShotID, req.CameraAngle, req.AspectRatio, req.Visuals.Mood, req.FileName})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Shot", "Angle", "Aspect", "Mood", "File"}, rows, nil))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sceneID, "scene", "", "Only build requests for this scene")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&write, "write", false, "Write the manifest into the configured image directory")
	return cmd
}

func newHandoffAudioCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		write      bool
	)
	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Build one narration request per scene with shot image specs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				requests, err := handoff.NarrationRequests(cmd.Context(), st, cfg.Handoff.AudioDir)
				if err != nil {
					return err
				}
				if write {
					path, err := handoff.WriteManifest(cfg.Handoff.AudioDir, handoff.AudioManifestName, requests)
					if err != nil {
						return err
					}
					ctx.appLogger().Info("narration manifest written", "path", path, "requests", len(requests))
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d narration requests to %s\n", len(requests), path)
					return nil
				}
				if jsonOutput {
					return writeJSON(cmd, requests)
				}
				if len(requests) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No scenes ready for narration")
					return nil
				}
				rows := make([][]string, 0, len(requests))
				for _, req := range requests {
					rows = append(rows, []string{req.SceneID, fmt.Sprintf("%d", len([]rune(req.ScriptText))), req.FileName})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Scene", "Chars", "File"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&write, "write", false, "Write the manifest into the configured audio directory")
	return cmd
}
