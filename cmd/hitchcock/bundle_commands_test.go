package main

import (
	"path/filepath"
	"testing"

	"hitchcock/internal/testsupport"
)

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			src := setupCLITestEnv(t)
			st := testsupport.MustOpenStore(t, src.cfg)
			testsupport.SeedScene(t, st, "s1")
			if _, _, err := runCLI(t, []string{"join"}, src.configPath); err != nil {
				t.Fatalf("join: %v", err)
			}

			target := filepath.Join(src.baseDir, "bundle."+format)
			out, _, err := runCLI(t, []string{"export", "--output", target}, src.configPath)
			if err != nil {
				t.Fatalf("export: %v", err)
			}
			requireContains(t, out, "Exported storyboard")

			dst := setupCLITestEnv(t)
			out, _, err = runCLI(t, []string{"import", target}, dst.configPath)
			if err != nil {
				t.Fatalf("import: %v", err)
			}
			requireContains(t, out, "Imported storyboard")

			out, _, err = runCLI(t, []string{"specs", "list"}, dst.configPath)
			if err != nil {
				t.Fatalf("specs list: %v", err)
			}
			requireContains(t, out, "s1_shot_2")
		})
	}
}

func TestExportToStdout(t *testing.T) {
	env := setupCLITestEnv(t)
	st := testsupport.MustOpenStore(t, env.cfg)
	testsupport.SeedScene(t, st, "s1")

	out, _, err := runCLI(t, []string{"export", "--format", "yaml"}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "version: 1")
	requireContains(t, out, "scene_id: s1")
}

func TestExportSaveUsesExportDir(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"export", "--save"}, env.configPath)
	if err != nil {
		t.Fatalf("export --save: %v", err)
	}
	requireContains(t, out, filepath.Join(env.cfg.Paths.ExportDir, "storyboard.json"))
}

func TestImportRejectsUnknownFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"import", "bundle.json", "--format", "xml"}, env.configPath); err == nil {
		t.Fatal("expected unsupported format error")
	}
}
