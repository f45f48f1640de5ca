package codec_test

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"hitchcock/internal/codec"
	"hitchcock/internal/storyboard"
	"hitchcock/internal/testsupport"
)

func seededBundle(t *testing.T) *codec.Bundle {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.SeedScene(t, st, "s1")
	testsupport.SeedScene(t, st, "s2")
	scenes, _ := st.LoadScenes(ctx)
	analyses, _ := st.LoadSceneAnalyses(ctx)
	plans, _ := st.LoadVisualPlans(ctx)
	specs, _ := storyboard.BuildShotImageSpecs(scenes, analyses, plans)
	if err := st.SaveShotImageSpecs(ctx, specs); err != nil {
		t.Fatalf("SaveShotImageSpecs: %v", err)
	}

	bundle, err := codec.Collect(ctx, st)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return bundle
}

func TestCollectLoadsEverything(t *testing.T) {
	bundle := seededBundle(t)
	want := map[string]int{"scenes": 2, "scene_analyses": 2, "visual_plans": 2, "shot_image_specs": 4}
	if got := bundle.Counts(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Counts = %v, want %v", got, want)
	}
	if bundle.Version != codec.BundleVersion {
		t.Fatalf("unexpected version %d", bundle.Version)
	}
}

func TestBundleRoundTripThroughStore(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			bundle := seededBundle(t)
			c, err := codec.ForFormat(format)
			if err != nil {
				t.Fatalf("ForFormat: %v", err)
			}

			var buf bytes.Buffer
			if err := c.Export(bundle, &buf); err != nil {
				t.Fatalf("Export: %v", err)
			}
			parsed, err := c.Parse(&buf)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			cfg := testsupport.NewConfig(t)
			target := testsupport.MustOpenStore(t, cfg)
			ctx := context.Background()
			if err := codec.Apply(ctx, target, parsed); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			reloaded, err := codec.Collect(ctx, target)
			if err != nil {
				t.Fatalf("Collect: %v", err)
			}
			if !reflect.DeepEqual(reloaded, bundle) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", reloaded, bundle)
			}
		})
	}
}

func TestForFormat(t *testing.T) {
	if c, err := codec.ForFormat(" YML "); err != nil || c.Format() != "yaml" {
		t.Fatalf("expected yaml codec, got %v %v", c, err)
	}
	if _, err := codec.ForFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
	if codec.FormatFromPath("board.YAML") != "yaml" || codec.FormatFromPath("board.json") != "json" || codec.FormatFromPath("board") != "json" {
		t.Fatal("unexpected FormatFromPath results")
	}
}

func TestYAMLParseEmptyDocument(t *testing.T) {
	bundle, err := codec.NewYAMLCodec().Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(bundle.Scenes) != 0 {
		t.Fatalf("expected empty bundle, got %+v", bundle)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := codec.NewJSONCodec().Parse(strings.NewReader(`{"scenes":[],"actors":[]}`)); err == nil {
		t.Fatal("expected JSON error for unknown field")
	}
	if _, err := codec.NewYAMLCodec().Parse(strings.NewReader("actors: []\n")); err == nil {
		t.Fatal("expected YAML error for unknown field")
	}
}

func TestApplyRejectsNewerVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	err := codec.Apply(context.Background(), st, &codec.Bundle{Version: codec.BundleVersion + 1})
	if err == nil || !strings.Contains(err.Error(), "newer") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestYAMLExportUsesSnakeCase(t *testing.T) {
	bundle := &codec.Bundle{
		Version:  codec.BundleVersion,
		Analyses: []storyboard.SceneAnalysis{testsupport.SampleAnalysis("s1")},
	}
	var buf bytes.Buffer
	if err := codec.NewYAMLCodec().Export(bundle, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()
	for _, key := range []string{"scene_analyses:", "key_moments:", "camera_movement: slow push", "time_of_day: night"} {
		if !strings.Contains(out, key) {
			t.Fatalf("expected %q in YAML output:\n%s", key, out)
		}
	}
}
