package handoff_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hitchcock/internal/handoff"
	"hitchcock/internal/storyboard"
	"hitchcock/internal/testsupport"
)

func TestCameraAngle(t *testing.T) {
	cases := map[string]string{
		"wide shot":          "wide",
		"Medium Shot":        "medium",
		"close-up shot":      "close_up",
		"extreme close-up":   "extreme_close_up",
		"bird's eye":         "birds_eye",
		"over shoulder shot": "over_shoulder",
		"":                   "wide",
		"tracking shot":      "wide",
	}
	for input, want := range cases {
		if got := handoff.CameraAngle(input); got != want {
			t.Fatalf("CameraAngle(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestAspectRatio(t *testing.T) {
	if handoff.AspectRatio("wide") != "16:9" || handoff.AspectRatio("close_up") != "4:3" || handoff.AspectRatio("medium") != "3:2" {
		t.Fatal("unexpected aspect ratios")
	}
}

func TestImageRequests(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	specs := []storyboard.ShotImageSpec{
		{
			ShotID:         "s1_shot_1",
			SceneID:        "s1",
			Description:    "Mei climbs the lighthouse.",
			CameraSpecs:    storyboard.CameraSpecs{Type: "close-up shot"},
			VisualElements: storyboard.VisualElements{Lighting: "Cold moonlight", Atmosphere: "Brooding"},
			Characters:     []string{"Mei"},
		},
		{ShotID: "s1_shot_2", SceneID: "s1", Description: "The sea."},
		{ShotID: "s2_shot_1", SceneID: "s2", Description: "Harbour."},
	}
	if err := st.SaveShotImageSpecs(ctx, specs); err != nil {
		t.Fatalf("SaveShotImageSpecs: %v", err)
	}

	requests, err := handoff.ImageRequests(ctx, st, "s1", handoff.ImageOptions{OutputDir: cfg.Handoff.ImageDir, Format: ".PNG"})
	if err != nil {
		t.Fatalf("ImageRequests: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(requests))
	}

	first := requests[0]
	if first.CameraAngle != "close_up" || first.AspectRatio != "4:3" || first.FileName != "s1_shot_1.png" {
		t.Fatalf("unexpected request %+v", first)
	}
	if first.OutputPath != filepath.Join(cfg.Handoff.ImageDir, "s1_shot_1.png") {
		t.Fatalf("unexpected output path %q", first.OutputPath)
	}
	if !strings.HasPrefix(first.Prompt, "Camera angle: close_up. Mei climbs the lighthouse.") {
		t.Fatalf("unexpected prompt %q", first.Prompt)
	}
	if !strings.Contains(first.Prompt, "lighting: Cold moonlight") || !strings.Contains(first.Prompt, "mood: Brooding") {
		t.Fatalf("prompt missing visuals: %q", first.Prompt)
	}

	second := requests[1]
	if second.CameraAngle != "wide" || second.Visuals.Lighting != "natural daylight" || second.Visuals.Mood != "neutral" {
		t.Fatalf("expected defaults, got %+v", second)
	}
	if second.Characters == nil {
		t.Fatal("expected empty, non-nil characters")
	}

	all, err := handoff.ImageRequests(ctx, st, "", handoff.ImageOptions{})
	if err != nil {
		t.Fatalf("ImageRequests all: %v", err)
	}
	if len(all) != 3 || all[2].FileName != "s2_shot_1.jpg" || all[2].OutputPath != "" {
		t.Fatalf("unexpected requests %+v", all)
	}
}

func TestNarrationRequests(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	noScript := testsupport.SampleScene("s3")
	noScript.ScriptText = ""
	if err := st.SaveScenes(ctx, []storyboard.Scene{testsupport.SampleScene("s1"), testsupport.SampleScene("s2"), noScript}); err != nil {
		t.Fatalf("SaveScenes: %v", err)
	}
	specs := []storyboard.ShotImageSpec{
		{ShotID: "s2_shot_1", SceneID: "s2"},
		{ShotID: "s1_shot_1", SceneID: "s1"},
		{ShotID: "s2_shot_2", SceneID: "s2"},
		{ShotID: "s3_shot_1", SceneID: "s3"},
		{ShotID: "gone_shot_1", SceneID: "gone"},
	}
	if err := st.SaveShotImageSpecs(ctx, specs); err != nil {
		t.Fatalf("SaveShotImageSpecs: %v", err)
	}

	requests, err := handoff.NarrationRequests(ctx, st, cfg.Handoff.AudioDir)
	if err != nil {
		t.Fatalf("NarrationRequests: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %+v", requests)
	}
	ids := []string{requests[0].SceneID, requests[1].SceneID}
	if len(ids) != 2 || !containsAll(ids, "s1", "s2") {
		t.Fatalf("unexpected scenes %v", ids)
	}
	for _, req := range requests {
		if req.FileName != req.SceneID+".mp3" || req.OutputPath != filepath.Join(cfg.Handoff.AudioDir, req.FileName) {
			t.Fatalf("unexpected file naming %+v", req)
		}
		if req.ScriptText == "" {
			t.Fatalf("expected script text for %s", req.SceneID)
		}
	}
}

func containsAll(values []string, want ...string) bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}

func TestWriteManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	requests := []handoff.NarrationRequest{{SceneID: "s1", ScriptText: "Hello", FileName: "s1.mp3"}}

	path, err := handoff.WriteManifest(dir, handoff.AudioManifestName, requests)
	if err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var decoded []handoff.NarrationRequest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(decoded) != 1 || decoded[0].FileName != "s1.mp3" {
		t.Fatalf("unexpected manifest %+v", decoded)
	}
}
