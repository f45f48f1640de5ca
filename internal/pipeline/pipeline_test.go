package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"hitchcock/internal/pipeline"
	"hitchcock/internal/services"
	"hitchcock/internal/storyboard"
	"hitchcock/internal/testsupport"
)

type fakeProducer struct {
	mu           sync.Mutex
	scenes       []storyboard.Scene
	breakdownErr error
	analyzeErr   map[string]error
	planErr      error
	breakdowns   []string
	analyzed     []string
}

func (f *fakeProducer) BreakdownScript(_ context.Context, script string) ([]storyboard.Scene, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.breakdowns = append(f.breakdowns, script)
	if f.breakdownErr != nil {
		return nil, f.breakdownErr
	}
	return f.scenes, nil
}

func (f *fakeProducer) AnalyzeScene(_ context.Context, scene storyboard.Scene) (storyboard.SceneAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzed = append(f.analyzed, scene.SceneID)
	if err := f.analyzeErr[scene.SceneID]; err != nil {
		return storyboard.SceneAnalysis{}, err
	}
	return testsupport.SampleAnalysis(scene.SceneID), nil
}

func (f *fakeProducer) PlanVisuals(_ context.Context, _ *storyboard.Scene, analysis storyboard.SceneAnalysis) (storyboard.VisualPlan, error) {
	if f.planErr != nil {
		return storyboard.VisualPlan{}, f.planErr
	}
	return testsupport.SamplePlan(analysis.SceneID), nil
}

func sceneWithImportance(id string, importance storyboard.Importance) storyboard.Scene {
	scene := testsupport.SampleScene(id)
	scene.Importance = importance
	return scene
}

func TestBreakdownStageStoresNormalizedScenes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	producer := &fakeProducer{scenes: []storyboard.Scene{
		{SceneID: "s1", Title: " Opening ", Importance: "HIGH", Characters: []string{"MEI", "Mei"}},
		{Title: "Untitled", Importance: "low"},
	}}

	report, err := pipeline.NewBreakdownStage(st, producer, "  INT. HOUSE  ", 0).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report.Saved != 2 || report.Fallbacks != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if producer.breakdowns[0] != "INT. HOUSE" {
		t.Fatalf("expected trimmed script, got %q", producer.breakdowns[0])
	}

	scene, err := st.GetScene(context.Background(), "s1")
	if err != nil || scene == nil {
		t.Fatalf("GetScene: %v %v", scene, err)
	}
	if scene.Title != "Opening" || scene.Importance != storyboard.ImportanceHigh || len(scene.Characters) != 1 || scene.Characters[0] != "Mei" {
		t.Fatalf("unexpected stored scene %+v", scene)
	}
	if other, _ := st.GetScene(context.Background(), "scene_002"); other == nil {
		t.Fatal("expected generated scene id scene_002")
	}
}

func TestBreakdownStageTruncatesPrompt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	producer := &fakeProducer{scenes: []storyboard.Scene{testsupport.SampleScene("s1")}}

	if _, err := pipeline.NewBreakdownStage(st, producer, "abcdefghij", 4).Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if producer.breakdowns[0] != "abcd" {
		t.Fatalf("expected truncated prompt, got %q", producer.breakdowns[0])
	}
}

func TestBreakdownStageFallsBackOnProducerError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	producer := &fakeProducer{breakdownErr: errors.New("model offline")}

	report, err := pipeline.NewBreakdownStage(st, producer, "FADE IN: a storm.", 0).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report.Fallbacks != 1 || report.Saved != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	scene, err := st.GetScene(context.Background(), "error_001")
	if err != nil || scene == nil {
		t.Fatalf("expected placeholder scene, got %v %v", scene, err)
	}
	if scene.Title != "Error Processing Scene" || scene.ScriptText != "FADE IN: a storm...." {
		t.Fatalf("unexpected placeholder %+v", scene)
	}
}

func TestBreakdownStageRejectsEmptyScript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := pipeline.NewBreakdownStage(st, &fakeProducer{}, "   ", 0).Execute(context.Background())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAnalysisStageSelectsByImportance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	scenes := []storyboard.Scene{
		sceneWithImportance("s1", storyboard.ImportanceCritical),
		sceneWithImportance("s2", storyboard.ImportanceLow),
		sceneWithImportance("s3", storyboard.ImportanceHigh),
	}
	if err := st.SaveScenes(ctx, scenes); err != nil {
		t.Fatalf("SaveScenes: %v", err)
	}
	producer := &fakeProducer{analyzeErr: map[string]error{"s3": errors.New("timeout")}}

	report, err := pipeline.NewAnalysisStage(st, producer, []string{"critical", "high"}).Execute(ctx)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report.Saved != 2 || report.Skipped != 1 || report.Fallbacks != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if strings.Join(producer.analyzed, ",") != "s1,s3" {
		t.Fatalf("unexpected analyzed scenes %v", producer.analyzed)
	}

	if missing, _ := st.GetSceneAnalysis(ctx, "s2"); missing != nil {
		t.Fatal("low importance scene should not be analyzed")
	}
	fallback, err := st.GetSceneAnalysis(ctx, "s3")
	if err != nil || fallback == nil {
		t.Fatalf("GetSceneAnalysis: %v %v", fallback, err)
	}
	if fallback.Mood != "neutral" || len(fallback.Shots) != 2 || fallback.Shots[1].Focus != "Main character" {
		t.Fatalf("expected placeholder analysis, got %+v", fallback)
	}
}

func TestVisualPlanStageFallsBack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	if err := st.SaveSceneAnalyses(ctx, []storyboard.SceneAnalysis{testsupport.SampleAnalysis("s1")}); err != nil {
		t.Fatalf("SaveSceneAnalyses: %v", err)
	}

	report, err := pipeline.NewVisualPlanStage(st, &fakeProducer{planErr: errors.New("bad json")}).Execute(ctx)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report.Saved != 1 || report.Fallbacks != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	plan, err := st.GetVisualPlan(ctx, "s1")
	if err != nil || plan == nil {
		t.Fatalf("GetVisualPlan: %v %v", plan, err)
	}
	if plan.Lighting != "Natural morning light with fog" || len(plan.Props) != 2 || len(plan.SpecialEffects) != 2 {
		t.Fatalf("unexpected placeholder plan %+v", plan)
	}
}

func TestJoinStageSkipsIncompleteScenes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.SeedScene(t, st, "s1")
	if err := st.SaveSceneAnalyses(ctx, []storyboard.SceneAnalysis{testsupport.SampleAnalysis("orphan")}); err != nil {
		t.Fatalf("SaveSceneAnalyses: %v", err)
	}

	report, err := pipeline.NewJoinStage(st).Execute(ctx)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report.Saved != 2 || report.Skipped != 1 {
		t.Fatalf("unexpected report %+v", report)
	}

	again, err := pipeline.NewJoinStage(st).Execute(ctx)
	if err != nil || again.Saved != 2 {
		t.Fatalf("rerun: %+v %v", again, err)
	}
	specs, err := st.LoadShotImageSpecs(ctx)
	if err != nil {
		t.Fatalf("LoadShotImageSpecs: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("rerunning join should overwrite, got %d specs", len(specs))
	}
}

func TestJoinStageDropsSpecsWhenAnalysisShrinks(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.SeedScene(t, st, "s1")
	testsupport.SeedScene(t, st, "s2")

	analysis := testsupport.SampleAnalysis("s1")
	analysis.Shots = append(analysis.Shots, analysis.Shots[0])
	if err := st.SaveSceneAnalyses(ctx, []storyboard.SceneAnalysis{analysis}); err != nil {
		t.Fatalf("SaveSceneAnalyses: %v", err)
	}
	if report, err := pipeline.NewJoinStage(st).Execute(ctx); err != nil || report.Saved != 5 {
		t.Fatalf("first join: %+v %v", report, err)
	}

	analysis.Shots = analysis.Shots[:1]
	if err := st.SaveSceneAnalyses(ctx, []storyboard.SceneAnalysis{analysis}); err != nil {
		t.Fatalf("SaveSceneAnalyses: %v", err)
	}
	if report, err := pipeline.NewJoinStage(st).Execute(ctx); err != nil || report.Saved != 3 {
		t.Fatalf("second join: %+v %v", report, err)
	}

	specs, err := st.GetShotImageSpecsBySceneID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetShotImageSpecsBySceneID: %v", err)
	}
	if len(specs) != 1 || specs[0].ShotID != "s1_shot_1" {
		t.Fatalf("expected only s1_shot_1, got %+v", specs)
	}
	stale, err := st.GetShotImageSpec(ctx, "s1_shot_3")
	if err != nil || stale != nil {
		t.Fatalf("stale spec survived: %+v %v", stale, err)
	}
	meta, err := st.SceneMetadata(ctx, "s1")
	if err != nil {
		t.Fatalf("SceneMetadata: %v", err)
	}
	if meta.ShotSpecCount != 1 {
		t.Fatalf("expected 1 spec for s1, got %d", meta.ShotSpecCount)
	}
	other, err := st.GetShotImageSpecsBySceneID(ctx, "s2")
	if err != nil || len(other) != 2 {
		t.Fatalf("s2 specs should be untouched: %d %v", len(other), err)
	}
}

func TestRunnerRunsAllStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	producer := &fakeProducer{scenes: []storyboard.Scene{
		testsupport.SampleScene("s1"),
		sceneWithImportance("s2", storyboard.ImportanceLow),
	}}

	reports, err := pipeline.NewRunner(cfg, st, producer, nil).Run(ctx, "INT. LIGHTHOUSE - NIGHT")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(reports) != 4 {
		t.Fatalf("expected 4 reports, got %d", len(reports))
	}
	names := make([]string, 0, len(reports))
	for _, report := range reports {
		names = append(names, report.Stage)
	}
	if strings.Join(names, ",") != "breakdown,analysis,visual_plan,join" {
		t.Fatalf("unexpected stage order %v", names)
	}

	specs, err := st.GetShotImageSpecsBySceneID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetShotImageSpecsBySceneID: %v", err)
	}
	if len(specs) != 2 || specs[0].ShotID != "s1_shot_1" || specs[1].ShotID != "s1_shot_2" {
		t.Fatalf("unexpected specs %+v", specs)
	}
	first := specs[0]
	if first.Description != "Mei climbs the lighthouse. The lighthouse against the storm." {
		t.Fatalf("unexpected description %q", first.Description)
	}
	if first.VisualElements.Lighting != "Cold moonlight" || first.VisualElements.TimeOfDay != "night" {
		t.Fatalf("unexpected visual elements %+v", first.VisualElements)
	}
	if strings.Join(first.Characters, ",") != "Mei,Thaddeus" {
		t.Fatalf("unexpected characters %v", first.Characters)
	}

	meta, err := st.SceneMetadata(ctx, "s2")
	if err != nil || meta == nil {
		t.Fatalf("SceneMetadata: %v %v", meta, err)
	}
	if meta.HasAnalysis || meta.HasVisualPlan || meta.ShotSpecCount != 0 {
		t.Fatalf("low importance scene should stop after breakdown, got %+v", meta)
	}
}

func TestRunnerWithoutAPIKeyUsesPlaceholders(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAnalyzeImportance("medium"))
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	reports, err := pipeline.NewRunner(cfg, st, nil, nil).Run(ctx, "EXT. FOREST - DAWN. Mist everywhere.")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, report := range reports[:3] {
		if report.Fallbacks != 1 {
			t.Fatalf("expected one fallback in %s, got %+v", report.Stage, report)
		}
	}
	spec, err := st.GetShotImageSpec(ctx, "error_001_shot_1")
	if err != nil || spec == nil {
		t.Fatalf("GetShotImageSpec: %v %v", spec, err)
	}
	if spec.Description != "Error occurred during scene analysis Establish the scene: Error occurred during scene analysis" {
		t.Fatalf("unexpected description %q", spec.Description)
	}
	if strings.Join(spec.Props, ",") != "Fallen trees,Moss-covered rocks" {
		t.Fatalf("unexpected props %v", spec.Props)
	}
}

func TestRunnerRefusesConcurrentRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	held := flock.New(cfg.LockPath())
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	defer held.Unlock()

	runner := pipeline.NewRunner(cfg, st, &fakeProducer{}, nil)
	if _, err := runner.RunStages(context.Background(), runner.JoinStage()); !errors.Is(err, pipeline.ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
}

func TestRunnerStopsOnStageFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	runner := pipeline.NewRunner(cfg, st, &fakeProducer{}, nil)

	reports, err := runner.RunStages(context.Background(), runner.JoinStage(), runner.BreakdownStage(""), runner.JoinStage())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(reports) != 1 || reports[0].Stage != pipeline.StageJoin {
		t.Fatalf("expected only the first stage to complete, got %+v", reports)
	}
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
	}
}

func TestRunnerWithLLM(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) < 2 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		system := req.Messages[0].Content
		var content string
		switch {
		case strings.Contains(system, "script analyst"):
			content = `{"scenes":[{"scene_id":"s1","title":"Dock","script_text":"EXT. DOCK","importance":"critical","characters":["JONAH"],"description":"Jonah waits."}]}`
		case strings.Contains(system, "cinematographer"):
			content = "```json\n" + `{"key_moments":["Arrival"],"shots":[{"type":"establishing","camera":"wide shot","description":"The dock at dusk.","duration":"3 seconds"}],"setting":"Dock","mood":"calm","pacing":"slow","time_of_day":"dusk"}` + "\n```"
		case strings.Contains(system, "production designer"):
			content = `{"lighting":"Amber dusk","atmosphere":"Quiet","props":["rope"],"special_effects":[]}`
		default:
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponse(content))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithLLM(server.URL, "test-key"))
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	reports, err := pipeline.NewRunner(cfg, st, nil, nil).Run(ctx, "EXT. DOCK - DUSK. Jonah waits.")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, report := range reports {
		if report.Fallbacks != 0 {
			t.Fatalf("unexpected fallback in %+v", report)
		}
	}
	spec, err := st.GetShotImageSpec(ctx, "s1_shot_1")
	if err != nil || spec == nil {
		t.Fatalf("GetShotImageSpec: %v %v", spec, err)
	}
	if spec.Description != "Jonah waits. The dock at dusk." || spec.VisualElements.Lighting != "Amber dusk" {
		t.Fatalf("unexpected spec %+v", spec)
	}
	if spec.VisualElements.TimeOfDay != "dusk" || strings.Join(spec.Characters, ",") != "Jonah" {
		t.Fatalf("unexpected spec %+v", spec)
	}
	if spec.CameraSpecs.Movement != "" || spec.CameraSpecs.Type != "wide shot" {
		t.Fatalf("unexpected camera specs %+v", spec.CameraSpecs)
	}
}
