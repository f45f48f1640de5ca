package pipeline

import (
	"context"
	"errors"
	"fmt"

	"hitchcock/internal/services/llm"
	"hitchcock/internal/storyboard"
)

// Producer generates the entities for the breakdown, analysis and visual plan
// stages.
type Producer interface {
	BreakdownScript(ctx context.Context, script string) ([]storyboard.Scene, error)
	AnalyzeScene(ctx context.Context, scene storyboard.Scene) (storyboard.SceneAnalysis, error)
	PlanVisuals(ctx context.Context, scene *storyboard.Scene, analysis storyboard.SceneAnalysis) (storyboard.VisualPlan, error)
}

type completer interface {
	Enabled() bool
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteInto(ctx context.Context, systemPrompt, userPrompt string, target any) error
}

// LLMProducer asks a chat completion model for each entity.
type LLMProducer struct {
	client completer
}

// NewLLMProducer wraps client. A client without an API key yields
// llm.ErrNotConfigured from every call.
func NewLLMProducer(client *llm.Client) *LLMProducer {
	return &LLMProducer{client: client}
}

func (p *LLMProducer) ready() error {
	if p == nil || p.client == nil || !p.client.Enabled() {
		return llm.ErrNotConfigured
	}
	return nil
}

// BreakdownScript splits script into scenes. Both {"scenes":[...]} and a bare
// array are accepted.
func (p *LLMProducer) BreakdownScript(ctx context.Context, script string) ([]storyboard.Scene, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	content, err := p.client.CompleteJSON(ctx, breakdownSystemPrompt, breakdownPrompt(script))
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Scenes []storyboard.Scene `json:"scenes"`
	}
	if err := llm.DecodeLLMJSON(content, &wrapped); err == nil && len(wrapped.Scenes) > 0 {
		return wrapped.Scenes, nil
	}
	var scenes []storyboard.Scene
	if err := llm.DecodeLLMJSON(content, &scenes); err != nil {
		return nil, fmt.Errorf("decode scene breakdown: %w", err)
	}
	if len(scenes) == 0 {
		return nil, errors.New("scene breakdown returned no scenes")
	}
	return scenes, nil
}

// AnalyzeScene plans key moments and shots for scene.
func (p *LLMProducer) AnalyzeScene(ctx context.Context, scene storyboard.Scene) (storyboard.SceneAnalysis, error) {
	var analysis storyboard.SceneAnalysis
	if err := p.ready(); err != nil {
		return analysis, err
	}
	if err := p.client.CompleteInto(ctx, analysisSystemPrompt, analysisPrompt(scene), &analysis); err != nil {
		return analysis, fmt.Errorf("scene analysis: %w", err)
	}
	if len(analysis.Shots) == 0 {
		return analysis, errors.New("scene analysis returned no shots")
	}
	analysis.SceneID = scene.SceneID
	return analysis, nil
}

// PlanVisuals chooses the look of a scene from its analysis. scene may be nil
// when the analysis has no stored scene.
func (p *LLMProducer) PlanVisuals(ctx context.Context, scene *storyboard.Scene, analysis storyboard.SceneAnalysis) (storyboard.VisualPlan, error) {
	var plan storyboard.VisualPlan
	if err := p.ready(); err != nil {
		return plan, err
	}
	if err := p.client.CompleteInto(ctx, visualPlanSystemPrompt, visualPlanPrompt(scene, analysis), &plan); err != nil {
		return plan, fmt.Errorf("visual plan: %w", err)
	}
	plan.SceneID = analysis.SceneID
	return plan, nil
}
