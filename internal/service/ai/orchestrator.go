package ai

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/store"
	"tripboard-backend/pkg/observability"

	"go.uber.org/zap"
)

const (
	// stepSpacingX is the horizontal distance between generated nodes
	stepSpacingX = 260.0
	// placementJitter bounds the vertical scatter of generated nodes
	placementJitter = 40.0

	requestTimeout = 90 * time.Second
)

const (
	placeholderTitle   = "Thinking..."
	placeholderContent = "Looking for the next stop..."
	placeholderCost    = "..."

	suggestionFailedTitle   = "Suggestion failed"
	suggestionFailedContent = "The model did not return a usable suggestion. Delete this card and try again."

	analysisUnconfigured = "Trip analysis needs a configured model endpoint. Set the API key, model and base URL in settings first."
	analysisEmptyBoard   = "Add a few stops to the board first, then ask for an analysis again."
	analysisFailed       = "Trip analysis is unavailable right now. Please try again later."
)

// Orchestrator runs the generative features against the graph store.
// Expansion and suggestion complete asynchronously; results for nodes
// deleted mid-flight are discarded so the AI never resurrects a card
// the user removed.
type Orchestrator struct {
	store     *store.GraphStore
	provider  Provider
	pending   *PendingSet
	logger    *zap.Logger
	metrics   *observability.Metrics
	imageBase string

	wg sync.WaitGroup
}

// NewOrchestrator creates an orchestrator over the given store and provider
func NewOrchestrator(s *store.GraphStore, provider Provider, logger *zap.Logger, metrics *observability.Metrics, imageBase string) *Orchestrator {
	return &Orchestrator{
		store:     s,
		provider:  provider,
		pending:   NewPendingSet(),
		logger:    logger,
		metrics:   metrics,
		imageBase: imageBase,
	}
}

// tripStep is the schema the model fills for expansion and suggestion
type tripStep struct {
	Title        string `json:"title"`
	Type         string `json:"type"`
	Content      string `json:"content"`
	Cost         string `json:"cost"`
	Date         string `json:"date"`
	ImageKeyword string `json:"image_keyword"`
}

type expandPayload struct {
	Steps []tripStep `json:"steps"`
}

// Pending returns the ids of nodes with an AI result in flight
func (o *Orchestrator) Pending() []string {
	return o.pending.IDs()
}

// IsPending reports whether a node has an AI result in flight
func (o *Orchestrator) IsPending(id string) bool {
	return o.pending.Contains(id)
}

// Wait blocks until all in-flight AI work has finished. Called on
// shutdown so late results are applied (or discarded) before the final
// persistence flush.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// ExpandNode turns a node's free text into a chain of itinerary steps.
// The source node is rewritten from the first step and the remainder are
// laid out to its right. Returns false when the node is missing, has no
// content, or already has a request in flight.
func (o *Orchestrator) ExpandNode(id string) bool {
	node, ok := o.store.GetNode(id)
	if !ok || strings.TrimSpace(node.Content) == "" {
		return false
	}
	if !o.pending.TryAdd(id) {
		return false
	}

	o.wg.Add(1)
	go o.runExpand(node)
	return true
}

func (o *Orchestrator) runExpand(source domain.Node) {
	defer o.wg.Done()
	defer o.pending.Remove(source.ID)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	start := time.Now()
	text, err := o.provider.Complete(ctx, CompletionRequest{
		System:      plannerSystem,
		Prompt:      buildExpandPrompt(source.Content),
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		o.metrics.RecordAIRequest("expand", "error", time.Since(start))
		o.logger.Warn("node expansion failed", zap.String("node_id", source.ID), zap.Error(err))
		return
	}

	var payload expandPayload
	if !DecodeLenient(text, &payload) || len(payload.Steps) == 0 {
		o.metrics.RecordAIRequest("expand", "empty", time.Since(start))
		o.logger.Warn("node expansion returned no usable steps", zap.String("node_id", source.ID))
		return
	}

	// the user may have deleted the source while the model was thinking
	if _, alive := o.store.GetNode(source.ID); !alive {
		o.metrics.RecordAIRequest("expand", "discarded", time.Since(start))
		return
	}

	o.store.UpdateNode(source.ID, o.patchFromStep(payload.Steps[0]))

	prev := source.ID
	for i, step := range payload.Steps[1:] {
		created := o.store.AddNode(o.nodeFromStep(step,
			source.X+float64(i+1)*stepSpacingX,
			source.Y+jitter(),
		))
		o.store.AddConnection(prev, created.ID)
		prev = created.ID
	}

	o.metrics.RecordAIRequest("expand", "success", time.Since(start))
	o.logger.Info("node expanded",
		zap.String("node_id", source.ID),
		zap.Int("steps", len(payload.Steps)),
	)
}

// SuggestNextStop creates a placeholder node connected to the source and
// fills it in asynchronously. The placeholder is returned immediately so
// the caller can render it in its loading state. Only location and stay
// nodes can anchor a suggestion.
func (o *Orchestrator) SuggestNextStop(id string) (domain.Node, bool) {
	source, ok := o.store.GetNode(id)
	if !ok || (source.Type != domain.TypeLocation && source.Type != domain.TypeStay) {
		return domain.Node{}, false
	}

	placeholder := o.store.AddNode(domain.Node{
		X:       source.X + stepSpacingX,
		Y:       source.Y + jitter(),
		Type:    domain.TypeNote,
		Title:   placeholderTitle,
		Content: placeholderContent,
		Cost:    placeholderCost,
	})
	o.store.AddConnection(source.ID, placeholder.ID)

	o.pending.Add(placeholder.ID)
	o.wg.Add(1)
	go o.runSuggest(source, placeholder.ID)
	return placeholder, true
}

func (o *Orchestrator) runSuggest(source domain.Node, placeholderID string) {
	defer o.wg.Done()
	defer o.pending.Remove(placeholderID)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	start := time.Now()
	text, err := o.provider.Complete(ctx, CompletionRequest{
		System:      plannerSystem,
		Prompt:      buildSuggestPrompt(source.Title, source.Content),
		Temperature: 0.8,
		MaxTokens:   600,
	})

	// never write into a placeholder the user already deleted
	if _, alive := o.store.GetNode(placeholderID); !alive {
		o.metrics.RecordAIRequest("suggest", "discarded", time.Since(start))
		return
	}

	var step tripStep
	if err != nil || !DecodeLenient(text, &step) || step.Title == "" {
		o.metrics.RecordAIRequest("suggest", "error", time.Since(start))
		o.logger.Warn("next stop suggestion failed", zap.String("node_id", source.ID), zap.Error(err))
		failedTitle := suggestionFailedTitle
		failedContent := suggestionFailedContent
		o.store.UpdateNode(placeholderID, domain.NodePatch{
			Title:   &failedTitle,
			Content: &failedContent,
		})
		return
	}

	o.store.UpdateNode(placeholderID, o.patchFromStep(step))
	o.metrics.RecordAIRequest("suggest", "success", time.Since(start))
	o.logger.Info("next stop suggested",
		zap.String("node_id", source.ID),
		zap.String("placeholder_id", placeholderID),
	)
}

// AnalyzeTrip summarizes the whole board and returns advice text. Runs
// synchronously; every failure mode maps to a user-facing message rather
// than an error.
func (o *Orchestrator) AnalyzeTrip(ctx context.Context) string {
	if !o.provider.IsConfigured() {
		o.metrics.RecordAIRequest("analyze", "unconfigured", 0)
		return analysisUnconfigured
	}

	snapshot := o.store.Snapshot()
	if len(snapshot.Nodes) == 0 {
		return analysisEmptyBoard
	}

	lines := make([]string, 0, len(snapshot.Nodes))
	for _, n := range snapshot.Nodes {
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", n.Date, n.Title, n.Cost))
	}

	start := time.Now()
	text, err := o.provider.Complete(ctx, CompletionRequest{
		System:      plannerSystem,
		Prompt:      buildAnalysisPrompt(lines),
		Temperature: 0.6,
		MaxTokens:   800,
	})
	if err != nil {
		o.metrics.RecordAIRequest("analyze", "error", time.Since(start))
		o.logger.Warn("trip analysis failed", zap.Error(err))
		return analysisFailed
	}

	o.metrics.RecordAIRequest("analyze", "success", time.Since(start))
	return strings.TrimSpace(text)
}

func (o *Orchestrator) patchFromStep(step tripStep) domain.NodePatch {
	nodeType := domain.NormalizeType(step.Type)
	weather := rand.Intn(len(domain.WeatherIcons))
	patch := domain.NodePatch{
		Title:   &step.Title,
		Type:    &nodeType,
		Content: &step.Content,
		Cost:    &step.Cost,
		Date:    &step.Date,
		Weather: &weather,
	}
	if step.ImageKeyword != "" {
		image := ImageURL(o.imageBase, step.ImageKeyword)
		patch.Image = &image
	}
	return patch
}

func (o *Orchestrator) nodeFromStep(step tripStep, x, y float64) domain.Node {
	return domain.Node{
		X:       x,
		Y:       y,
		Type:    domain.NormalizeType(step.Type),
		Title:   step.Title,
		Content: step.Content,
		Date:    step.Date,
		Cost:    step.Cost,
		Weather: rand.Intn(len(domain.WeatherIcons)),
		Image:   ImageURL(o.imageBase, step.ImageKeyword),
	}
}

func jitter() float64 {
	return (rand.Float64()*2 - 1) * placementJitter
}
