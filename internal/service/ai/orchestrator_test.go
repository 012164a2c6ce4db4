package ai

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/repository/mocks"
	"tripboard-backend/internal/store"
	"tripboard-backend/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

// stubProvider returns a scripted response. When gate is set, Complete
// blocks until the gate closes, which lets tests delete nodes mid-flight.
type stubProvider struct {
	mu           sync.Mutex
	response     string
	err          error
	unconfigured bool
	gate         chan struct{}
	prompts      []string
}

func (s *stubProvider) IsConfigured() bool { return !s.unconfigured }

func (s *stubProvider) Complete(_ context.Context, req CompletionRequest) (string, error) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, req.Prompt)
	return s.response, s.err
}

func (s *stubProvider) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

func newTestOrchestrator(t *testing.T, provider Provider) (*Orchestrator, *store.GraphStore) {
	t.Helper()
	s := store.New(mocks.NewMockRepository(), zap.NewNop(), observability.NewNopMetrics(), time.Hour)
	return NewOrchestrator(s, provider, zap.NewNop(), observability.NewNopMetrics(), "https://img.example.com/prompt"), s
}

const expandResponse = `{"steps": [
	{"title": "Kyoto", "type": "location", "content": "Temples first.", "cost": "¥12000", "date": "2026-04-02", "image_keyword": "kyoto temple"},
	{"title": "Train to Osaka", "type": "transport", "content": "30 minutes.", "cost": "¥1500", "date": "2026-04-03", "image_keyword": "shinkansen"},
	{"title": "Osaka", "type": "spaceship", "content": "Street food.", "cost": "¥8000", "date": "2026-04-03", "image_keyword": ""}
]}`

func TestExpandNode(t *testing.T) {
	t.Run("RewritesSourceAndChainsSteps", func(t *testing.T) {
		provider := &stubProvider{response: expandResponse}
		o, s := newTestOrchestrator(t, provider)
		src := s.AddNode(domain.Node{X: 100, Y: 200, Title: "Japan", Content: "A week in Kansai"})

		require.True(t, o.ExpandNode(src.ID))
		o.Wait()

		got, ok := s.GetNode(src.ID)
		require.True(t, ok)
		assert.Equal(t, "Kyoto", got.Title)
		assert.Equal(t, domain.TypeLocation, got.Type)
		assert.Equal(t, "¥12000", got.Cost)
		assert.Equal(t, "2026-04-02", got.Date)
		assert.Equal(t, 100.0, got.X) // position survives the rewrite
		assert.Contains(t, got.Image, "kyoto%20temple")
		assert.GreaterOrEqual(t, got.Weather, 0)
		assert.Less(t, got.Weather, len(domain.WeatherIcons))

		assert.Equal(t, 3, s.NodeCount())
		assert.Equal(t, 2, s.ConnectionCount())

		// subsequent steps march right at a fixed spacing
		snapshot := s.Snapshot()
		for _, n := range snapshot.Nodes {
			switch n.Title {
			case "Train to Osaka":
				assert.Equal(t, 100.0+stepSpacingX, n.X)
				assert.InDelta(t, 200, n.Y, placementJitter)
			case "Osaka":
				assert.Equal(t, 100.0+2*stepSpacingX, n.X)
				assert.Equal(t, domain.TypeNote, n.Type) // unknown type degrades
				assert.Empty(t, n.Image)                 // no keyword, no image
			}
		}
	})

	t.Run("NoContentRefused", func(t *testing.T) {
		o, s := newTestOrchestrator(t, &stubProvider{response: expandResponse})
		src := s.AddNode(domain.Node{Title: "Japan", Content: "   "})
		assert.False(t, o.ExpandNode(src.ID))
	})

	t.Run("UnknownNodeRefused", func(t *testing.T) {
		o, _ := newTestOrchestrator(t, &stubProvider{response: expandResponse})
		assert.False(t, o.ExpandNode("missing"))
	})

	t.Run("NetworkFailureLeavesNodeUnchanged", func(t *testing.T) {
		provider := &stubProvider{err: context.DeadlineExceeded}
		o, s := newTestOrchestrator(t, provider)
		src := s.AddNode(domain.Node{Title: "Japan", Content: "A week in Kansai", Cost: "¥1000"})

		require.True(t, o.ExpandNode(src.ID))
		o.Wait()

		got, _ := s.GetNode(src.ID)
		assert.Equal(t, "Japan", got.Title)
		assert.Equal(t, "¥1000", got.Cost)
		assert.Equal(t, 1, s.NodeCount())
		assert.False(t, o.IsPending(src.ID))
	})

	t.Run("GarbageResponseIsSilentNoOp", func(t *testing.T) {
		provider := &stubProvider{response: "Sure! Here is an itinerary for you..."}
		o, s := newTestOrchestrator(t, provider)
		src := s.AddNode(domain.Node{Title: "Japan", Content: "A week in Kansai"})

		require.True(t, o.ExpandNode(src.ID))
		o.Wait()

		got, _ := s.GetNode(src.ID)
		assert.Equal(t, "Japan", got.Title)
		assert.Equal(t, 1, s.NodeCount())
		assert.Equal(t, 0, s.ConnectionCount())
	})

	t.Run("ProseAroundJSONStillParses", func(t *testing.T) {
		provider := &stubProvider{response: "Here you go:\n" + expandResponse + "\nEnjoy the trip!"}
		o, s := newTestOrchestrator(t, provider)
		src := s.AddNode(domain.Node{Title: "Japan", Content: "A week in Kansai"})

		require.True(t, o.ExpandNode(src.ID))
		o.Wait()
		assert.Equal(t, 3, s.NodeCount())
	})

	t.Run("SourceDeletedMidFlightDiscardsResult", func(t *testing.T) {
		gate := make(chan struct{})
		provider := &stubProvider{response: expandResponse, gate: gate}
		o, s := newTestOrchestrator(t, provider)
		src := s.AddNode(domain.Node{Title: "Japan", Content: "A week in Kansai"})

		require.True(t, o.ExpandNode(src.ID))
		assert.True(t, o.IsPending(src.ID))

		s.DeleteNode(src.ID)
		close(gate)
		o.Wait()

		assert.Equal(t, 0, s.NodeCount())
		assert.Equal(t, 0, s.ConnectionCount())
		assert.False(t, o.IsPending(src.ID))
	})

	t.Run("DuplicateRequestRefusedWhilePending", func(t *testing.T) {
		gate := make(chan struct{})
		provider := &stubProvider{response: expandResponse, gate: gate}
		o, s := newTestOrchestrator(t, provider)
		src := s.AddNode(domain.Node{Title: "Japan", Content: "A week in Kansai"})

		require.True(t, o.ExpandNode(src.ID))
		assert.False(t, o.ExpandNode(src.ID))
		close(gate)
		o.Wait()
	})
}

func TestSuggestNextStop(t *testing.T) {
	suggestion := `{"title": "Nara", "type": "location", "content": "Deer park day trip.", "cost": "¥3000", "image_keyword": "nara deer"}`

	t.Run("PlaceholderCreatedImmediately", func(t *testing.T) {
		gate := make(chan struct{})
		provider := &stubProvider{response: suggestion, gate: gate}
		o, s := newTestOrchestrator(t, provider)
		src := s.AddNode(domain.Node{X: 10, Y: 20, Title: "Osaka", Type: domain.TypeLocation})

		placeholder, ok := o.SuggestNextStop(src.ID)
		require.True(t, ok)
		assert.Equal(t, placeholderTitle, placeholder.Title)
		assert.Equal(t, 10.0+stepSpacingX, placeholder.X)
		assert.True(t, o.IsPending(placeholder.ID))
		assert.Equal(t, 2, s.NodeCount())
		assert.Equal(t, 1, s.ConnectionCount())

		close(gate)
		o.Wait()

		got, _ := s.GetNode(placeholder.ID)
		assert.Equal(t, "Nara", got.Title)
		assert.Equal(t, domain.TypeLocation, got.Type)
		assert.Contains(t, got.Image, "nara%20deer")
		assert.False(t, o.IsPending(placeholder.ID))

		// filled in place, never a second node
		assert.Equal(t, 2, s.NodeCount())
	})

	t.Run("FailureRewritesPlaceholderInPlace", func(t *testing.T) {
		provider := &stubProvider{err: context.DeadlineExceeded}
		o, s := newTestOrchestrator(t, provider)
		src := s.AddNode(domain.Node{Title: "Osaka", Type: domain.TypeStay})

		placeholder, ok := o.SuggestNextStop(src.ID)
		require.True(t, ok)
		o.Wait()

		got, _ := s.GetNode(placeholder.ID)
		assert.Equal(t, suggestionFailedTitle, got.Title)
		assert.Equal(t, suggestionFailedContent, got.Content)
		assert.Equal(t, 2, s.NodeCount())
	})

	t.Run("PlaceholderDeletedMidFlightStaysDeleted", func(t *testing.T) {
		gate := make(chan struct{})
		provider := &stubProvider{response: suggestion, gate: gate}
		o, s := newTestOrchestrator(t, provider)
		src := s.AddNode(domain.Node{Title: "Osaka", Type: domain.TypeLocation})

		placeholder, ok := o.SuggestNextStop(src.ID)
		require.True(t, ok)

		s.DeleteNode(placeholder.ID)
		close(gate)
		o.Wait()

		_, alive := s.GetNode(placeholder.ID)
		assert.False(t, alive)
		assert.Equal(t, 1, s.NodeCount())
	})

	t.Run("UnknownSourceRefused", func(t *testing.T) {
		o, _ := newTestOrchestrator(t, &stubProvider{response: suggestion})
		_, ok := o.SuggestNextStop("missing")
		assert.False(t, ok)
	})

	t.Run("OnlyLocationAndStayAnchorSuggestions", func(t *testing.T) {
		o, s := newTestOrchestrator(t, &stubProvider{response: suggestion})
		note := s.AddNode(domain.Node{Title: "Packing list", Type: domain.TypeNote})
		transport := s.AddNode(domain.Node{Title: "Train", Type: domain.TypeTransport})

		_, ok := o.SuggestNextStop(note.ID)
		assert.False(t, ok)
		_, ok = o.SuggestNextStop(transport.ID)
		assert.False(t, ok)
		assert.Equal(t, 2, s.NodeCount())
	})
}

func TestAnalyzeTrip(t *testing.T) {
	t.Run("UnconfiguredReturnsSetupMessageWithoutCalling", func(t *testing.T) {
		provider := &stubProvider{unconfigured: true}
		o, s := newTestOrchestrator(t, provider)
		s.AddNode(domain.Node{Title: "Kyoto"})

		msg := o.AnalyzeTrip(context.Background())
		assert.Equal(t, analysisUnconfigured, msg)
		assert.Empty(t, provider.prompts)
	})

	t.Run("EmptyBoardShortCircuits", func(t *testing.T) {
		provider := &stubProvider{response: "advice"}
		o, _ := newTestOrchestrator(t, provider)
		assert.Equal(t, analysisEmptyBoard, o.AnalyzeTrip(context.Background()))
	})

	t.Run("SummaryLinesFollowBoardOrder", func(t *testing.T) {
		provider := &stubProvider{response: "1. Pace yourself.\n2. Budget slack.\n3. Book early."}
		o, s := newTestOrchestrator(t, provider)
		s.AddNode(domain.Node{Title: "Kyoto", Date: "2026-04-02", Cost: "¥12000"})
		s.AddNode(domain.Node{Title: "Osaka", Date: "2026-04-03", Cost: "¥8000"})

		msg := o.AnalyzeTrip(context.Background())
		assert.Equal(t, "1. Pace yourself.\n2. Budget slack.\n3. Book early.", msg)

		prompt := provider.lastPrompt()
		first := strings.Index(prompt, "2026-04-02: Kyoto (¥12000)")
		second := strings.Index(prompt, "2026-04-03: Osaka (¥8000)")
		require.GreaterOrEqual(t, first, 0)
		require.GreaterOrEqual(t, second, 0)
		assert.Less(t, first, second)
	})

	t.Run("TransportFailureReturnsGenericMessage", func(t *testing.T) {
		provider := &stubProvider{err: context.DeadlineExceeded}
		o, s := newTestOrchestrator(t, provider)
		s.AddNode(domain.Node{Title: "Kyoto"})

		assert.Equal(t, analysisFailed, o.AnalyzeTrip(context.Background()))
	})
}

func TestExpandPromptAllowsSingleStep(t *testing.T) {
	prompt := buildExpandPrompt("Kyoto")
	assert.Contains(t, prompt, "1 to 6 steps")
	assert.Contains(t, prompt, "a single place yields one step")
	assert.NotContains(t, prompt, "3 to 6")
}

func TestMockProviderShapes(t *testing.T) {
	m := NewMockProvider()

	text, err := m.Complete(context.Background(), CompletionRequest{Prompt: buildExpandPrompt("Kansai")})
	require.NoError(t, err)
	var payload expandPayload
	require.True(t, DecodeLenient(text, &payload))
	assert.NotEmpty(t, payload.Steps)

	text, err = m.Complete(context.Background(), CompletionRequest{Prompt: buildSuggestPrompt("Osaka", "food")})
	require.NoError(t, err)
	var step tripStep
	require.True(t, DecodeLenient(text, &step))
	assert.NotEmpty(t, step.Title)
}
