package movesource

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
)

var errServiceDown = errors.New("service down")

type mockCompleter struct {
	mock.Mock
}

func (that *mockCompleter) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := that.Called(ctx, request)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func answer(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

// fixedSource always returns the same move so fallbacks are observable.
type fixedSource struct {
	move  entity.Move
	calls int
}

func (that *fixedSource) Decide(_ context.Context, req Request) (entity.Move, bool) {
	that.calls++
	if len(req.Legal) == 0 {
		return entity.Move{}, false
	}
	return that.move, true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRequest() Request {
	return Request{
		Board:  [][]int{{1, 0}, {0, 2}},
		Player: 1,
		Model:  "LLaMA",
		Legal:  []entity.Move{{Row: 0, Col: 1}, {Row: 1, Col: 0}},
		Hint:   "take the corner",
	}
}

func TestHumanInput_Decide(t *testing.T) {
	t.Run("Returns the entered move", func(t *testing.T) {
		source := HumanInput{Move: entity.Move{Row: 5, Col: 5}}

		move, ok := source.Decide(context.Background(), testRequest())

		require.True(t, ok)
		assert.Equal(t, entity.Move{Row: 5, Col: 5}, move)
	})

	t.Run("No move without legal moves", func(t *testing.T) {
		source := HumanInput{Move: entity.Move{Row: 0, Col: 0}}

		_, ok := source.Decide(context.Background(), Request{})

		assert.False(t, ok)
	})
}

func TestRandom_Decide(t *testing.T) {
	t.Run("Always picks a legal move", func(t *testing.T) {
		source := NewRandom(42)
		req := testRequest()

		for i := 0; i < 50; i++ {
			move, ok := source.Decide(context.Background(), req)

			require.True(t, ok)
			assert.Contains(t, req.Legal, move)
		}
	})

	t.Run("Same seed gives the same sequence", func(t *testing.T) {
		first, second := NewRandom(7), NewRandom(7)
		req := testRequest()

		for i := 0; i < 10; i++ {
			a, _ := first.Decide(context.Background(), req)
			b, _ := second.Decide(context.Background(), req)
			assert.Equal(t, a, b)
		}
	})

	t.Run("No move without legal moves", func(t *testing.T) {
		_, ok := NewRandom(1).Decide(context.Background(), Request{})

		assert.False(t, ok)
	})
}

func TestRemoteTextModel_Decide(t *testing.T) {
	fallbackMove := entity.Move{Row: 1, Col: 0}

	t.Run("Uses the move from the answer", func(t *testing.T) {
		// Given: a model answering with a legal move
		client := &mockCompleter{}
		client.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
			return req.Model == "backend-id" && req.MaxTokens == maxTokens && len(req.Messages) == 1
		})).Return(answer("Hmm... (0, 1) looks good!"), nil).Once()

		fallback := &fixedSource{move: fallbackMove}
		source := NewRemoteTextModel(discardLogger(), client, "backend-id", time.Second, fallback)

		// When: asking for a move
		move, ok := source.Decide(context.Background(), testRequest())

		// Then: the parsed move is returned without falling back
		require.True(t, ok)
		assert.Equal(t, entity.Move{Row: 0, Col: 1}, move)
		assert.Zero(t, fallback.calls)
		client.AssertExpectations(t)
	})

	t.Run("Falls back when the service fails", func(t *testing.T) {
		client := &mockCompleter{}
		client.On("CreateChatCompletion", mock.Anything, mock.Anything).
			Return(openai.ChatCompletionResponse{}, errServiceDown).Once()

		fallback := &fixedSource{move: fallbackMove}
		source := NewRemoteTextModel(discardLogger(), client, "backend-id", time.Second, fallback)

		move, ok := source.Decide(context.Background(), testRequest())

		require.True(t, ok)
		assert.Equal(t, fallbackMove, move)
		assert.Equal(t, 1, fallback.calls)
	})

	t.Run("Falls back when the answer has no move", func(t *testing.T) {
		client := &mockCompleter{}
		client.On("CreateChatCompletion", mock.Anything, mock.Anything).
			Return(answer("I would rather not play."), nil).Once()

		fallback := &fixedSource{move: fallbackMove}
		source := NewRemoteTextModel(discardLogger(), client, "backend-id", time.Second, fallback)

		move, ok := source.Decide(context.Background(), testRequest())

		require.True(t, ok)
		assert.Equal(t, fallbackMove, move)
	})

	t.Run("Falls back when the answer is not legal", func(t *testing.T) {
		client := &mockCompleter{}
		client.On("CreateChatCompletion", mock.Anything, mock.Anything).
			Return(answer("(0, 0)"), nil).Once()

		fallback := &fixedSource{move: fallbackMove}
		source := NewRemoteTextModel(discardLogger(), client, "backend-id", time.Second, fallback)

		move, ok := source.Decide(context.Background(), testRequest())

		require.True(t, ok)
		assert.Equal(t, fallbackMove, move)
	})

	t.Run("Falls back when there are no choices", func(t *testing.T) {
		client := &mockCompleter{}
		client.On("CreateChatCompletion", mock.Anything, mock.Anything).
			Return(openai.ChatCompletionResponse{}, nil).Once()

		fallback := &fixedSource{move: fallbackMove}
		source := NewRemoteTextModel(discardLogger(), client, "backend-id", time.Second, fallback)

		move, ok := source.Decide(context.Background(), testRequest())

		require.True(t, ok)
		assert.Equal(t, fallbackMove, move)
	})

	t.Run("No call without legal moves", func(t *testing.T) {
		client := &mockCompleter{}
		fallback := &fixedSource{move: fallbackMove}
		source := NewRemoteTextModel(discardLogger(), client, "backend-id", time.Second, fallback)

		_, ok := source.Decide(context.Background(), Request{Board: [][]int{{1}}})

		assert.False(t, ok)
		client.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything)
		assert.Zero(t, fallback.calls)
	})
}

func TestRegistry_For(t *testing.T) {
	t.Run("Without API key every model plays random", func(t *testing.T) {
		random := NewRandom(1)
		registry := NewRegistry(discardLogger(), RemoteConfig{}, random)

		assert.Same(t, random, registry.For("LLaMA"))
		assert.Same(t, random, registry.For("AI"))
	})

	t.Run("With API key known models go remote", func(t *testing.T) {
		random := NewRandom(1)
		registry := NewRegistry(discardLogger(), RemoteConfig{APIKey: "key", BaseURL: "http://localhost"}, random)

		assert.IsType(t, &RemoteTextModel{}, registry.For("Mistral"))
		assert.Same(t, random, registry.For("AI"))
	})
}

func TestExtractMove(t *testing.T) {
	tests := []struct {
		text string
		move entity.Move
		ok   bool
	}{
		{text: "(2, 3)", move: entity.Move{Row: 2, Col: 3}, ok: true},
		{text: "I pick (4,5) then (1, 1)", move: entity.Move{Row: 4, Col: 5}, ok: true},
		{text: "(10,   0)", move: entity.Move{Row: 10, Col: 0}, ok: true},
		{text: "row 2 col 3", ok: false},
		{text: "(-1, 2)", ok: false},
	}

	for _, tt := range tests {
		move, ok := ExtractMove(tt.text)

		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.move, move, tt.text)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(testRequest())

	assert.Contains(t, prompt, "2x2 Hexagonal Grid Territory Game")
	assert.Contains(t, prompt, "You are playing as LLaMA, identified as Player 1")
	assert.Contains(t, prompt, "Your legal move options are: [(0, 1), (1, 0)]")
	assert.Contains(t, prompt, "The user suggests: take the corner")
	assert.Contains(t, prompt, "1 0\n0 2")
}
