package movesource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
)

const (
	temperature = 0.5
	maxTokens   = 60
)

var (
	ErrEmptyCompletion = errors.New("completion has no choices")
	ErrNoMoveInAnswer  = errors.New("no move found in answer")
	ErrIllegalAnswer   = errors.New("answer is not a legal move")
)

type completer interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// RemoteTextModel asks a hosted chat model for a move and falls back to the
// random source on any failure.
type RemoteTextModel struct {
	logger   *slog.Logger
	client   completer
	modelID  string
	timeout  time.Duration
	fallback MoveSource
}

func NewRemoteTextModel(logger *slog.Logger, client completer, modelID string, timeout time.Duration, fallback MoveSource) *RemoteTextModel {
	return &RemoteTextModel{
		logger:   logger,
		client:   client,
		modelID:  modelID,
		timeout:  timeout,
		fallback: fallback,
	}
}

func (that *RemoteTextModel) Decide(ctx context.Context, req Request) (entity.Move, bool) {
	if len(req.Legal) == 0 {
		return entity.Move{}, false
	}

	log := that.logger.With("method", "Decide", "model", req.Model, "player", req.Player)

	move, err := that.ask(ctx, req)
	if err != nil {
		log.Warn("remote model failed, falling back to random move", "error", err)
		return that.fallback.Decide(ctx, req)
	}

	return move, true
}

func (that *RemoteTextModel) ask(ctx context.Context, req Request) (entity.Move, error) {
	if that.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, that.timeout)
		defer cancel()
	}

	resp, err := that.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: that.modelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return entity.Move{}, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return entity.Move{}, ErrEmptyCompletion
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	that.logger.Debug("remote model answered", "model", req.Model, "answer", answer)

	move, ok := ExtractMove(answer)
	if !ok {
		return entity.Move{}, fmt.Errorf("%w: %q", ErrNoMoveInAnswer, answer)
	}

	if !entity.ContainsMove(req.Legal, move) {
		return entity.Move{}, fmt.Errorf("%w: %s", ErrIllegalAnswer, move)
	}

	return move, nil
}
