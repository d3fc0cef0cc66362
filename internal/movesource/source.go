// Package movesource supplies moves for a seat: direct human input, a uniform
// random pick, or a hosted text model with a random fallback.
package movesource

import (
	"context"

	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
)

// Request is the board snapshot handed to a move source.
type Request struct {
	Board  [][]int
	Player int
	Model  string
	Legal  []entity.Move
	Hint   string
}

// MoveSource picks the next move. It reports false only when Legal is empty.
type MoveSource interface {
	Decide(ctx context.Context, req Request) (entity.Move, bool)
}

// HumanInput returns the coordinate the user entered. The core rejects it if
// it is not legal.
type HumanInput struct {
	Move entity.Move
}

func (that HumanInput) Decide(_ context.Context, req Request) (entity.Move, bool) {
	if len(req.Legal) == 0 {
		return entity.Move{}, false
	}

	return that.Move, true
}
