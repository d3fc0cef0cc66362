package movesource

import (
	"context"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
)

type Random struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{
		rnd: rand.New(rand.NewSource(seed)), //nolint: gosec // move choice, not crypto
	}
}

func (that *Random) Decide(_ context.Context, req Request) (entity.Move, bool) {
	if len(req.Legal) == 0 {
		return entity.Move{}, false
	}

	that.mu.Lock()
	idx := that.rnd.Intn(len(req.Legal))
	that.mu.Unlock()

	return req.Legal[idx], true
}
