package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
)

// MemoryStore keeps games and players in process memory. Values are stored
// as JSON so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	games   map[string][]byte
	players map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:   make(map[string][]byte),
		players: make(map[string][]byte),
	}
}

func (that *MemoryStore) Games() GameRepository {
	return &memGame{store: that}
}

func (that *MemoryStore) Players() PlayerRepository {
	return &memPlayer{store: that}
}

type memGame struct {
	store *MemoryStore
}

func (that *memGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	that.store.mu.Lock()
	defer that.store.mu.Unlock()
	that.store.games[game.ID] = gameJSON

	return nil
}

func (that *memGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.store.mu.RLock()
	gameJSON, ok := that.store.games[id]
	that.store.mu.RUnlock()

	if !ok {
		return nil, ErrGameNotFound
	}

	var existingGame entity.Game
	if err := json.Unmarshal(gameJSON, &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *memGame) DeleteByID(_ context.Context, id string) error {
	that.store.mu.Lock()
	defer that.store.mu.Unlock()

	if _, ok := that.store.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(that.store.games, id)

	return nil
}

type memPlayer struct {
	store *MemoryStore
}

func (that *memPlayer) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	that.store.mu.Lock()
	defer that.store.mu.Unlock()
	that.store.players[player.ID] = playerJSON

	return nil
}

func (that *memPlayer) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.store.mu.RLock()
	playerJSON, ok := that.store.players[id]
	that.store.mu.RUnlock()

	if !ok {
		return nil, ErrPlayerNotFound
	}

	var existingPlayer entity.Player
	if err := json.Unmarshal(playerJSON, &existingPlayer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &existingPlayer, nil
}
