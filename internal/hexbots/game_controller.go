package hexbots

import (
	"fmt"

	"github.com/rocketscienceinc/hexbots-backend/internal/apperror"
	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
)

// Settings describes a new game as chosen in the setup screen.
type Settings struct {
	Mode        entity.Mode `json:"mode"`
	PlayerCount int         `json:"player_count"`
	AIPlayers   []string    `json:"ai_players,omitempty"`
}

// NewGame validates settings and builds a fresh game.
func NewGame(id string, settings Settings) (*entity.Game, error) {
	models, err := validateSettings(settings)
	if err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	game, err := entity.NewGame(id, settings.Mode, settings.PlayerCount, models)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return game, nil
}

// MakeTurn plays a human move. A rejected move leaves the seat unchanged so
// the same player retries.
func MakeTurn(game *entity.Game, move entity.Move) error {
	if game.GameOver() {
		return apperror.ErrGameOver
	}

	if game.IsAITurn() {
		return apperror.ErrNotHumanTurn
	}

	if err := validateMove(game, move); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	game.ApplyMove(move.Row, move.Col, game.CurrentPlayer)
	game.Explanation = ""
	game.NextPlayer()

	return nil
}

// MakeAITurn applies a move chosen by a move source and always hands the
// seat on. An AI seat without an acceptable move passes.
func MakeAITurn(game *entity.Game, model string, move entity.Move, decided bool) bool {
	placed := decided && game.ApplyMove(move.Row, move.Col, game.CurrentPlayer)
	if placed {
		game.Explanation = Explain(model, move)
	}

	game.NextPlayer()

	return placed
}

func Explain(model string, move entity.Move) string {
	return fmt.Sprintf("%s says: 'I'm choosing %s to gain territory.'", model, move)
}

// validateMove - checks if the move is valid.
func validateMove(game *entity.Game, move entity.Move) error {
	if move.Row < 0 || move.Row >= game.GridSize || move.Col < 0 || move.Col >= game.GridSize {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCell, move)
	}

	if !game.IsValidMove(move.Row, move.Col) {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, move)
	}

	return nil
}

// validateSettings checks the mode, player count and models and returns the
// model list the game should be built with.
func validateSettings(settings Settings) ([]string, error) {
	if settings.PlayerCount < entity.MinPlayers || settings.PlayerCount > entity.MaxPlayers {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidPlayer, settings.PlayerCount)
	}

	for _, model := range settings.AIPlayers {
		if !isKnownModel(model) {
			return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownModel, model)
		}
	}

	switch settings.Mode {
	case entity.ModeManual:
		return nil, nil
	case entity.ModeUserVsAI:
		if len(settings.AIPlayers) == 0 {
			return defaultModels(settings.PlayerCount - 1), nil
		}
		return settings.AIPlayers, nil
	case entity.ModeAIVsAI:
		if settings.PlayerCount > 3 {
			return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidPlayer, settings.PlayerCount)
		}
		if len(settings.AIPlayers) == 0 {
			return nil, apperror.ErrNoAIModels
		}
		return padModels(settings.AIPlayers, settings.PlayerCount), nil
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownMode, settings.Mode)
	}
}

func defaultModels(count int) []string {
	if count > len(entity.ModelNames) {
		count = len(entity.ModelNames)
	}

	return append([]string(nil), entity.ModelNames[:count]...)
}

// padModels repeats models until every seat has one.
func padModels(models []string, seats int) []string {
	if len(models) >= seats {
		return models
	}

	padded := make([]string, seats)
	for i := range padded {
		padded[i] = models[i%len(models)]
	}

	return padded
}

func isKnownModel(model string) bool {
	for _, name := range entity.ModelNames {
		if name == model {
			return true
		}
	}

	return false
}
