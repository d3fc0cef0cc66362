package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/hexbots-backend/internal/apperror"
	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
	"github.com/rocketscienceinc/hexbots-backend/internal/hexbots"
	"github.com/rocketscienceinc/hexbots-backend/internal/movesource"
	"github.com/rocketscienceinc/hexbots-backend/internal/repository"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type moveSources interface {
	For(model string) movesource.MoveSource
}

// StepFunc receives the game after every AI turn of an autoplay run. Returning
// an error stops the run.
type StepFunc func(game *entity.Game) error

type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo
	sources    moveSources

	autoPlayDelay time.Duration
}

func NewGameManager(
	logger *slog.Logger,
	playerRepo playerRepo,
	gameRepo gameRepo,
	sources moveSources,
	autoPlayDelay time.Duration,
) *GameManager {
	return &GameManager{
		logger: logger,

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		sources:    sources,

		autoPlayDelay: autoPlayDelay,
	}
}

// GetOrCreatePlayer returns the session for id. An empty or expired id gets a
// fresh session.
func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		return that.createPlayer(ctx)
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		that.logger.With("method", "GetOrCreatePlayer").Info("session expired, creating a new one", "player_id", id)
		return that.createPlayer(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// NewGame replaces the session's game with a fresh one built from settings.
func (that *GameManager) NewGame(ctx context.Context, playerID string, settings hexbots.Settings) (*entity.Game, error) {
	log := that.logger.With("method", "NewGame")

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	game, err := hexbots.NewGame(uuid.NewString(), settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if player.HasGame() {
		that.deleteGame(ctx, player.GameID)
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	player.GameID = game.ID
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	log.Info("game created",
		"game_id", game.ID, "mode", game.Mode, "players", game.PlayerCount, "ai_players", game.AIPlayers)

	return game, nil
}

func (that *GameManager) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return that.getActiveGame(ctx, player)
}

// MakeMove plays the human seat. In User vs AI the AI seats answer straight
// away until the human is to move again or the board is full. A rejected move
// is returned with the unchanged game so the same seat can retry.
func (that *GameManager) MakeMove(ctx context.Context, playerID string, move entity.Move) (*entity.Game, error) {
	log := that.logger.With("method", "MakeMove")

	game, err := that.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	input := movesource.HumanInput{Move: move}
	chosen, ok := input.Decide(ctx, that.request(game, "", ""))
	if !ok {
		return game, apperror.ErrGameOver
	}

	if err = hexbots.MakeTurn(game, chosen); err != nil {
		log.Debug("move rejected", "game_id", game.ID, "move", chosen.String(), "error", err)
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.Mode == entity.ModeUserVsAI {
		for !game.GameOver() && game.IsAITurn() {
			that.playAITurn(ctx, game, "")
		}
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// StepAI plays exactly one AI turn.
func (that *GameManager) StepAI(ctx context.Context, playerID, hint string) (*entity.Game, error) {
	game, err := that.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err = checkAITurn(game); err != nil {
		return game, err
	}

	that.playAITurn(ctx, game, hint)

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// AutoPlay keeps playing AI turns until the board is full or a human seat is
// to move. Every step is stored and handed to onStep; consecutive steps are
// spaced by the configured delay. Cancelling ctx stops the run after the
// current step.
func (that *GameManager) AutoPlay(ctx context.Context, playerID, hint string, onStep StepFunc) (*entity.Game, error) {
	log := that.logger.With("method", "AutoPlay")

	game, err := that.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err = checkAITurn(game); err != nil {
		return game, err
	}

	for {
		if err = ctx.Err(); err != nil {
			log.Info("autoplay stopped", "game_id", game.ID, "turn", game.Turn)
			return game, err
		}

		that.playAITurn(ctx, game, hint)

		if err = that.updateGame(ctx, game); err != nil {
			return nil, err
		}

		if onStep != nil {
			if err = onStep(game); err != nil {
				return game, fmt.Errorf("failed to report step: %w", err)
			}
		}

		if game.GameOver() || !game.IsAITurn() {
			return game, nil
		}

		sleep(ctx, that.autoPlayDelay)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// EndGame drops the session's game and unlinks it from the session.
func (that *GameManager) EndGame(ctx context.Context, playerID string) error {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return err
	}

	if !player.HasGame() {
		return apperror.ErrNoActiveGame
	}

	that.deleteGame(ctx, player.GameID)

	player.GameID = ""
	if err = that.updatePlayer(ctx, player); err != nil {
		return err
	}

	return nil
}

// playAITurn asks the seat's move source for a move and applies it. The seat
// passes when nothing acceptable comes back.
func (that *GameManager) playAITurn(ctx context.Context, game *entity.Game, hint string) {
	log := that.logger.With("method", "playAITurn")

	seat := game.CurrentPlayer
	model, _ := game.SeatModel(seat)

	move, decided := that.sources.For(model).Decide(ctx, that.request(game, model, hint))
	if placed := hexbots.MakeAITurn(game, model, move, decided); !placed {
		log.Info("AI seat passed", "game_id", game.ID, "seat", seat, "model", model)
		return
	}

	log.Debug("AI move applied", "game_id", game.ID, "seat", seat, "model", model, "move", move.String())
}

func (that *GameManager) request(game *entity.Game, model, hint string) movesource.Request {
	return movesource.Request{
		Board:  game.Snapshot(),
		Player: game.CurrentPlayer,
		Model:  model,
		Legal:  game.LegalMoves(),
		Hint:   hint,
	}
}

func checkAITurn(game *entity.Game) error {
	if game.GameOver() {
		return apperror.ErrGameOver
	}

	if !game.IsAITurn() {
		return apperror.ErrNotAITurn
	}

	return nil
}

// getActiveGame loads the session's game. A game that expired from storage
// unlinks itself from the session.
func (that *GameManager) getActiveGame(ctx context.Context, player *entity.Player) (*entity.Game, error) {
	if !player.HasGame() {
		return nil, apperror.ErrNoActiveGame
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		player.GameID = ""
		if err = that.updatePlayer(ctx, player); err != nil {
			return nil, err
		}

		return nil, apperror.ErrNoActiveGame
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *GameManager) deleteGame(ctx context.Context, gameID string) {
	log := that.logger.With("method", "deleteGame")

	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		log.Error("failed to delete game", "game_id", gameID, "error", err)
		return
	}

	log.Info("game deleted", "game_id", gameID)
}

func (that *GameManager) createPlayer(ctx context.Context) (*entity.Player, error) {
	player := &entity.Player{
		ID: uuid.NewString(),
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}
