package hexbots

import (
	"testing"

	"github.com/rocketscienceinc/hexbots-backend/internal/apperror"
	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	t.Run("Manual game ignores models", func(t *testing.T) {
		// When: a manual game is created
		game, err := NewGame("123", Settings{Mode: entity.ModeManual, PlayerCount: 4})

		// Then: it has an 8x8 board and no AI seats
		require.NoError(t, err)
		assert.Equal(t, 8, game.GridSize)
		assert.Empty(t, game.AIPlayers)
		assert.False(t, game.IsAITurn())
	})

	t.Run("User vs AI defaults to the first models", func(t *testing.T) {
		game, err := NewGame("123", Settings{Mode: entity.ModeUserVsAI, PlayerCount: 3})

		require.NoError(t, err)
		assert.Equal(t, []string{"LLaMA", "Mistral"}, game.AIPlayers)
	})

	t.Run("AI vs AI pads models to every seat", func(t *testing.T) {
		game, err := NewGame("123", Settings{Mode: entity.ModeAIVsAI, PlayerCount: 3, AIPlayers: []string{"DeepSeek", "LLaMA"}})

		require.NoError(t, err)
		assert.Equal(t, []string{"DeepSeek", "LLaMA", "DeepSeek"}, game.AIPlayers)
	})

	t.Run("AI vs AI needs a model", func(t *testing.T) {
		_, err := NewGame("123", Settings{Mode: entity.ModeAIVsAI, PlayerCount: 2})

		require.ErrorIs(t, err, apperror.ErrNoAIModels)
	})

	t.Run("AI vs AI allows at most three players", func(t *testing.T) {
		_, err := NewGame("123", Settings{Mode: entity.ModeAIVsAI, PlayerCount: 4, AIPlayers: []string{"LLaMA"}})

		require.ErrorIs(t, err, apperror.ErrInvalidPlayer)
	})

	t.Run("Player count out of range", func(t *testing.T) {
		for _, count := range []int{0, 1, 5} {
			_, err := NewGame("123", Settings{Mode: entity.ModeManual, PlayerCount: count})

			require.ErrorIs(t, err, apperror.ErrInvalidPlayer)
		}
	})

	t.Run("Unknown model", func(t *testing.T) {
		_, err := NewGame("123", Settings{Mode: entity.ModeUserVsAI, PlayerCount: 2, AIPlayers: []string{"GPT"}})

		require.ErrorIs(t, err, apperror.ErrUnknownModel)
	})

	t.Run("Unknown mode", func(t *testing.T) {
		_, err := NewGame("123", Settings{Mode: "solo", PlayerCount: 2})

		require.ErrorIs(t, err, apperror.ErrUnknownMode)
	})
}

func TestMakeTurn(t *testing.T) {
	newManualGame := func(t *testing.T) *entity.Game {
		t.Helper()

		game, err := NewGame("123", Settings{Mode: entity.ModeManual, PlayerCount: 2})
		require.NoError(t, err)

		return game
	}

	t.Run("MakeTurn", func(t *testing.T) {
		// Given: a new game
		game := newManualGame(t)

		// When: player 1 makes a turn
		err := MakeTurn(game, entity.Move{Row: 2, Col: 3})

		// Then: the cell is taken and the seat moves on
		require.NoError(t, err)
		assert.Equal(t, 1, game.Board[2][3])
		assert.Equal(t, 5, game.ScoreLog[1])
		assert.Equal(t, 2, game.CurrentPlayer)
		assert.Equal(t, 2, game.Turn)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: a game where player 1 already took (0,0)
		game := newManualGame(t)
		require.NoError(t, MakeTurn(game, entity.Move{Row: 0, Col: 0}))

		// When: player 2 tries the same cell
		err := MakeTurn(game, entity.Move{Row: 0, Col: 0})

		// Then: an error ErrCellOccupied must be returned and player 2 keeps the seat
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, 2, game.CurrentPlayer)
		assert.Equal(t, 2, game.Turn)
		assert.Equal(t, 0, game.ScoreLog[2])
	})

	t.Run("Invalid Cell", func(t *testing.T) {
		game := newManualGame(t)

		err := MakeTurn(game, entity.Move{Row: 6, Col: 0})

		require.ErrorIs(t, err, apperror.ErrInvalidCell)
		assert.Equal(t, 1, game.Turn)
	})

	t.Run("Move after the board is full", func(t *testing.T) {
		// Given: a full board
		game := newManualGame(t)
		for _, move := range game.LegalMoves() {
			require.True(t, game.ApplyMove(move.Row, move.Col, 1))
		}

		// When: a player tries to move
		err := MakeTurn(game, entity.Move{Row: 0, Col: 0})

		// Then: an error ErrGameOver should be returned
		require.ErrorIs(t, err, apperror.ErrGameOver)
	})

	t.Run("Human move on an AI seat", func(t *testing.T) {
		game, err := NewGame("123", Settings{Mode: entity.ModeAIVsAI, PlayerCount: 2, AIPlayers: []string{"LLaMA"}})
		require.NoError(t, err)

		err = MakeTurn(game, entity.Move{Row: 0, Col: 0})

		require.ErrorIs(t, err, apperror.ErrNotHumanTurn)
		assert.Equal(t, entity.EmptyCell, game.Board[0][0])
	})
}

func TestMakeAITurn(t *testing.T) {
	newAIGame := func(t *testing.T) *entity.Game {
		t.Helper()

		game, err := NewGame("123", Settings{Mode: entity.ModeAIVsAI, PlayerCount: 2, AIPlayers: []string{"LLaMA"}})
		require.NoError(t, err)

		return game
	}

	t.Run("Decided move is placed and explained", func(t *testing.T) {
		game := newAIGame(t)

		placed := MakeAITurn(game, "LLaMA", entity.Move{Row: 1, Col: 1}, true)

		require.True(t, placed)
		assert.Equal(t, 1, game.Board[1][1])
		assert.Equal(t, "LLaMA says: 'I'm choosing (1, 1) to gain territory.'", game.Explanation)
		assert.Equal(t, 2, game.CurrentPlayer)
	})

	t.Run("Rejected move passes the seat", func(t *testing.T) {
		// Given: (1,1) is already owned
		game := newAIGame(t)
		require.True(t, MakeAITurn(game, "LLaMA", entity.Move{Row: 1, Col: 1}, true))

		// When: the next AI seat picks the same cell
		placed := MakeAITurn(game, "LLaMA", entity.Move{Row: 1, Col: 1}, true)

		// Then: nothing is placed but the turn still advances
		require.False(t, placed)
		assert.Equal(t, 0, game.ScoreLog[2])
		assert.Equal(t, 1, game.CurrentPlayer)
		assert.Equal(t, 3, game.Turn)
	})

	t.Run("No decision passes the seat", func(t *testing.T) {
		game := newAIGame(t)

		placed := MakeAITurn(game, "LLaMA", entity.Move{}, false)

		require.False(t, placed)
		assert.Equal(t, entity.EmptyCell, game.Board[0][0])
		assert.Equal(t, 2, game.Turn)
	})
}
