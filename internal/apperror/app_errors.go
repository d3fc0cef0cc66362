package apperror

import "errors"

var (
	ErrGameOver      = errors.New("game is already over")
	ErrNotHumanTurn  = errors.New("current seat is played by AI")
	ErrNotAITurn     = errors.New("current seat is played by a human")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrInvalidCell   = errors.New("cell is out of the board")
	ErrNoActiveGame  = errors.New("no active game")
	ErrUnknownMode   = errors.New("unknown game mode")
	ErrUnknownModel  = errors.New("unknown AI model")
	ErrNoAIModels    = errors.New("select at least one AI model")
	ErrInvalidPlayer = errors.New("invalid player count for mode")
)
