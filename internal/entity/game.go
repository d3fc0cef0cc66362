package entity

import (
	"errors"
	"fmt"
)

const (
	EmptyCell    = 0
	ScorePerMove = 5

	MinPlayers = 2
	MaxPlayers = 4
)

const (
	ModeManual   Mode = "manual"
	ModeUserVsAI Mode = "user_vs_ai"
	ModeAIVsAI   Mode = "ai_vs_ai"
)

// DefaultAILabel names an AI seat that was not given a model.
const DefaultAILabel = "AI"

var (
	ErrInvalidPlayerCount = errors.New("invalid player count")

	// GridSizes maps a player count to the side of the square board.
	GridSizes = map[int]int{
		2: 6,
		3: 6,
		4: 8,
	}

	// ModelNames is the fixed set of selectable AI model identifiers.
	ModelNames = []string{"LLaMA", "Mistral", "DeepSeek"}
)

type Mode string

type Game struct {
	ID            string      `json:"id"`
	Mode          Mode        `json:"mode"`
	Board         [][]int     `json:"board"`
	Turn          int         `json:"turn"`
	CurrentPlayer int         `json:"current_player"`
	PlayerCount   int         `json:"player_count"`
	GridSize      int         `json:"grid_size"`
	ScoreLog      map[int]int `json:"score_log"`
	AIPlayers     []string    `json:"ai_players,omitempty"`
	Explanation   string      `json:"explanation,omitempty"`
}

// NewGame returns a fresh game with an empty board and zeroed scores.
func NewGame(id string, mode Mode, playerCount int, aiPlayers []string) (*Game, error) {
	gridSize, ok := GridSizes[playerCount]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayerCount, playerCount)
	}

	board := make([][]int, gridSize)
	for r := range board {
		board[r] = make([]int, gridSize)
	}

	scoreLog := make(map[int]int, playerCount)
	for pid := 1; pid <= playerCount; pid++ {
		scoreLog[pid] = 0
	}

	return &Game{
		ID:            id,
		Mode:          mode,
		Board:         board,
		Turn:          1,
		CurrentPlayer: 1,
		PlayerCount:   playerCount,
		GridSize:      gridSize,
		ScoreLog:      scoreLog,
		AIPlayers:     append([]string(nil), aiPlayers...),
	}, nil
}

func (that *Game) IsValidMove(row, col int) bool {
	return row >= 0 && row < that.GridSize &&
		col >= 0 && col < that.GridSize &&
		that.Board[row][col] == EmptyCell
}

// ApplyMove places playerID on an empty in-bounds cell and credits the flat
// per-move score. Position never affects the score.
func (that *Game) ApplyMove(row, col, playerID int) bool {
	if !that.IsValidMove(row, col) {
		return false
	}

	that.Board[row][col] = playerID
	that.ScoreLog[playerID] += ScorePerMove

	return true
}

// LegalMoves lists the empty cells in row-major order.
func (that *Game) LegalMoves() []Move {
	moves := make([]Move, 0, that.GridSize*that.GridSize)
	for r := 0; r < that.GridSize; r++ {
		for c := 0; c < that.GridSize; c++ {
			if that.Board[r][c] == EmptyCell {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}

	return moves
}

// NextPlayer rotates the seat and counts a turn, whether or not a piece was placed.
func (that *Game) NextPlayer() {
	that.CurrentPlayer = that.CurrentPlayer%that.PlayerCount + 1
	that.Turn++
}

func (that *Game) GameOver() bool {
	for _, row := range that.Board {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

// Scores returns a copy of the score ledger.
func (that *Game) Scores() map[int]int {
	scores := make(map[int]int, len(that.ScoreLog))
	for pid, score := range that.ScoreLog {
		scores[pid] = score
	}

	return scores
}

// Winner returns the highest scoring player once the board is full, the
// lowest id on a tie, and 0 while the game is still running.
func (that *Game) Winner() int {
	if !that.GameOver() {
		return 0
	}

	winner, best := 0, -1
	for pid := 1; pid <= that.PlayerCount; pid++ {
		if score := that.ScoreLog[pid]; score > best {
			winner, best = pid, score
		}
	}

	return winner
}

// SeatModel reports whether a seat is AI-driven and which model plays it.
func (that *Game) SeatModel(playerID int) (string, bool) {
	var idx int

	switch that.Mode {
	case ModeUserVsAI:
		if playerID == 1 {
			return "", false
		}
		idx = playerID - 2
	case ModeAIVsAI:
		idx = playerID - 1
	default:
		return "", false
	}

	if idx >= 0 && idx < len(that.AIPlayers) {
		return that.AIPlayers[idx], true
	}

	return DefaultAILabel, true
}

func (that *Game) IsAITurn() bool {
	_, isAI := that.SeatModel(that.CurrentPlayer)
	return isAI
}

// Labels returns the display label of every seat.
func (that *Game) Labels() map[int]string {
	labels := make(map[int]string, that.PlayerCount)
	for pid := 1; pid <= that.PlayerCount; pid++ {
		model, isAI := that.SeatModel(pid)

		switch {
		case isAI:
			labels[pid] = fmt.Sprintf("%s (P%d)", model, pid)
		case that.Mode == ModeUserVsAI:
			labels[pid] = fmt.Sprintf("You (P%d)", pid)
		default:
			labels[pid] = fmt.Sprintf("Player %d (P%d)", pid, pid)
		}
	}

	return labels
}

// Snapshot returns a deep copy of the board.
func (that *Game) Snapshot() [][]int {
	board := make([][]int, len(that.Board))
	for r, row := range that.Board {
		board[r] = append([]int(nil), row...)
	}

	return board
}
