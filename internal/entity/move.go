package entity

import (
	"fmt"
	"strings"
)

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

// ContainsMove reports whether move is one of moves.
func ContainsMove(moves []Move, move Move) bool {
	for _, m := range moves {
		if m == move {
			return true
		}
	}

	return false
}

// FormatMoves renders moves as "[(0, 0), (0, 1)]".
func FormatMoves(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
