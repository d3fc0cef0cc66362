package movesource

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
)

var moveTuple = regexp.MustCompile(`\((\d+),\s*(\d+)\)`)

// FormatBoard writes one line per row with space separated cell owners.
func FormatBoard(board [][]int) string {
	rows := make([]string, len(board))
	for r, row := range board {
		cells := make([]string, len(row))
		for c, cell := range row {
			cells[c] = strconv.Itoa(cell)
		}
		rows[r] = strings.Join(cells, " ")
	}

	return strings.Join(rows, "\n")
}

func BuildPrompt(req Request) string {
	size := len(req.Board)

	var hint string
	if req.Hint != "" {
		hint = "The user suggests: " + req.Hint
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "You are an intelligent AI agent playing a %dx%d Hexagonal Grid Territory Game.\n\n", size, size)
	sb.WriteString("Objective: Dominate the grid by choosing and conquering empty cells (0). ")
	sb.WriteString("Your goal is to expand your territory and outperform other players.\n\n")
	sb.WriteString("Game Details:\n")
	fmt.Fprintf(&sb, "- The board is a %dx%d grid of hexagonal tiles.\n", size, size)
	sb.WriteString("- Each tile contains a number:\n")
	sb.WriteString("    - 0 -> unoccupied\n")
	sb.WriteString("    - 1-4 -> tiles owned by Player 1 to Player 4\n")
	fmt.Fprintf(&sb, "- You are playing as %s, identified as Player %d\n", req.Model, req.Player)
	fmt.Fprintf(&sb, "- Your legal move options are: %s\n", entity.FormatMoves(req.Legal))
	fmt.Fprintf(&sb, "- %s\n", hint)
	sb.WriteString("- Choose one move from this list to expand your territory.\n\n")
	sb.WriteString("What to Do:\n")
	sb.WriteString("1. Think aloud or express thoughts (\"Hmm... looks like (2,3) is a smart move!\")\n")
	sb.WriteString("2. Then return your move as a single tuple only, like: (row, col)\n\n")
	sb.WriteString("Current Board:\n")
	sb.WriteString(FormatBoard(req.Board))
	sb.WriteString("\n\nReturn your final move below, formatted like: (row, col)\n")

	return sb.String()
}

// ExtractMove finds the first "(row, col)" pair in text.
func ExtractMove(text string) (entity.Move, bool) {
	match := moveTuple.FindStringSubmatch(text)
	if match == nil {
		return entity.Move{}, false
	}

	row, err := strconv.Atoi(match[1])
	if err != nil {
		return entity.Move{}, false
	}

	col, err := strconv.Atoi(match[2])
	if err != nil {
		return entity.Move{}, false
	}

	return entity.Move{Row: row, Col: col}, true
}
