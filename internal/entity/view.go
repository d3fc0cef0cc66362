package entity

// GameView is what a client needs to draw the board: the grid, the seat
// labels, and the scores to overlay.
type GameView struct {
	ID            string         `json:"id"`
	Mode          Mode           `json:"mode"`
	Board         [][]int        `json:"board"`
	GridSize      int            `json:"grid_size"`
	Turn          int            `json:"turn"`
	CurrentPlayer int            `json:"current_player"`
	Labels        map[int]string `json:"labels"`
	ShowScores    bool           `json:"show_scores"`
	Scores        map[int]int    `json:"scores"`
	GameOver      bool           `json:"game_over"`
	Winner        int            `json:"winner,omitempty"`
	Explanation   string         `json:"explanation,omitempty"`
}

func (that *Game) View() *GameView {
	return &GameView{
		ID:            that.ID,
		Mode:          that.Mode,
		Board:         that.Snapshot(),
		GridSize:      that.GridSize,
		Turn:          that.Turn,
		CurrentPlayer: that.CurrentPlayer,
		Labels:        that.Labels(),
		ShowScores:    true,
		Scores:        that.Scores(),
		GameOver:      that.GameOver(),
		Winner:        that.Winner(),
		Explanation:   that.Explanation,
	}
}
