package entity

// Analysis is the negamax verdict for a position.
type Analysis struct {
	Board string `json:"board"`
	Turn  string `json:"turn"`
	Depth int    `json:"depth"`
	// Score is the best achievable score for Turn, positive when Turn wins.
	Score int `json:"score"`
	// BestCells lists every cell reaching Score.
	BestCells []int `json:"best_cells"`
}

// Outcome names the result Score predicts for the side to move.
func (that *Analysis) Outcome() string {
	switch {
	case that.Score > 0:
		return "win"
	case that.Score < 0:
		return "loss"
	default:
		return "draw"
	}
}
