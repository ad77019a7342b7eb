package tictactoe

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-negamax/pkg/negamax"
)

const (
	Cross  = negamax.PlayerOne
	Nought = negamax.PlayerTwo
	Empty  = 0

	Size = 9
)

var (
	ErrInvalidMark  = errors.New("invalid mark")
	ErrInvalidBoard = errors.New("invalid board")

	// WinCombos are the eight lines of the board.
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}

	// transforms maps every cell to its image under the eight symmetries of the square.
	transforms = [8][Size]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8}, // identity
		{6, 3, 0, 7, 4, 1, 8, 5, 2}, // rotate 90
		{8, 7, 6, 5, 4, 3, 2, 1, 0}, // rotate 180
		{2, 5, 8, 1, 4, 7, 0, 3, 6}, // rotate 270
		{2, 1, 0, 5, 4, 3, 8, 7, 6}, // mirror vertical axis
		{6, 7, 8, 3, 4, 5, 0, 1, 2}, // mirror horizontal axis
		{0, 3, 6, 1, 4, 7, 2, 5, 8}, // main diagonal
		{8, 5, 2, 7, 4, 1, 6, 3, 0}, // anti diagonal
	}
)

// TicTacToe is a board of nine cells holding Cross, Nought or Empty.
type TicTacToe struct {
	Cells [Size]int
}

func (that TicTacToe) Win(player int) bool {
	for _, combo := range WinCombos {
		if that.Cells[combo[0]] == player && that.Cells[combo[1]] == player && that.Cells[combo[2]] == player {
			return true
		}
	}

	return false
}

// Value is +1 when Cross has a line, -1 when Nought has one and 0 otherwise.
func (that TicTacToe) Value() int {
	switch {
	case that.Win(Cross):
		return 1
	case that.Win(Nought):
		return -1
	default:
		return 0
	}
}

// Possibilities yields one board per empty cell, in cell order. A decided board has none.
func (that TicTacToe) Possibilities(player int) iter.Seq[TicTacToe] {
	return func(yield func(TicTacToe) bool) {
		if that.Win(Cross) || that.Win(Nought) {
			return
		}

		for i, cell := range that.Cells {
			if cell != Empty {
				continue
			}

			next := that
			next.Cells[i] = player

			if !yield(next) {
				return
			}
		}
	}
}

func (that TicTacToe) Swap() TicTacToe {
	var swapped TicTacToe
	for i, cell := range that.Cells {
		swapped.Cells[i] = -cell
	}

	return swapped
}

func (that TicTacToe) Symmetries() iter.Seq[TicTacToe] {
	return func(yield func(TicTacToe) bool) {
		seen := make(map[TicTacToe]struct{}, len(transforms))

		for _, transform := range transforms {
			var image TicTacToe
			for i, from := range transform {
				image.Cells[i] = that.Cells[from]
			}

			if _, ok := seen[image]; ok {
				continue
			}
			seen[image] = struct{}{}

			if !yield(image) {
				return
			}
		}
	}
}

// Turn returns whose move it is, assuming Cross always starts.
func (that TicTacToe) Turn() int {
	crosses, noughts := 0, 0
	for _, cell := range that.Cells {
		switch cell {
		case Cross:
			crosses++
		case Nought:
			noughts++
		}
	}

	if crosses > noughts {
		return Nought
	}

	return Cross
}

func (that TicTacToe) EmptyCells() int {
	n := 0
	for _, cell := range that.Cells {
		if cell == Empty {
			n++
		}
	}

	return n
}

func (that TicTacToe) IsOver() bool {
	return that.Win(Cross) || that.Win(Nought) || that.EmptyCells() == 0
}

// Board renders the cells with the entity marks.
func (that TicTacToe) Board() [Size]string {
	var board [Size]string
	for i, cell := range that.Cells {
		board[i] = MarkOf(cell)
	}

	return board
}

// String renders the board as three rows, "." for empty cells.
func (that TicTacToe) String() string {
	var sb strings.Builder
	for i, cell := range that.Cells {
		switch cell {
		case Cross:
			sb.WriteByte('X')
		case Nought:
			sb.WriteByte('O')
		default:
			sb.WriteByte('.')
		}

		if i%3 == 2 && i != Size-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// Key is a compact representation used for cache keys, e.g. "X.O......".
func (that TicTacToe) Key() string {
	return strings.ReplaceAll(that.String(), "\n", "")
}

// FromBoard builds a state from entity marks.
func FromBoard(board [Size]string) (TicTacToe, error) {
	var state TicTacToe
	for i, mark := range board {
		player, err := PlayerOf(mark)
		if err != nil {
			return TicTacToe{}, fmt.Errorf("%w: cell %d", err, i)
		}

		state.Cells[i] = player
	}

	return state, nil
}

// Parse reads a nine character board such as "x.o......". Rows may be separated by "/" or newlines.
func Parse(s string) (TicTacToe, error) {
	s = strings.NewReplacer("/", "", "\n", "", " ", "").Replace(s)
	if len(s) != Size {
		return TicTacToe{}, fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidBoard, Size, len(s))
	}

	var state TicTacToe
	for i, r := range strings.ToUpper(s) {
		switch r {
		case 'X':
			state.Cells[i] = Cross
		case 'O':
			state.Cells[i] = Nought
		case '.', '-', '_':
			state.Cells[i] = Empty
		default:
			return TicTacToe{}, fmt.Errorf("%w: unexpected %q at cell %d", ErrInvalidBoard, r, i)
		}
	}

	return state, nil
}

// MoveBetween returns the single cell filled going from before to after.
func MoveBetween(before, after TicTacToe) (int, bool) {
	cell := -1
	for i := range before.Cells {
		if before.Cells[i] == after.Cells[i] {
			continue
		}

		if before.Cells[i] != Empty || cell != -1 {
			return -1, false
		}

		cell = i
	}

	return cell, cell != -1
}

func PlayerOf(mark string) (int, error) {
	switch mark {
	case entity.PlayerX:
		return Cross, nil
	case entity.PlayerO:
		return Nought, nil
	case entity.EmptyCell:
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}
}

func MarkOf(player int) string {
	switch player {
	case Cross:
		return entity.PlayerX
	case Nought:
		return entity.PlayerO
	default:
		return entity.EmptyCell
	}
}
