package negamax

import "errors"

var ErrNoMoves = errors.New("no moves available")

type Quality int

const (
	Upperbound Quality = iota
	Lowerbound
	Exact
)

func (q Quality) String() string {
	switch q {
	case Upperbound:
		return "upperbound"
	case Lowerbound:
		return "lowerbound"
	case Exact:
		return "exact"
	default:
		return "unknown"
	}
}

type entry struct {
	value   int
	depth   int
	quality Quality
}

// Table is a transposition table. Keys are stored from the point of view of PlayerOne to move.
type Table[S GameState[S]] struct {
	entries map[S][]entry
}

func NewTable[S GameState[S]]() *Table[S] {
	return &Table[S]{entries: make(map[S][]entry)}
}

// Len returns the total number of entries across all states.
func (that *Table[S]) Len() int {
	n := 0
	for _, list := range that.entries {
		n += len(list)
	}

	return n
}

// States returns the number of distinct stored states.
func (that *Table[S]) States() int {
	return len(that.entries)
}

func (that *Table[S]) Reset() {
	that.entries = make(map[S][]entry)
}

// Get looks state up at exactly depth. It returns a value when an exact entry exists or when
// the bounds it finds close the window; otherwise it narrows alpha and beta in place.
func (that *Table[S]) Get(state S, player, depth int, alpha, beta *int) (int, bool) {
	if player == PlayerTwo {
		state = state.Swap()
	}

	for _, e := range that.entries[state] {
		if e.depth != depth {
			continue
		}

		switch e.quality {
		case Exact:
			return e.value, true
		case Upperbound:
			*beta = min(*beta, e.value)
		case Lowerbound:
			*alpha = max(*alpha, e.value)
		}

		if *alpha >= *beta {
			return e.value, true
		}
	}

	return 0, false
}

// Insert records score for state searched at depth within window [alpha, beta].
func (that *Table[S]) Insert(state S, player, depth, alpha, beta, score int) {
	if player == PlayerTwo {
		state = state.Swap()
	}

	e := entry{value: score, depth: depth}

	switch {
	case score <= alpha:
		// the real score is at most score
		e.quality = Upperbound
	case score >= beta:
		// the real score is at least score
		e.quality = Lowerbound
	default:
		e.quality = Exact
	}

	for s := range state.Symmetries() {
		that.entries[s] = append(that.entries[s], e)
	}
}

// Clean drops entries dominated by a deeper (or equally deep) entry of the same state.
func (that *Table[S]) Clean() {
	for key, list := range that.entries {
		i := 0

	next:
		for i < len(list) {
			for j := range list {
				if i != j && list[j].depth >= list[i].depth &&
					(list[j].quality == Exact || list[j].quality == list[i].quality) {
					list[i] = list[len(list)-1]
					list = list[:len(list)-1]
					continue next
				}
			}

			i++
		}

		that.entries[key] = list
	}
}
