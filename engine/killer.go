package engine

// KillerTable remembers, per ply, up to two quiet moves that caused a beta
// cutoff there. Slots are filled round-robin so a hot ply keeps both of its
// most recent refutations. The table lives for one top-level search call.
type KillerTable struct {
	moves  [maxPly + 1][2]Move
	toggle bool
}

// Insert records a cutoff move for ply. Captures and promotions never enter
// the table; duplicates are ignored.
func (k *KillerTable) Insert(m Move, ply int) {
	if !m.IsQuiet() || ply > maxPly {
		return
	}
	if k.moves[ply][0] == m || k.moves[ply][1] == m {
		return
	}
	if k.toggle || k.moves[ply][0] == NoMove {
		k.moves[ply][0] = m
		k.toggle = false
	} else {
		k.moves[ply][1] = m
		k.toggle = true
	}
}

// IsKiller reports whether m occupies either killer slot for ply.
func (k *KillerTable) IsKiller(m Move, ply int) bool {
	if ply > maxPly {
		return false
	}
	return k.moves[ply][0] == m || k.moves[ply][1] == m
}

// HistoryTable accumulates, per side and origin/destination square, a score
// for quiet moves that caused cutoffs, incremented by depth squared. It is
// owned by the Engine and persists across search calls.
type HistoryTable struct {
	scores [2][64][64]int
}

// Add credits a quiet cutoff move searched at the given remaining depth.
func (h *HistoryTable) Add(side Color, m Move, depth int) {
	h.scores[side][m.From][m.To] += depth * depth
}

// Score returns the accumulated value for the move.
func (h *HistoryTable) Score(side Color, m Move) int {
	return h.scores[side][m.From][m.To]
}

// Clear zeroes the table.
func (h *HistoryTable) Clear() {
	h.scores = [2][64][64]int{}
}
