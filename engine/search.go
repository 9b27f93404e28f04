package engine

import "sync/atomic"

// unsetScore is below any reachable score, including mates.
const unsetScore = -(MateValue << 1)

// searcher carries the state of one top-level search call: the shared
// transposition table and history heuristic, the call-owned killer table and
// stop flag, and the PV of the last completed iteration. Each iteration the
// controller hands it a fresh private copy of the root position, so an
// abandoned iteration can never corrupt a position anyone else reads.
type searcher struct {
	pos     Position
	tt      *TransTable
	eval    Evaluator
	history *HistoryTable
	killers KillerTable
	lastPV  []Move
	stop    atomic.Bool
	nodes   uint64
}

// alphaBeta is the negamax recursion. The returned score is from the
// perspective of the side to move at this node; a parent negates it. Fail
// hard: on normal exit the node returns alpha.
func (s *searcher) alphaBeta(depth int, alpha, beta int32, ply int) int32 {
	if s.stop.Load() {
		return 0
	}
	s.nodes++

	if depth == 0 {
		return s.quiesce(alpha, beta, ply, 0)
	}

	hash := s.pos.Hash()
	alpha, beta, score, cut, hashMove := s.probeTable(hash, depth, ply, alpha, beta)
	if cut {
		return score
	}

	// A mate already found closer to the root bounds what this subtree can
	// still achieve.
	alpha = Max(alpha, -(MateValue - int32(ply)))
	beta = Min(beta, MateValue-int32(ply))
	if alpha >= beta {
		return alpha
	}

	moves := s.scoreMoves(s.pos, s.pos.PseudoLegalMoves(), ply, hashMove)

	hasLegalMoves := false
	nodeType := UpperBoundNode
	bestMove := NoMove
	bestScore := unsetScore
	noStore := false

	for i := 0; i < len(moves); i++ {
		move := selectBest(moves, i)
		mover := s.pos.SideToMove()
		fromPiece, _ := s.pos.PieceAt(move.From)

		s.pos.MakeMove(move)
		if s.pos.InCheck(mover) {
			s.pos.UnmakeMove()
			continue
		}
		hasLegalMoves = true

		draw, threefold := s.detectDraw(move, fromPiece)

		var childScore int32
		if draw {
			childScore = DrawScore
		} else {
			childScore = -s.alphaBeta(depth-1, -beta, -alpha, ply+1)
		}
		s.pos.UnmakeMove()

		if s.stop.Load() {
			return 0
		}

		if childScore >= beta {
			if move.IsQuiet() {
				s.killers.Insert(move, ply)
				s.history.Add(mover, move, depth)
			}
			// A repetition verdict is path-dependent; caching it as a hard
			// bound would poison other routes into this position.
			if !threefold {
				s.tt.Put(hash, TTEntry{Move: move, Depth: depth, Score: childScore, Flag: LowerBoundNode}, ply)
			}
			return childScore
		}
		if childScore > alpha {
			alpha = childScore
			bestScore = childScore
			bestMove = move
			nodeType = ExactNode
		} else if childScore > bestScore {
			bestScore = childScore
			bestMove = move
			noStore = threefold
		}
	}

	if !hasLegalMoves {
		if s.pos.InCheck(s.pos.SideToMove()) {
			return -(MateValue - int32(ply))
		}
		return DrawScore
	}

	if !noStore {
		s.tt.Put(hash, TTEntry{Move: bestMove, Depth: depth, Score: bestScore, Flag: nodeType}, ply)
	}
	return alpha
}

// detectDraw is evaluated after move has been applied. It reports whether
// the resulting position is drawn by the fifty-move rule or would be a
// repetition; the threefold flag marks the latter so the caller can suppress
// the cache store for this branch.
func (s *searcher) detectDraw(move Move, fromPiece PieceType) (draw, threefold bool) {
	if s.pos.HalfMoveClock() >= 100 && !(fromPiece == Pawn || move.IsCapture()) {
		return true, false
	}

	// Walk backward two plies at a time (same side to move), stopping at the
	// last irreversible move. The position on the board is already the
	// post-move one, so a single earlier match makes this its recurrence.
	hist := s.pos.HistoryHashes()
	boundary := s.pos.LastIrreversible()
	hash := s.pos.Hash()
	for j := len(hist) - 4; j >= 0 && boundary < j; j -= 2 {
		if hist[j] == hash {
			return true, true
		}
	}
	return false, false
}

// probeTable implements the bound-aware cache probe: an exact entry of
// sufficient depth answers the node outright, a one-sided bound either cuts
// or tightens the window, and the stored move survives as an ordering hint.
func (s *searcher) probeTable(hash uint64, depth, ply int, alpha, beta int32) (int32, int32, int32, bool, Move) {
	hashMove := NoMove
	if !s.tt.Probe(hash) {
		return alpha, beta, 0, false, hashMove
	}
	entry := s.tt.Get(hash, ply)
	if entry.Depth < depth {
		return alpha, beta, 0, false, hashMove
	}
	switch entry.Flag {
	case ExactNode:
		return alpha, beta, entry.Score, true, hashMove
	case UpperBoundNode:
		if entry.Score <= alpha {
			return alpha, beta, entry.Score, true, hashMove
		}
		hashMove = entry.Move
		beta = Min(beta, entry.Score)
	case LowerBoundNode:
		if entry.Score >= beta {
			return alpha, beta, entry.Score, true, hashMove
		}
		hashMove = entry.Move
		alpha = Max(alpha, entry.Score)
	}
	return alpha, beta, 0, false, hashMove
}

// quiesce extends the search at the horizon through forcing moves only, so
// the static evaluation is never taken in the middle of a capture sequence.
// Its depth counts captures explored and runs 0, -1, -2, ... so that any
// main-search entry in the table outranks a quiescence entry.
func (s *searcher) quiesce(alpha, beta int32, ply, depth int) int32 {
	if s.stop.Load() {
		return 0
	}
	s.nodes++

	standPat := s.eval.Evaluate(s.pos)
	if standPat >= beta {
		return beta
	}
	if alpha < standPat {
		alpha = standPat
	}
	// Even winning the most valuable piece on the board cannot lift this
	// line back to alpha.
	if standPat+pieceValue[Queen] < alpha {
		return alpha
	}

	hash := s.pos.Hash()
	alpha, beta, score, cut, hashMove := s.probeTable(hash, depth, ply, alpha, beta)
	if cut {
		return score
	}

	moves := s.scoreTacticalMoves(s.pos, s.pos.TacticalMoves(), hashMove)

	nodeType := UpperBoundNode
	bestMove := NoMove
	bestScore := unsetScore

	for i := 0; i < len(moves); i++ {
		move := selectBest(moves, i)
		mover := s.pos.SideToMove()

		s.pos.MakeMove(move)
		if s.pos.InCheck(mover) {
			s.pos.UnmakeMove()
			continue
		}
		childScore := -s.quiesce(-beta, -alpha, ply+1, depth-1)
		s.pos.UnmakeMove()

		if s.stop.Load() {
			return 0
		}

		if childScore >= beta {
			s.tt.Put(hash, TTEntry{Move: move, Depth: depth, Score: childScore, Flag: LowerBoundNode}, ply)
			return childScore
		}
		if childScore > alpha {
			alpha = childScore
			bestScore = childScore
			bestMove = move
			nodeType = ExactNode
		} else if childScore > bestScore {
			bestScore = childScore
			bestMove = move
		}
	}

	// Nothing tactical was explored: the node's value is the stand pat and
	// there is no line worth remembering.
	if bestScore != unsetScore {
		s.tt.Put(hash, TTEntry{Move: bestMove, Depth: depth, Score: bestScore, Flag: nodeType}, ply)
	}
	return alpha
}
