package engine

/*
	Move ordering bands, highest first:
	- the previous iteration's PV move for this ply, then the table's hint
	  move: both are near-certain to be best and should be tried before any
	  generated ordering.
	- promotions, then castling, then captures. Captures score victim minus
	  aggressor; a non-positive difference is nudged to +1 before the shift
	  so that even materially losing captures stay ahead of every quiet move.
	- killers, then everything else by accumulated history, clamped under the
	  killer band so a long-running history counter can never outrank a
	  fresh refutation.
*/
// Every band fits a 32-bit int so the ordering works on any GOARCH.
const (
	pvScore      = 1<<30 + 1<<29
	hashScore    = 1 << 30
	promoOffset  = 1 << 28
	castleScore  = 1 << 27
	captureShift = 16
	killerScore  = 1 << 14
)

// scoreMoves assigns an ordering priority to every candidate move at a main
// search node. Priorities are consumed by selectBest; nothing is sorted up
// front since a cutoff usually ends the node after a few selections.
func (s *searcher) scoreMoves(pos Position, moves []Move, ply int, hashMove Move) []ScoredMove {
	side := pos.SideToMove()
	scored := make([]ScoredMove, len(moves))
	for i, m := range moves {
		var score int
		switch {
		case ply < len(s.lastPV) && s.lastPV[ply] == m:
			score = pvScore
		case m == hashMove:
			score = hashScore
		case m.Promotion != NoPieceType:
			score = promoOffset + int(pieceValue[m.Promotion]-pieceValue[Pawn])
		case m.Flag == FlagCastle:
			score = castleScore
		case m.IsCapture():
			aggressor, _ := pos.PieceAt(m.From)
			exchange := int(pieceValue[m.Victim()] - pieceValue[aggressor])
			if exchange < 1 {
				exchange = 1
			}
			score = exchange << captureShift
		case s.killers.IsKiller(m, ply):
			score = killerScore
		default:
			score = Min(s.history.Score(side, m), killerScore-1)
		}
		scored[i] = ScoredMove{Move: m, Score: score}
	}
	return scored
}

// scoreTacticalMoves orders the capture/promotion list used by quiescence.
// Only the hint move, promotions and the raw exchange estimate matter there.
func (s *searcher) scoreTacticalMoves(pos Position, moves []Move, hashMove Move) []ScoredMove {
	scored := make([]ScoredMove, len(moves))
	for i, m := range moves {
		var score int
		switch {
		case m == hashMove:
			score = hashScore
		case m.Promotion != NoPieceType:
			score = int(pieceValue[m.Promotion] - pieceValue[Pawn])
		default:
			aggressor, _ := pos.PieceAt(m.From)
			score = int(pieceValue[m.Victim()] - pieceValue[aggressor])
		}
		scored[i] = ScoredMove{Move: m, Score: score}
	}
	return scored
}

// selectBest swaps the highest-scoring unexplored move into position index
// and returns it. One call is O(remaining moves); the relative order of the
// moves left behind is untouched apart from the swap.
func selectBest(moves []ScoredMove, index int) Move {
	best := index
	for i := index + 1; i < len(moves); i++ {
		if moves[i].Score > moves[best].Score {
			best = i
		}
	}
	moves[index], moves[best] = moves[best], moves[index]
	return moves[index].Move
}
