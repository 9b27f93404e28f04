package engine

import (
	"time"

	"github.com/rs/zerolog"
)

// SearchInfo is a progress report emitted after each completed iteration.
type SearchInfo struct {
	Depth   int
	Score   int32
	Nodes   uint64
	PV      []Move
	Elapsed time.Duration
}

// Diagnostics describes the last completed top-level search.
type Diagnostics struct {
	Depth      int
	Score      int32
	Nodes      uint64
	PV         []Move
	Reads      uint64
	Writes     uint64
	Collisions uint64
	Elapsed    time.Duration
	GameOver   bool
}

// Engine owns the long-lived search state: the transposition table, the
// history heuristic and the evaluator. It is not safe for concurrent Search
// calls; the table itself tolerates a straggling worker from a previous call.
type Engine struct {
	tt       *TransTable
	history  *HistoryTable
	eval     Evaluator
	log      zerolog.Logger
	progress func(SearchInfo)
	maxDepth int
	diag     Diagnostics
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithTableSize sets the transposition table slot count.
func WithTableSize(slots int) Option {
	return func(e *Engine) { e.tt = NewTransTable(slots) }
}

// WithLogger routes iteration and diagnostic logging to l.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithProgress registers a callback invoked after every completed iteration.
func WithProgress(fn func(SearchInfo)) Option {
	return func(e *Engine) { e.progress = fn }
}

// WithMaxDepth caps iterative deepening. The default is the ply ceiling.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) { e.maxDepth = Clamp(depth, 1, maxPly) }
}

// NewEngine builds an engine around the given evaluator.
func NewEngine(eval Evaluator, opts ...Option) *Engine {
	e := &Engine{
		eval:     eval,
		history:  &HistoryTable{},
		log:      zerolog.Nop(),
		maxDepth: maxPly,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tt == nil {
		e.tt = NewTransTable(DefaultTableSize)
	}
	return e
}

// Diagnostics returns the report for the most recent Search call.
func (e *Engine) Diagnostics() Diagnostics { return e.diag }

// ClearHistory zeroes the quiet-move history heuristic, typically on a new
// game.
func (e *Engine) ClearHistory() { e.history.Clear() }

// Search runs iterative deepening from pos within the time budget and
// returns the best move found. Depth one always completes regardless of the
// budget, so a legal position always yields a legal move. On terminal
// positions it returns NoMove.
func (e *Engine) Search(pos Position, budget time.Duration) Move {
	start := time.Now()
	e.diag = Diagnostics{}

	rootMoves := legalMoves(pos.Copy())
	if len(rootMoves) == 0 {
		if pos.InCheck(pos.SideToMove()) {
			e.diag.Score = -MateValue
		}
		e.diag.GameOver = true
		e.diag.Elapsed = time.Since(start)
		return NoMove
	}

	s := &searcher{
		tt:      e.tt,
		eval:    e.eval,
		history: e.history,
	}

	timer := time.NewTimer(budget)
	defer timer.Stop()

	bestMove := NoMove
	var bestScore int32
	lastDepth := 0

	for depth := 1; depth <= e.maxDepth; depth++ {
		s.pos = pos.Copy()

		done := make(chan int32, 1)
		go func(d int) {
			done <- s.alphaBeta(d, -MateValue, MateValue, 0)
		}(depth)

		var score int32
		if depth == 1 {
			// The first iteration is cheap and guarantees a real answer;
			// it finishes even on a zero budget.
			score = <-done
		} else {
			select {
			case score = <-done:
			case <-timer.C:
				// Stop the worker and wait for it to unwind before its
				// position copy and the killer table go out of use.
				s.stop.Store(true)
				<-done
			}
		}
		if s.stop.Load() {
			break
		}

		// The table rebases the root entry to the canonical mate magnitude
		// (MateValue), while the iteration's return keeps the distance-aware
		// score (mate in one reads MateValue-1). The raw return is what gets
		// reported; tableScore only decides whether the game is over.
		pv, tableScore := collectPV(pos, e.tt)
		if len(pv) > 0 {
			bestMove = pv[0]
			s.lastPV = pv
		}
		bestScore = score
		lastDepth = depth

		info := SearchInfo{
			Depth:   depth,
			Score:   bestScore,
			Nodes:   s.nodes,
			PV:      pv,
			Elapsed: time.Since(start),
		}
		e.log.Debug().
			Int("depth", depth).
			Int32("score", bestScore).
			Uint64("nodes", s.nodes).
			Stringer("move", bestMove).
			Dur("elapsed", info.Elapsed).
			Msg("iteration complete")
		if e.progress != nil {
			e.progress(info)
		}

		// A forced mate is already on the board; deeper search cannot
		// change the outcome. The root table entry reads back at the
		// canonical mate magnitude once the line is proven.
		if Abs(tableScore) == MateValue {
			e.diag.GameOver = true
			break
		}
	}

	if bestMove == NoMove {
		bestMove = rootMoves[0]
	}

	e.diag.Depth = lastDepth
	e.diag.Score = bestScore
	e.diag.Nodes = s.nodes
	e.diag.PV = s.lastPV
	e.diag.Reads = e.tt.Reads()
	e.diag.Writes = e.tt.Writes()
	e.diag.Collisions = e.tt.Collisions()
	e.diag.Elapsed = time.Since(start)
	e.tt.ResetCounters()

	return bestMove
}

// collectPV reconstructs the principal variation by walking exact table
// entries forward from pos. The walk stops on a missing or inexact entry, a
// move the position cannot actually play (a key collision), the ply ceiling,
// or a position already visited (a table cycle).
func collectPV(pos Position, tt *TransTable) ([]Move, int32) {
	walk := pos.Copy()
	pv := make([]Move, 0, 8)
	seen := make(map[uint64]struct{})
	var rootScore int32

	for ply := 0; ply < maxPly; ply++ {
		hash := walk.Hash()
		if _, ok := seen[hash]; ok {
			break
		}
		seen[hash] = struct{}{}

		if !tt.Probe(hash) {
			break
		}
		entry := tt.Get(hash, ply)
		if entry.Flag != ExactNode || entry.Move == NoMove {
			break
		}
		if !playLegal(walk, entry.Move) {
			break
		}
		if ply == 0 {
			rootScore = entry.Score
		}
		pv = append(pv, entry.Move)
	}
	return pv, rootScore
}

// legalMoves filters pseudo-legal moves down to those that leave the mover's
// king safe. The caller passes a disposable position.
func legalMoves(pos Position) []Move {
	pseudo := pos.PseudoLegalMoves()
	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		mover := pos.SideToMove()
		pos.MakeMove(m)
		if !pos.InCheck(mover) {
			legal = append(legal, m)
		}
		pos.UnmakeMove()
	}
	return legal
}

// playLegal applies m to pos if it is a legal move there, reporting success.
// On failure pos is unchanged.
func playLegal(pos Position, m Move) bool {
	found := false
	for _, cand := range pos.PseudoLegalMoves() {
		if cand == m {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	mover := pos.SideToMove()
	pos.MakeMove(m)
	if pos.InCheck(mover) {
		pos.UnmakeMove()
		return false
	}
	return true
}
