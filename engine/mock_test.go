package engine

// boardStub is a minimal Position for ordering tests: a side to move and a
// piece lookup, nothing else.
type boardStub struct {
	side   Color
	pieces map[uint8]PieceType
}

func (s *boardStub) MakeMove(Move)        {}
func (s *boardStub) UnmakeMove()          {}
func (s *boardStub) SideToMove() Color    { return s.side }
func (s *boardStub) Hash() uint64         { return 0 }
func (s *boardStub) HalfMoveClock() int   { return 0 }
func (s *boardStub) HistoryHashes() []uint64 { return nil }
func (s *boardStub) LastIrreversible() int   { return -1 }
func (s *boardStub) InCheck(Color) bool      { return false }
func (s *boardStub) PseudoLegalMoves() []Move { return nil }
func (s *boardStub) TacticalMoves() []Move    { return nil }
func (s *boardStub) Copy() Position           { return s }

func (s *boardStub) PieceAt(sq uint8) (PieceType, Color) {
	if p, ok := s.pieces[sq]; ok {
		return p, s.side
	}
	return NoPieceType, White
}

// treeNode is one position in a synthetic game tree. Moves are all quiet and
// unique per node; a node with no children is terminal.
type treeNode struct {
	id       uint64
	eval     int32
	check    bool
	moves    []Move
	children []*treeNode
}

// treePos walks a treeNode tree through the Position interface.
type treePos struct {
	stack []*treeNode
}

func newTreePos(root *treeNode) *treePos {
	return &treePos{stack: []*treeNode{root}}
}

func (p *treePos) current() *treeNode { return p.stack[len(p.stack)-1] }

func (p *treePos) MakeMove(m Move) {
	node := p.current()
	for i, cand := range node.moves {
		if cand == m {
			p.stack = append(p.stack, node.children[i])
			return
		}
	}
	panic("treePos: unknown move " + m.String())
}

func (p *treePos) UnmakeMove() { p.stack = p.stack[:len(p.stack)-1] }

func (p *treePos) SideToMove() Color {
	if len(p.stack)%2 == 1 {
		return White
	}
	return Black
}

func (p *treePos) Hash() uint64 { return p.current().id }

func (p *treePos) HalfMoveClock() int { return 0 }

func (p *treePos) HistoryHashes() []uint64 {
	hist := make([]uint64, 0, len(p.stack)-1)
	for _, n := range p.stack[:len(p.stack)-1] {
		hist = append(hist, n.id)
	}
	return hist
}

func (p *treePos) LastIrreversible() int { return -1 }

func (p *treePos) InCheck(c Color) bool {
	if c == p.SideToMove() {
		return p.current().check
	}
	return false
}

func (p *treePos) PieceAt(uint8) (PieceType, Color) { return NoPieceType, White }

func (p *treePos) PseudoLegalMoves() []Move {
	return append([]Move(nil), p.current().moves...)
}

func (p *treePos) TacticalMoves() []Move { return nil }

func (p *treePos) Copy() Position {
	return &treePos{stack: append([]*treeNode(nil), p.stack...)}
}

// treeEval scores the node the walker currently stands on.
type treeEval struct{}

func (treeEval) Evaluate(p Position) int32 { return p.(*treePos).current().eval }

// buildTree grows a uniform tree. Every node gets a distinct id and a
// scrambled but injective evaluation, so every minimax value in the tree is
// unique and the best move is never ambiguous. Moves encode (level, child) so
// no move collides with NoMove.
func buildTree(depth, branching int, nextID *uint64) *treeNode {
	*nextID++
	node := &treeNode{id: *nextID, eval: int32((*nextID*2654435761)%100003) - 50001}
	if depth == 0 {
		return node
	}
	for i := 0; i < branching; i++ {
		node.moves = append(node.moves, Move{From: uint8(depth), To: uint8(i + 1)})
		node.children = append(node.children, buildTree(depth-1, branching, nextID))
	}
	return node
}

// plainNegamax is the reference: exhaustive, no pruning, no cache.
func plainNegamax(n *treeNode, depth int) int32 {
	if depth == 0 {
		return n.eval
	}
	best := -(MateValue << 1)
	for _, child := range n.children {
		if v := -plainNegamax(child, depth-1); v > best {
			best = v
		}
	}
	return best
}
