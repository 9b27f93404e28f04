package engine

import "fmt"

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	// MateValue is the canonical mate magnitude. A mate delivered at ply p
	// from the root scores MateValue - p, so shorter mates score higher.
	MateValue int32 = 65536

	DrawScore int32 = 0

	// maxPly bounds the search depth and sizes the killer table.
	maxPly = 64
)

// Color identifies a side.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// PieceType is a color-independent piece kind.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Middlegame material values, indexed by PieceType. The king is worthless as
// an aggressor so king captures always sort well.
var pieceValue = [7]int32{0, 82, 337, 365, 477, 1025, 0}

// MoveFlag encodes the move subtype. Flags 1..5 name the captured piece type
// so capture ordering never has to touch the board.
type MoveFlag uint8

const (
	FlagQuiet         MoveFlag = 0
	FlagCapturePawn   MoveFlag = 1
	FlagCaptureKnight MoveFlag = 2
	FlagCaptureBishop MoveFlag = 3
	FlagCaptureRook   MoveFlag = 4
	FlagCaptureQueen  MoveFlag = 5
	FlagCastle        MoveFlag = 6
	FlagDoublePush    MoveFlag = 7
	FlagEnPassant     MoveFlag = 8
)

// Move is an immutable move description. Equality is structural; the zero
// Move doubles as the "no move" sentinel since no legal move has From == To
// with a quiet flag.
type Move struct {
	From      uint8
	To        uint8
	Flag      MoveFlag
	Promotion PieceType
}

// NoMove is the empty sentinel.
var NoMove Move

// IsCapture reports whether the move removes an enemy piece, en passant
// included.
func (m Move) IsCapture() bool {
	return (m.Flag >= FlagCapturePawn && m.Flag <= FlagCaptureQueen) || m.Flag == FlagEnPassant
}

// IsQuiet reports whether the move qualifies for the killer/history
// heuristics: no capture and no promotion.
func (m Move) IsQuiet() bool {
	return (m.Flag == FlagQuiet || m.Flag == FlagDoublePush) && m.Promotion == NoPieceType
}

// Victim returns the captured piece type, or NoPieceType for non-captures.
func (m Move) Victim() PieceType {
	if m.Flag >= FlagCapturePawn && m.Flag <= FlagCaptureQueen {
		return PieceType(m.Flag)
	}
	if m.Flag == FlagEnPassant {
		return Pawn
	}
	return NoPieceType
}

var promotionRunes = [7]byte{0, 'p', 'n', 'b', 'r', 'q', 'k'}

// String renders the move in UCI coordinate form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := fmt.Sprintf("%s%s", squareName(m.From), squareName(m.To))
	if m.Promotion != NoPieceType {
		s += string(promotionRunes[m.Promotion])
	}
	return s
}

func squareName(sq uint8) string {
	return string([]byte{'a' + sq%8, '1' + sq/8})
}

// ScoredMove pairs a move with its ordering priority. Priorities are
// recomputed once per node and never persisted.
type ScoredMove struct {
	Move  Move
	Score int
}

// Position is the board collaborator. The search mutates it through
// MakeMove/UnmakeMove in strict LIFO order; every recursive call that applies
// a move undoes it before returning, including on cancellation.
//
// HistoryHashes returns the hashes of every position reached before the
// current one, oldest first; the current position is not included.
// LastIrreversible is the index into that history of the position in which
// the most recent irreversible move (pawn move, capture or castle) was
// played, or -1.
type Position interface {
	MakeMove(m Move)
	UnmakeMove()

	SideToMove() Color
	Hash() uint64
	PieceAt(sq uint8) (PieceType, Color)
	HalfMoveClock() int
	HistoryHashes() []uint64
	LastIrreversible() int
	InCheck(c Color) bool

	// PseudoLegalMoves may include moves that leave the mover's own king in
	// check; the search filters those. TacticalMoves is the capture and
	// promotion subset used by quiescence.
	PseudoLegalMoves() []Move
	TacticalMoves() []Move

	// Copy snapshots the current position for a private search worker. The
	// copy cannot undo moves made before the snapshot.
	Copy() Position
}

// Evaluator scores a position from the side to move's perspective. Scores
// must be negatable under the negamax convention.
type Evaluator interface {
	Evaluate(p Position) int32
}
