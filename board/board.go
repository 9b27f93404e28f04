// Package board adapts the dragontoothmg bitboard move generator to the
// position interface the search consumes, layering on the repetition history
// and half-move clock bookkeeping the generator does not track.
package board

import (
	"fmt"
	"strconv"
	"strings"

	dragon "github.com/dylhunn/dragontoothmg"

	"kestrel-engine/engine"
)

// Board wraps a dragontoothmg position together with the hash history and
// fifty-move counter needed for draw detection. It satisfies engine.Position.
type Board struct {
	inner     dragon.Board
	rule50    int
	lastIrrev int
	history   []uint64
	undo      []undoFrame
}

type undoFrame struct {
	unapply func()
	rule50  int
	irrev   int
}

// FromFEN parses a FEN string. The underlying parser panics on malformed
// input, so the failure is recovered into an error here.
func FromFEN(fen string) (b *Board, err error) {
	defer func() {
		if r := recover(); r != nil {
			b = nil
			err = fmt.Errorf("parse fen %q: %v", fen, r)
		}
	}()

	inner := dragon.ParseFen(fen)
	rule50 := 0
	if fields := strings.Fields(fen); len(fields) >= 5 {
		if n, convErr := strconv.Atoi(fields[4]); convErr == nil && n >= 0 {
			rule50 = n
		}
	}
	return &Board{inner: inner, rule50: rule50, lastIrrev: -1}, nil
}

// Startpos returns the standard initial position.
func Startpos() *Board {
	b, err := FromFEN(dragon.Startpos)
	if err != nil {
		panic(err)
	}
	return b
}

// FEN renders the current position.
func (b *Board) FEN() string { return b.inner.ToFen() }

func (b *Board) SideToMove() engine.Color {
	if b.inner.Wtomove {
		return engine.White
	}
	return engine.Black
}

func (b *Board) Hash() uint64 { return b.inner.Hash() }

// HalfMoveClock counts half-moves since the last pawn move or capture.
func (b *Board) HalfMoveClock() int { return b.rule50 }

// HistoryHashes returns the hashes of every position preceding the current
// one, oldest first. The current position is not included.
func (b *Board) HistoryHashes() []uint64 { return b.history }

// LastIrreversible returns the history index of the position on which the
// most recent pawn move, capture or castle was played, or -1. No position at
// or before that index can ever recur.
func (b *Board) LastIrreversible() int { return b.lastIrrev }

// PieceAt reports the piece occupying sq, or NoPieceType for an empty square.
func (b *Board) PieceAt(sq uint8) (engine.PieceType, engine.Color) {
	bit := uint64(1) << sq
	if b.inner.White.All&bit != 0 {
		return pieceTypeOn(&b.inner.White, bit), engine.White
	}
	if b.inner.Black.All&bit != 0 {
		return pieceTypeOn(&b.inner.Black, bit), engine.Black
	}
	return engine.NoPieceType, engine.White
}

func pieceTypeOn(side *dragon.Bitboards, bit uint64) engine.PieceType {
	switch {
	case side.Pawns&bit != 0:
		return engine.Pawn
	case side.Knights&bit != 0:
		return engine.Knight
	case side.Bishops&bit != 0:
		return engine.Bishop
	case side.Rooks&bit != 0:
		return engine.Rook
	case side.Queens&bit != 0:
		return engine.Queen
	case side.Kings&bit != 0:
		return engine.King
	}
	return engine.NoPieceType
}

// InCheck reports whether side's king is attacked in the current position.
func (b *Board) InCheck(side engine.Color) bool {
	wantWhite := side == engine.White
	if b.inner.Wtomove == wantWhite {
		return b.inner.OurKingInCheck()
	}
	// The generator only answers for the side to move; flip, ask, restore.
	b.inner.Wtomove = wantWhite
	checked := b.inner.OurKingInCheck()
	b.inner.Wtomove = !wantWhite
	return checked
}

// MakeMove applies m and pushes the undo state. The move is assumed to come
// from this position's move list.
func (b *Board) MakeMove(m engine.Move) {
	frame := undoFrame{rule50: b.rule50, irrev: b.lastIrrev}
	hash := b.inner.Hash()

	fromPiece, _ := b.PieceAt(m.From)
	// Pawn moves and captures reset the fifty-move clock; castling does not,
	// but like them it fences off the earlier history from ever recurring.
	resetsClock := fromPiece == engine.Pawn || m.IsCapture()
	irreversible := resetsClock || m.Flag == engine.FlagCastle

	var dm dragon.Move
	dm.Setfrom(dragon.Square(m.From))
	dm.Setto(dragon.Square(m.To))
	if m.Promotion != engine.NoPieceType {
		dm.Setpromote(dragonPiece(m.Promotion))
	}
	frame.unapply = b.inner.Apply(dm)

	b.history = append(b.history, hash)
	if resetsClock {
		b.rule50 = 0
	} else {
		b.rule50++
	}
	if irreversible {
		b.lastIrrev = len(b.history) - 1
	}
	b.undo = append(b.undo, frame)
}

// UnmakeMove reverts the most recent MakeMove.
func (b *Board) UnmakeMove() {
	n := len(b.undo) - 1
	frame := b.undo[n]
	b.undo = b.undo[:n]

	frame.unapply()
	b.history = b.history[:len(b.history)-1]
	b.rule50 = frame.rule50
	b.lastIrrev = frame.irrev
}

// PseudoLegalMoves returns the movable set for the side to move. The
// underlying generator already excludes self-checks, so the search's
// legality filter never rejects anything here; it exists for position
// implementations that cannot make that promise.
func (b *Board) PseudoLegalMoves() []engine.Move {
	raw := b.inner.GenerateLegalMoves()
	moves := make([]engine.Move, len(raw))
	for i, dm := range raw {
		moves[i] = b.convert(dm)
	}
	return moves
}

// TacticalMoves returns only captures and promotions, for quiescence.
func (b *Board) TacticalMoves() []engine.Move {
	raw := b.inner.GenerateLegalMoves()
	moves := make([]engine.Move, 0, len(raw))
	for _, dm := range raw {
		m := b.convert(dm)
		if m.IsCapture() || m.Promotion != engine.NoPieceType {
			moves = append(moves, m)
		}
	}
	return moves
}

// convert rebuilds the move classification the compact wire format drops:
// which piece a capture wins, and whether the move is a castle, double pawn
// push or en passant.
func (b *Board) convert(dm dragon.Move) engine.Move {
	from := uint8(dm.From())
	to := uint8(dm.To())
	m := engine.Move{From: from, To: to, Promotion: enginePiece(dm.Promote())}

	mover, _ := b.PieceAt(from)
	victim, _ := b.PieceAt(to)

	switch {
	case victim != engine.NoPieceType:
		m.Flag = captureFlag(victim)
	case mover == engine.King && fileDistance(from, to) == 2:
		m.Flag = engine.FlagCastle
	case mover == engine.Pawn && fileDistance(from, to) == 1:
		// Diagonal pawn move onto an empty square.
		m.Flag = engine.FlagEnPassant
	case mover == engine.Pawn && rankDistance(from, to) == 2:
		m.Flag = engine.FlagDoublePush
	default:
		m.Flag = engine.FlagQuiet
	}
	return m
}

// MoveFromUCI resolves coordinate notation like "e2e4" or "e7e8q" against
// the current move list.
func (b *Board) MoveFromUCI(s string) (engine.Move, bool) {
	for _, m := range b.PseudoLegalMoves() {
		if m.String() == s {
			return m, true
		}
	}
	return engine.NoMove, false
}

// Copy returns an independent position sharing nothing with the original.
// The undo stack starts empty: a copy can never unwind past its branch point.
func (b *Board) Copy() engine.Position {
	clone := &Board{
		inner:     b.inner,
		rule50:    b.rule50,
		lastIrrev: b.lastIrrev,
		history:   append([]uint64(nil), b.history...),
	}
	return clone
}

func fileDistance(a, b uint8) int {
	d := int(a%8) - int(b%8)
	if d < 0 {
		d = -d
	}
	return d
}

func rankDistance(a, b uint8) int {
	d := int(a/8) - int(b/8)
	if d < 0 {
		d = -d
	}
	return d
}

func captureFlag(victim engine.PieceType) engine.MoveFlag {
	switch victim {
	case engine.Pawn:
		return engine.FlagCapturePawn
	case engine.Knight:
		return engine.FlagCaptureKnight
	case engine.Bishop:
		return engine.FlagCaptureBishop
	case engine.Rook:
		return engine.FlagCaptureRook
	case engine.Queen:
		return engine.FlagCaptureQueen
	}
	return engine.FlagQuiet
}

func dragonPiece(p engine.PieceType) dragon.Piece {
	switch p {
	case engine.Knight:
		return dragon.Knight
	case engine.Bishop:
		return dragon.Bishop
	case engine.Rook:
		return dragon.Rook
	case engine.Queen:
		return dragon.Queen
	}
	return dragon.Nothing
}

func enginePiece(p dragon.Piece) engine.PieceType {
	switch p {
	case dragon.Knight:
		return engine.Knight
	case dragon.Bishop:
		return engine.Bishop
	case dragon.Rook:
		return engine.Rook
	case dragon.Queen:
		return engine.Queen
	}
	return engine.NoPieceType
}
