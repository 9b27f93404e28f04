package board

import (
	"testing"

	"kestrel-engine/engine"
)

func mustFEN(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := FromFEN(fen)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	return b
}

func findMove(t *testing.T, b *Board, uci string) engine.Move {
	t.Helper()
	m, ok := b.MoveFromUCI(uci)
	if !ok {
		t.Fatalf("move %s not found in position %s", uci, b.FEN())
	}
	return m
}

func TestFromFENRejectsGarbage(t *testing.T) {
	if _, err := FromFEN("not a position"); err == nil {
		t.Fatal("expected an error for malformed FEN")
	}
}

func TestFromFENParsesHalfMoveClock(t *testing.T) {
	b := mustFEN(t, "8/8/8/8/8/5k2/8/5K1R w - - 37 80")
	if got := b.HalfMoveClock(); got != 37 {
		t.Fatalf("expected clock 37, got %d", got)
	}
}

func TestStartposBasics(t *testing.T) {
	b := Startpos()
	if b.SideToMove() != engine.White {
		t.Fatal("white moves first")
	}
	if n := len(b.PseudoLegalMoves()); n != 20 {
		t.Fatalf("expected 20 opening moves, got %d", n)
	}
	if piece, color := b.PieceAt(4); piece != engine.King || color != engine.White {
		t.Fatalf("expected white king on e1, got %v %v", piece, color)
	}
	if piece, _ := b.PieceAt(36); piece != engine.NoPieceType {
		t.Fatalf("expected e5 empty, got %v", piece)
	}
}

func TestMakeUnmakeRestoresState(t *testing.T) {
	b := Startpos()
	hash := b.Hash()
	fen := b.FEN()

	m := findMove(t, b, "e2e4")
	b.MakeMove(m)
	if b.Hash() == hash {
		t.Fatal("hash should change after a move")
	}
	if len(b.HistoryHashes()) != 1 || b.HistoryHashes()[0] != hash {
		t.Fatal("pre-move hash should be on the history")
	}

	b.UnmakeMove()
	if b.Hash() != hash || b.FEN() != fen {
		t.Fatal("unmake should restore the exact position")
	}
	if len(b.HistoryHashes()) != 0 {
		t.Fatal("unmake should pop the history")
	}
}

func TestMoveFlags(t *testing.T) {
	t.Run("double pawn push", func(t *testing.T) {
		b := Startpos()
		if m := findMove(t, b, "e2e4"); m.Flag != engine.FlagDoublePush {
			t.Fatalf("expected double push flag, got %d", m.Flag)
		}
		if m := findMove(t, b, "e2e3"); m.Flag != engine.FlagQuiet {
			t.Fatalf("expected quiet flag, got %d", m.Flag)
		}
	})

	t.Run("capture carries the victim", func(t *testing.T) {
		b := mustFEN(t, "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
		m := findMove(t, b, "e4d5")
		if m.Flag != engine.FlagCapturePawn {
			t.Fatalf("expected pawn capture flag, got %d", m.Flag)
		}
		if m.Victim() != engine.Pawn {
			t.Fatalf("expected pawn victim, got %v", m.Victim())
		}
	})

	t.Run("castle", func(t *testing.T) {
		b := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		if m := findMove(t, b, "e1g1"); m.Flag != engine.FlagCastle {
			t.Fatalf("expected castle flag, got %d", m.Flag)
		}
		if m := findMove(t, b, "e1c1"); m.Flag != engine.FlagCastle {
			t.Fatalf("expected castle flag, got %d", m.Flag)
		}
	})

	t.Run("en passant", func(t *testing.T) {
		b := mustFEN(t, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
		m := findMove(t, b, "e5d6")
		if m.Flag != engine.FlagEnPassant {
			t.Fatalf("expected en passant flag, got %d", m.Flag)
		}
		if !m.IsCapture() || m.Victim() != engine.Pawn {
			t.Fatal("en passant is a pawn capture")
		}
	})

	t.Run("promotion", func(t *testing.T) {
		b := mustFEN(t, "8/5P1k/8/8/8/8/8/6K1 w - - 0 1")
		m := findMove(t, b, "f7f8q")
		if m.Promotion != engine.Queen {
			t.Fatalf("expected queen promotion, got %v", m.Promotion)
		}
	})
}

func TestHalfMoveClockTracking(t *testing.T) {
	b := Startpos()

	b.MakeMove(findMove(t, b, "g1f3"))
	if b.HalfMoveClock() != 1 {
		t.Fatalf("quiet knight move should tick the clock, got %d", b.HalfMoveClock())
	}

	b.MakeMove(findMove(t, b, "e7e5"))
	if b.HalfMoveClock() != 0 {
		t.Fatalf("pawn move should reset the clock, got %d", b.HalfMoveClock())
	}
	if b.LastIrreversible() != 1 {
		t.Fatalf("expected irreversible boundary at history index 1, got %d", b.LastIrreversible())
	}

	b.UnmakeMove()
	if b.HalfMoveClock() != 1 || b.LastIrreversible() != -1 {
		t.Fatal("unmake should restore clock and boundary")
	}
}

func TestCastlingKeepsHalfMoveClock(t *testing.T) {
	b := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 10 1")

	b.MakeMove(findMove(t, b, "e1g1"))
	if got := b.HalfMoveClock(); got != 11 {
		t.Fatalf("castling must not reset the fifty-move clock: want 11, got %d", got)
	}
	if b.LastIrreversible() != 0 {
		t.Fatalf("castling still fences repetition history, got boundary %d", b.LastIrreversible())
	}
}

func TestRepetitionBookkeeping(t *testing.T) {
	b := Startpos()
	start := b.Hash()

	for _, uci := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		b.MakeMove(findMove(t, b, uci))
	}

	if b.Hash() != start {
		t.Fatal("knight shuffle should reproduce the start hash")
	}
	hist := b.HistoryHashes()
	if len(hist) != 4 {
		t.Fatalf("expected 4 history entries, got %d", len(hist))
	}
	if hist[0] != start {
		t.Fatal("history[0] should be the original position")
	}
	if b.LastIrreversible() != -1 {
		t.Fatal("no irreversible move was played")
	}
}

func TestTacticalMovesSubset(t *testing.T) {
	b := mustFEN(t, "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	for _, m := range b.TacticalMoves() {
		if !m.IsCapture() && m.Promotion == engine.NoPieceType {
			t.Fatalf("non-tactical move %s in tactical list", m)
		}
	}
	if _, ok := b.MoveFromUCI("e4d5"); !ok {
		t.Fatal("capture should be generated")
	}
}

func TestInCheckBothSides(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/8/8/8/8/4R1K1 b - - 0 1")
	if b.InCheck(engine.White) {
		t.Fatal("white king is safe")
	}
	if !b.InCheck(engine.Black) {
		t.Fatal("black king shares the rook's file")
	}
	if b.SideToMove() != engine.Black {
		t.Fatal("querying the off-move side must not flip the mover")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	b := Startpos()
	b.MakeMove(findMove(t, b, "e2e4"))

	clone := b.Copy().(*Board)
	clone.MakeMove(findMove(t, clone, "e7e5"))

	if b.Hash() == clone.Hash() {
		t.Fatal("moving on the copy must not touch the original")
	}
	if len(b.HistoryHashes()) != 1 || len(clone.HistoryHashes()) != 2 {
		t.Fatal("histories should diverge independently")
	}

	clone.UnmakeMove()
	if b.Hash() != clone.Hash() {
		t.Fatal("the copy should rewind to the branch point")
	}
}
