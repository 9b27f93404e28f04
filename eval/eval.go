// Package eval provides static position evaluation for the search.
package eval

import "kestrel-engine/engine"

var pieceValue = [7]int32{0, 82, 337, 365, 477, 1025, 0}

// Middlegame piece-square bonuses in centipawns, indexed [PieceType][square]
// from White's point of view with a1 at index 0. Black squares are mirrored
// through rank flips before lookup.
var squareBonus = [7][64]int32{
	engine.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-46, -41, -42, -39, -40, -12, 1, -21,
		-51, -52, -45, -45, -37, -37, -20, -30,
		-46, -40, -33, -33, -23, -26, -15, -30,
		-36, -27, -27, -11, 1, 2, -4, -21,
		-33, -6, 7, 13, 27, 57, 19, -11,
		57, 54, 55, 54, 46, 32, 4, 9,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	engine.Knight: {
		-24, -28, -46, -30, -25, -21, -27, -40,
		-35, -32, -18, -10, -14, -12, -20, -18,
		-25, -8, -4, 6, 7, -1, -1, -17,
		-14, -1, 8, 5, 13, 10, 26, -1,
		-5, 8, 30, 35, 24, 43, 19, 22,
		-21, 12, 40, 49, 67, 64, 37, 14,
		-17, -12, 20, 33, 33, 37, -8, 3,
		-61, -6, -12, -2, 1, -6, -1, -16,
	},
	engine.Bishop: {
		4, -2, -15, -21, -18, -8, -8, 2,
		4, 8, 11, -2, 1, 5, 20, 11,
		-2, 11, 8, 13, 10, 8, 10, 13,
		-7, 10, 15, 21, 26, 11, 10, 7,
		-4, 22, 24, 49, 34, 37, 20, 6,
		4, 18, 36, 36, 47, 55, 37, 24,
		-22, 6, 3, -7, 4, 14, -3, 8,
		-27, -8, -13, -12, -8, -21, 1, -10,
	},
	engine.Rook: {
		-46, -41, -37, -34, -36, -40, -19, -42,
		-71, -45, -44, -43, -47, -37, -25, -51,
		-60, -46, -50, -44, -47, -48, -21, -38,
		-49, -45, -43, -35, -37, -34, -13, -29,
		-33, -21, -11, 6, 0, 7, 8, 2,
		-22, 10, 4, 25, 41, 38, 44, 20,
		-3, -5, 16, 28, 31, 37, 9, 30,
		23, 22, 19, 24, 23, 20, 21, 34,
	},
	engine.Queen: {
		-6, -17, -12, -3, -6, -28, -27, -12,
		-11, -4, 2, -2, -1, 7, 8, -7,
		-8, -1, -2, -4, -4, -1, 8, 7,
		-5, -3, -2, -6, -6, 10, 7, 16,
		-11, -6, -2, -1, 12, 22, 26, 26,
		-13, -6, -1, 14, 36, 58, 71, 42,
		-11, -40, 5, 5, 20, 44, -2, 27,
		0, 16, 21, 29, 36, 38, 25, 36,
	},
	engine.King: {
		-4, 36, -1, -69, -23, -74, 19, 26,
		12, 0, -18, -53, -33, -39, 7, 25,
		-6, -4, -3, -11, -6, -8, 4, -15,
		-1, 8, 16, 10, 15, 12, 23, -9,
		0, 9, 16, 10, 13, 15, 15, -8,
		1, 11, 12, 9, 8, 14, 12, 0,
		-2, 6, 6, 2, 3, 4, 3, -2,
		-1, 0, 0, 2, 0, 0, 0, -2,
	},
}

// Material scores a position by summed piece values, from the perspective of
// the side to move. Kings are not counted.
type Material struct{}

// NewMaterial returns the material-count evaluator.
func NewMaterial() *Material { return &Material{} }

// Evaluate returns the material balance in centipawns, positive when the
// side to move is ahead.
func (Material) Evaluate(p engine.Position) int32 {
	var balance [2]int32
	for sq := uint8(0); sq < 64; sq++ {
		piece, color := p.PieceAt(sq)
		if piece == engine.NoPieceType {
			continue
		}
		balance[color] += pieceValue[piece]
	}
	score := balance[engine.White] - balance[engine.Black]
	if p.SideToMove() == engine.Black {
		score = -score
	}
	return score
}

// PieceSquare scores material plus middlegame piece-square bonuses, from the
// perspective of the side to move. This is the default evaluator the commands
// plug in.
type PieceSquare struct{}

// NewPieceSquare returns the material + piece-square evaluator.
func NewPieceSquare() *PieceSquare { return &PieceSquare{} }

func (PieceSquare) Evaluate(p engine.Position) int32 {
	var balance [2]int32
	for sq := uint8(0); sq < 64; sq++ {
		piece, color := p.PieceAt(sq)
		if piece == engine.NoPieceType {
			continue
		}
		view := sq
		if color == engine.Black {
			view = sq ^ 56 // mirror ranks so both sides read the White table
		}
		balance[color] += pieceValue[piece] + squareBonus[piece][view]
	}
	score := balance[engine.White] - balance[engine.Black]
	if p.SideToMove() == engine.Black {
		score = -score
	}
	return score
}
