// Command uci speaks the UCI protocol on stdin/stdout.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"kestrel-engine/board"
	"kestrel-engine/engine"
	"kestrel-engine/eval"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	eng := engine.NewEngine(eval.NewPieceSquare(),
		engine.WithLogger(logger),
		engine.WithProgress(printInfo),
	)
	pos := board.Startpos()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name Kestrel")
			fmt.Println("id author Kestrel authors")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			pos = board.Startpos()
			eng.ClearHistory()
		case "position":
			if p, err := parsePosition(tokens[1:]); err != nil {
				fmt.Printf("info string %v\n", err)
			} else {
				pos = p
			}
		case "go":
			budget := parseBudget(tokens[1:], pos.SideToMove())
			move := eng.Search(pos, budget)
			fmt.Printf("bestmove %s\n", move)
		case "quit":
			return
		}
	}
}

func printInfo(info engine.SearchInfo) {
	line := make([]string, 0, len(info.PV))
	for _, m := range info.PV {
		line = append(line, m.String())
	}
	fmt.Printf("info depth %d %s nodes %d time %d pv %s\n",
		info.Depth, scoreString(info.Score), info.Nodes,
		info.Elapsed.Milliseconds(), strings.Join(line, " "))
}

func scoreString(score int32) string {
	mate := engine.MateValue - abs32(score)
	if mate <= 100 {
		// Plies to mate, reported as full moves, negative when we are the
		// one getting mated.
		moves := (mate + 1) / 2
		if score < 0 {
			moves = -moves
		}
		return fmt.Sprintf("score mate %d", moves)
	}
	return fmt.Sprintf("score cp %d", score)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// parsePosition handles "startpos [moves ...]" and "fen <fields> [moves ...]".
func parsePosition(tokens []string) (*board.Board, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("position: missing startpos or fen")
	}

	var pos *board.Board
	rest := tokens[1:]
	switch tokens[0] {
	case "startpos":
		pos = board.Startpos()
	case "fen":
		end := len(rest)
		for i, tok := range rest {
			if tok == "moves" {
				end = i
				break
			}
		}
		p, err := board.FromFEN(strings.Join(rest[:end], " "))
		if err != nil {
			return nil, err
		}
		pos = p
		rest = rest[end:]
	default:
		return nil, fmt.Errorf("position: unknown form %q", tokens[0])
	}

	if len(rest) > 0 && rest[0] == "moves" {
		for _, uci := range rest[1:] {
			m, ok := pos.MoveFromUCI(uci)
			if !ok {
				return nil, fmt.Errorf("position: illegal move %q", uci)
			}
			pos.MakeMove(m)
		}
	}
	return pos, nil
}

// parseBudget turns go-command options into a single time budget. Clock time
// is spent at a fortieth of the remainder plus half the increment.
func parseBudget(tokens []string, side engine.Color) time.Duration {
	opts := map[string]int{}
	for i := 0; i+1 < len(tokens); i++ {
		if v, err := strconv.Atoi(tokens[i+1]); err == nil {
			opts[strings.ToLower(tokens[i])] = v
		}
	}

	if ms, ok := opts["movetime"]; ok {
		return time.Duration(ms) * time.Millisecond
	}

	remaining, increment := opts["wtime"], opts["winc"]
	if side == engine.Black {
		remaining, increment = opts["btime"], opts["binc"]
	}
	if remaining > 0 {
		ms := remaining/40 + increment/2
		if ms < 1 {
			ms = 1
		}
		return time.Duration(ms) * time.Millisecond
	}

	// "go infinite" and bare "go" get a generous fixed think.
	return 30 * time.Second
}
