// Command searchbench runs timed searches over a small position suite and
// reports node throughput. Positions run concurrently, one engine each.
package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"kestrel-engine/board"
	"kestrel-engine/engine"
	"kestrel-engine/eval"
)

var suite = []struct {
	name string
	fen  string
}{
	{"startpos", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"},
	{"endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"},
	{"tactics", "r2q1rk1/pp2ppbp/2np1np1/8/2BNP1b1/2N1B3/PPP2PPP/R2Q1RK1 w - - 0 9"},
	{"promotion race", "8/5P2/8/8/8/8/2p5/K6k w - - 0 1"},
}

func main() {
	movetime := flag.Int("movetime", 1000, "time budget per position in milliseconds")
	maxDepth := flag.Int("maxdepth", 0, "depth cap per position (0 = unlimited)")
	fen := flag.String("fen", "", "bench a single FEN instead of the suite")
	jobs := flag.Int("jobs", runtime.NumCPU(), "positions searched concurrently")
	verbose := flag.Bool("v", false, "log per-iteration progress")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write heap profile to file")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			logger.Fatal().Err(err).Msg("create cpu profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal().Err(err).Msg("start cpu profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	positions := suite
	if *fen != "" {
		positions = []struct{ name, fen string }{{"custom", *fen}}
	}

	budget := time.Duration(*movetime) * time.Millisecond
	var totalNodes atomic.Uint64
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(*jobs)
	for _, p := range positions {
		p := p
		g.Go(func() error {
			pos, err := board.FromFEN(p.fen)
			if err != nil {
				return err
			}

			plog := logger.With().Str("position", p.name).Logger()
			opts := []engine.Option{engine.WithLogger(plog)}
			if *maxDepth > 0 {
				opts = append(opts, engine.WithMaxDepth(*maxDepth))
			}
			if *verbose {
				opts = append(opts, engine.WithProgress(func(info engine.SearchInfo) {
					plog.Info().
						Int("depth", info.Depth).
						Int32("score", info.Score).
						Uint64("nodes", info.Nodes).
						Msg("iteration")
				}))
			}

			eng := engine.NewEngine(eval.NewPieceSquare(), opts...)
			move := eng.Search(pos, budget)

			diag := eng.Diagnostics()
			totalNodes.Add(diag.Nodes)
			plog.Info().
				Stringer("bestmove", move).
				Int("depth", diag.Depth).
				Int32("score", diag.Score).
				Uint64("nodes", diag.Nodes).
				Uint64("tt_writes", diag.Writes).
				Uint64("tt_collisions", diag.Collisions).
				Dur("elapsed", diag.Elapsed).
				Msg("done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("bench failed")
	}

	elapsed := time.Since(start)
	nodes := totalNodes.Load()
	nps := uint64(0)
	if elapsed > 0 {
		nps = uint64(float64(nodes) / elapsed.Seconds())
	}
	logger.Info().
		Uint64("nodes", nodes).
		Dur("elapsed", elapsed).
		Uint64("nps", nps).
		Msg("suite complete")

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			logger.Fatal().Err(err).Msg("create heap profile")
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			logger.Fatal().Err(err).Msg("write heap profile")
		}
	}
}
