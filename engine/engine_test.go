package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEngineSearchFindsMinimaxValue(t *testing.T) {
	var nextID uint64
	const depth = 4
	root := buildTree(depth, 3, &nextID)
	want := plainNegamax(root, depth)

	var infos []SearchInfo
	e := NewEngine(treeEval{},
		WithTableSize(1<<12),
		WithMaxDepth(depth),
		WithProgress(func(info SearchInfo) { infos = append(infos, info) }),
	)

	move := e.Search(newTreePos(root), time.Second)
	require.NotEqual(t, NoMove, move)

	diag := e.Diagnostics()
	require.Equal(t, depth, diag.Depth)
	require.Equal(t, want, diag.Score)
	require.False(t, diag.GameOver)
	require.NotZero(t, diag.Nodes)

	require.Len(t, infos, depth, "one progress report per completed iteration")
	for i, info := range infos {
		require.Equal(t, i+1, info.Depth)
	}
}

func TestEngineSearchTerminalRoot(t *testing.T) {
	t.Run("checkmated root", func(t *testing.T) {
		e := NewEngine(treeEval{}, WithTableSize(64))
		move := e.Search(newTreePos(&treeNode{id: 1, check: true}), time.Second)
		require.Equal(t, NoMove, move)
		require.Equal(t, -MateValue, e.Diagnostics().Score)
		require.True(t, e.Diagnostics().GameOver)
	})

	t.Run("stalemated root", func(t *testing.T) {
		e := NewEngine(treeEval{}, WithTableSize(64))
		move := e.Search(newTreePos(&treeNode{id: 1, eval: 300}), time.Second)
		require.Equal(t, NoMove, move)
		require.Equal(t, DrawScore, e.Diagnostics().Score)
		require.True(t, e.Diagnostics().GameOver)
	})
}

func TestEngineSearchZeroBudget(t *testing.T) {
	var nextID uint64
	root := buildTree(5, 4, &nextID)

	e := NewEngine(treeEval{}, WithTableSize(1 << 10))
	move := e.Search(newTreePos(root), 0)
	require.NotEqual(t, NoMove, move, "depth one always completes")
	require.GreaterOrEqual(t, e.Diagnostics().Depth, 1)
}

func TestEngineSearchResetsTableCounters(t *testing.T) {
	var nextID uint64
	root := buildTree(3, 3, &nextID)

	e := NewEngine(treeEval{}, WithTableSize(1<<10), WithMaxDepth(3))
	e.Search(newTreePos(root), time.Second)

	diag := e.Diagnostics()
	require.NotZero(t, diag.Writes, "the search must have populated the table")
	require.Zero(t, e.tt.Writes(), "counters reset after the call, entries stay")
}

func TestEngineSearchPVStartsWithBestMove(t *testing.T) {
	// Two root moves; the right one leads to the higher leaf.
	low := &treeNode{id: 2, eval: -50}
	high := &treeNode{id: 3, eval: -200} // negamax: worse for the opponent
	root := &treeNode{
		id:       1,
		moves:    []Move{{From: 1, To: 1}, {From: 1, To: 2}},
		children: []*treeNode{low, high},
	}

	e := NewEngine(treeEval{}, WithTableSize(64), WithMaxDepth(1))
	move := e.Search(newTreePos(root), time.Second)
	require.Equal(t, Move{From: 1, To: 2}, move)

	diag := e.Diagnostics()
	require.NotEmpty(t, diag.PV)
	require.Equal(t, move, diag.PV[0])
	require.Equal(t, int32(200), diag.Score)
}

func TestCollectPVStopsOnCycle(t *testing.T) {
	tt := NewTransTable(64)
	// Two nodes pointing at each other through exact entries.
	a := &treeNode{id: 1, moves: []Move{{From: 1, To: 1}}}
	b := &treeNode{id: 2, moves: []Move{{From: 2, To: 1}}}
	a.children = []*treeNode{b}
	b.children = []*treeNode{a}

	tt.Put(1, TTEntry{Move: Move{From: 1, To: 1}, Depth: 3, Score: 10, Flag: ExactNode}, 0)
	tt.Put(2, TTEntry{Move: Move{From: 2, To: 1}, Depth: 3, Score: -10, Flag: ExactNode}, 0)

	pv, score := collectPV(newTreePos(a), tt)
	require.Equal(t, []Move{{From: 1, To: 1}, {From: 2, To: 1}}, pv)
	require.Equal(t, int32(10), score)
}

func TestCollectPVRejectsCollidedMove(t *testing.T) {
	tt := NewTransTable(64)
	root := &treeNode{id: 1, moves: []Move{{From: 1, To: 1}}, children: []*treeNode{{id: 2}}}

	// A colliding write left a move this position cannot play.
	tt.Put(1, TTEntry{Move: Move{From: 9, To: 9}, Depth: 3, Score: 10, Flag: ExactNode}, 0)

	pv, _ := collectPV(newTreePos(root), tt)
	require.Empty(t, pv)
}
