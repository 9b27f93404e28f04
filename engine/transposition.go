package engine

import "sync/atomic"

// NodeType classifies what a stored score means relative to the search
// window that produced it.
type NodeType int8

const (
	EmptyNode NodeType = iota
	ExactNode
	LowerBoundNode
	UpperBoundNode
)

// DefaultTableSize is the slot count used when no option overrides it.
const DefaultTableSize = 1 << 22

// TTEntry is one transposition table record. The hash is kept for collision
// detection; the score is stored in the table's ply-independent mate
// encoding and rebased on read.
type TTEntry struct {
	Hash  uint64
	Move  Move
	Depth int
	Score int32
	Flag  NodeType
}

type ttSlot struct {
	gate  int32
	entry TTEntry
}

// TransTable is a fixed-capacity, direct-mapped position cache indexed by
// hash mod capacity. Entries are overwritten in place per the replacement
// policy and reused for the lifetime of the table; nothing is ever deleted.
//
// Each slot carries a compare-and-swap gate so a probe or store from a
// worker that lost the deadline race can never tear an entry that a newer
// run is touching. A contended slot simply reads as absent.
type TransTable struct {
	slots      []ttSlot
	reads      atomic.Uint64
	writes     atomic.Uint64
	collisions atomic.Uint64
}

// NewTransTable allocates a table with the given number of slots.
func NewTransTable(capacity int) *TransTable {
	if capacity < 1 {
		capacity = 1
	}
	return &TransTable{slots: make([]ttSlot, capacity)}
}

func (tt *TransTable) index(hash uint64) int {
	return int(hash % uint64(len(tt.slots)))
}

// Probe reports whether the slot for hash holds this exact position. An
// occupied slot keyed by a different position counts as a collision and
// reads as absent.
func (tt *TransTable) Probe(hash uint64) bool {
	slot := &tt.slots[tt.index(hash)]
	if !atomic.CompareAndSwapInt32(&slot.gate, 0, 1) {
		return false
	}
	defer atomic.StoreInt32(&slot.gate, 0)

	if slot.entry.Flag == EmptyNode {
		return false
	}
	if slot.entry.Hash != hash {
		tt.collisions.Add(1)
		return false
	}
	return true
}

// Get returns the slot entry with mate scores rebased from the table's
// ply-independent encoding to the given distance from the root. Callers are
// expected to Probe first; Get does not re-check the key.
func (tt *TransTable) Get(hash uint64, ply int) TTEntry {
	slot := &tt.slots[tt.index(hash)]
	if !atomic.CompareAndSwapInt32(&slot.gate, 0, 1) {
		return TTEntry{}
	}
	entry := slot.entry
	atomic.StoreInt32(&slot.gate, 0)

	if Abs(entry.Score) == MateValue {
		sign := int32(1)
		if entry.Score < 0 {
			sign = -1
		}
		entry.Score = sign * (MateValue - int32(ply))
	}
	tt.reads.Add(1)
	return entry
}

// Put stores entry under hash, normalizing mate scores to the canonical
// ply-independent magnitude first.
//
// Replacement, in priority order: an empty slot always accepts; an exact
// entry displaces a bound; a bound never displaces an exact entry; otherwise
// the deeper search wins, with ties resolved in favor of the new write.
func (tt *TransTable) Put(hash uint64, entry TTEntry, ply int) {
	slot := &tt.slots[tt.index(hash)]
	if !atomic.CompareAndSwapInt32(&slot.gate, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&slot.gate, 0)

	entry.Hash = hash
	if Abs(entry.Score) >= MateValue-int32(entry.Depth+ply) {
		if entry.Score > 0 {
			entry.Score = MateValue
		} else {
			entry.Score = -MateValue
		}
	}

	saved := slot.entry.Flag
	switch {
	case saved == EmptyNode:
		tt.write(slot, entry)
	case (saved != ExactNode && entry.Flag != ExactNode) || (saved == ExactNode && entry.Flag == ExactNode):
		if slot.entry.Depth <= entry.Depth {
			tt.write(slot, entry)
		}
	case saved != ExactNode:
		tt.write(slot, entry)
	}
}

func (tt *TransTable) write(slot *ttSlot, entry TTEntry) {
	slot.entry = entry
	tt.writes.Add(1)
}

// Reads reports the number of entry fetches since the last counter reset.
func (tt *TransTable) Reads() uint64 { return tt.reads.Load() }

// Writes reports the number of slot overwrites since the last counter reset.
func (tt *TransTable) Writes() uint64 { return tt.writes.Load() }

// Collisions reports probes that found a different position in the slot.
func (tt *TransTable) Collisions() uint64 { return tt.collisions.Load() }

// ResetCounters zeroes the read/write/collision counters without touching
// the stored entries. The controller calls this between top-level searches.
func (tt *TransTable) ResetCounters() {
	tt.reads.Store(0)
	tt.writes.Store(0)
	tt.collisions.Store(0)
}
