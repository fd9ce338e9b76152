package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/dustin/go-humanize"

	"github.com/hailam/chesscore/internal/board"
)

// Bound tells how a stored score relates to the true value of a position.
type Bound uint8

const (
	Exact      Bound = iota // Score is exact
	UpperBound              // Failed low: true value <= score
	LowerBound              // Failed high: true value >= score
)

// String returns the bound name.
func (b Bound) String() string {
	switch b {
	case Exact:
		return "exact"
	case UpperBound:
		return "upper"
	default:
		return "lower"
	}
}

// Number of shards for TT locking (power of 2 for fast modulo)
const ttShardCount = 256
const ttShardMask = ttShardCount - 1

// TTEntry is one slot of the transposition table. Key 0 marks an empty slot.
type TTEntry struct {
	Key      uint64     // Full 64-bit Zobrist key for verification
	BestMove board.Move // Best move found, NoMove if none
	Score    int32
	Depth    int16
	Bound    Bound
}

// ProbeResult is what a lookup yields. BestMove is set on any key match;
// Usable is set only when Score may replace a search of the requested depth
// and window.
type ProbeResult struct {
	Found    bool
	Usable   bool
	Score    int
	BestMove board.Move
}

// TranspositionTable caches search results by Zobrist key in a fixed-size
// array indexed by key modulo capacity. Locking is sharded so that several
// engines may share one table.
type TranspositionTable struct {
	entries []TTEntry
	shards  [ttShardCount]sync.RWMutex
	size    uint64

	// Statistics (atomic for thread-safety)
	probes atomic.Uint64
	hits   atomic.Uint64
	cuts   atomic.Uint64
	stores atomic.Uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	return NewTranspositionTableEntries(uint64(sizeMB) * 1024 * 1024 / entrySize)
}

// NewTranspositionTableEntries creates a table with exactly n slots.
func NewTranspositionTableEntries(n uint64) *TranspositionTable {
	if n == 0 {
		n = 1
	}
	return &TranspositionTable{
		entries: make([]TTEntry, n),
		size:    n,
	}
}

// shardIndex returns the shard index for a given entry index.
func (tt *TranspositionTable) shardIndex(idx uint64) int {
	return int(idx & ttShardMask)
}

// Probe looks up key for a search of the given depth and window.
func (tt *TranspositionTable) Probe(key uint64, depth, alpha, beta int) ProbeResult {
	tt.probes.Add(1)
	if key == 0 {
		return ProbeResult{}
	}

	idx := key % tt.size
	shard := tt.shardIndex(idx)

	tt.shards[shard].RLock()
	entry := tt.entries[idx]
	tt.shards[shard].RUnlock()

	if entry.Key != key {
		return ProbeResult{}
	}
	tt.hits.Add(1)

	res := ProbeResult{Found: true, BestMove: entry.BestMove}
	if int(entry.Depth) < depth {
		return res
	}

	score := int(entry.Score)
	switch {
	case entry.Bound == Exact:
		res.Usable, res.Score = true, score
	case entry.Bound == UpperBound && score <= alpha:
		res.Usable, res.Score = true, alpha
	case entry.Bound == LowerBound && score >= beta:
		res.Usable, res.Score = true, beta
	}
	if res.Usable {
		tt.cuts.Add(1)
	}
	return res
}

// Store saves a search result. An entry for the same key is only replaced
// by a search at least as deep; an entry for another key is overwritten.
func (tt *TranspositionTable) Store(key uint64, score, depth int, bound Bound, bestMove board.Move) {
	if key == 0 {
		return
	}
	idx := key % tt.size
	shard := tt.shardIndex(idx)

	tt.shards[shard].Lock()
	entry := &tt.entries[idx]
	if entry.Key != key || depth >= int(entry.Depth) {
		*entry = TTEntry{
			Key:      key,
			BestMove: bestMove,
			Score:    int32(score),
			Depth:    int16(depth),
			Bound:    bound,
		}
		tt.stores.Add(1)
	}
	tt.shards[shard].Unlock()
}

// Clear empties the table and resets the statistics.
func (tt *TranspositionTable) Clear() {
	for i := range tt.shards {
		tt.shards[i].Lock()
	}
	clear(tt.entries)
	for i := range tt.shards {
		tt.shards[i].Unlock()
	}
	tt.probes.Store(0)
	tt.hits.Store(0)
	tt.cuts.Store(0)
	tt.stores.Store(0)
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable) HashFull() int {
	// Sample first 1000 entries
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}

	for i := 0; i < sampleSize; i++ {
		shard := tt.shardIndex(uint64(i))
		tt.shards[shard].RLock()
		if tt.entries[i].Key != 0 {
			used++
		}
		tt.shards[shard].RUnlock()
	}

	return (used * 1000) / sampleSize
}

// HitRate returns the share of probes that matched a key, as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	probes := tt.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(tt.hits.Load()) / float64(probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}

// Stats summarises table usage for logs and the UCI "d" command.
func (tt *TranspositionTable) Stats() string {
	return fmt.Sprintf("tt: %s slots, %s probes, %s hits (%.1f%%), %s cutoffs, %s stores, %d‰ full",
		humanize.Comma(int64(tt.size)),
		humanize.Comma(int64(tt.probes.Load())),
		humanize.Comma(int64(tt.hits.Load())),
		tt.HitRate(),
		humanize.Comma(int64(tt.cuts.Load())),
		humanize.Comma(int64(tt.stores.Load())),
		tt.HashFull())
}
