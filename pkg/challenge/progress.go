package challenge

import (
	"encoding/binary"
	"sort"

	"github.com/spaolacci/murmur3"
)

// Progress tracks one player's completed levels and attempts.
// Not safe for concurrent use.
type Progress struct {
	completed map[int]bool
	seen      map[int]map[uint64]struct{}
	attempts  int
}

// NewProgress returns empty progress.
func NewProgress() *Progress {
	return &Progress{
		completed: make(map[int]bool),
		seen:      make(map[int]map[uint64]struct{}),
	}
}

// Record notes an attempt and reports whether it completed its level for
// the first time. Repeat successes on a completed level change nothing
// but the attempt counters.
func (p *Progress) Record(a Attempt) bool {
	p.attempts++
	fp := fingerprint(a.Level, a.Input)
	if p.seen[a.Level] == nil {
		p.seen[a.Level] = make(map[uint64]struct{})
	}
	p.seen[a.Level][fp] = struct{}{}

	if !a.Succeeded() || p.completed[a.Level] {
		return false
	}
	p.completed[a.Level] = true
	return true
}

// IsCompleted reports whether level has been solved.
func (p *Progress) IsCompleted(level int) bool { return p.completed[level] }

// Completed returns the solved level indexes in ascending order.
func (p *Progress) Completed() []int {
	out := make([]int, 0, len(p.completed))
	for lv := range p.completed {
		out = append(out, lv)
	}
	sort.Ints(out)
	return out
}

// CompletedCount is len(Completed()).
func (p *Progress) CompletedCount() int { return len(p.completed) }

// Attempts returns the total number of recorded attempts.
func (p *Progress) Attempts() int { return p.attempts }

// DistinctAttempts returns how many different submissions were made to
// level.
func (p *Progress) DistinctAttempts(level int) int { return len(p.seen[level]) }

// Reset forgets everything.
func (p *Progress) Reset() {
	clear(p.completed)
	clear(p.seen)
	p.attempts = 0
}

func fingerprint(level int, input string) uint64 {
	h := murmur3.New64()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(level))
	h.Write(buf[:])
	h.Write([]byte(input))
	return h.Sum64()
}
