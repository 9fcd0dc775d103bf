//Package overlap decides whether a set of time intervals overlap and which pairs of them do.
//
//Instead of comparing every interval with every other one, HasOverlap sorts the intervals, measures
//the gaps between neighbors and compares the sum of all interval and gap spans with the span of
//the envelope. Any double-counted time makes the sum exceed the envelope. Intervals which only
//touch at their endpoints tile the envelope exactly; whether touching counts as an overlap is
//chosen by the caller with testEndpoints.
package overlap

import (
	"fmt"
	"sort"
	"time"

	log "github.com/inconshreveable/log15"

	"github.com/netsec-ethz/overlap/internal/pkg/datastructures/set"
	"github.com/netsec-ethz/overlap/internal/pkg/parallel"
)

//Detector runs overlap tests according to its Config. A Detector has no mutable state and can be
//used concurrently.
type Detector struct {
	conf Config
}

//NewDetector returns a Detector using conf.
func NewDetector(conf Config) *Detector {
	return &Detector{conf: conf}
}

//HasOverlap reports whether any two of ranges overlap using the default configuration.
//See Detector.HasOverlap.
func HasOverlap(testEndpoints bool, ranges ...Interval) (bool, error) {
	return NewDetector(DefaultConfig()).HasOverlap(testEndpoints, ranges...)
}

//OverlappingPairs returns all overlapping pairs of ranges using the default configuration.
//See Detector.OverlappingPairs.
func OverlappingPairs(testEndpoints bool, ranges ...Interval) ([]Pair, error) {
	return NewDetector(DefaultConfig()).OverlappingPairs(testEndpoints, ranges...)
}

//HasOverlap returns true if at least two of ranges overlap. If testEndpoints is true, intervals
//sharing only an endpoint count as overlapping, and so does a zero-length interval. It returns
//ErrInvalidArgument if fewer than two ranges are given.
func (d *Detector) HasOverlap(testEndpoints bool, ranges ...Interval) (bool, error) {
	if len(ranges) < 2 {
		return false, fmt.Errorf("%w: got %d", ErrInvalidArgument, len(ranges))
	}
	return d.hasOverlap(testEndpoints, ranges), nil
}

//OverlappingPairs returns every unordered pair of ranges which overlap according to
//testEndpoints. Each pair appears once, its intervals in input order, and pairs are sorted by the
//input positions of their intervals. The result is empty if nothing overlaps. It returns
//ErrInvalidArgument if fewer than two ranges are given.
func (d *Detector) OverlappingPairs(testEndpoints bool, ranges ...Interval) ([]Pair, error) {
	if len(ranges) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidArgument, len(ranges))
	}
	if !d.hasOverlap(testEndpoints, ranges) {
		return []Pair{}, nil
	}
	candidates := make([]pairIndex, 0, len(ranges)*(len(ranges)-1)/2)
	for i := 0; i < len(ranges)-1; i++ {
		for j := i + 1; j < len(ranges); j++ {
			candidates = append(candidates, pairIndex{i, j})
		}
	}
	found := set.New()
	parallel.For(len(candidates), d.conf.workers(), d.conf.ParallelThreshold, func(k int) {
		c := candidates[k]
		if d.hasOverlap(testEndpoints, []Interval{ranges[c.i], ranges[c.j]}) {
			found.Add(c)
		}
	})
	hits := found.GetAllAndDelete()
	indices := make([]pairIndex, len(hits))
	for k, h := range hits {
		indices[k] = h.(pairIndex)
	}
	sort.Slice(indices, func(a, b int) bool { return indices[a].less(indices[b]) })
	pairs := make([]Pair, len(indices))
	for k, idx := range indices {
		pairs[k] = Pair{first: ranges[idx.i], second: ranges[idx.j]}
	}
	log.Debug("enumerated overlapping pairs", "ranges", len(ranges), "candidates",
		len(candidates), "pairs", len(pairs))
	return pairs, nil
}

//pairIndex identifies an unordered pair of input positions with i < j.
type pairIndex struct {
	i, j int
}

func (p pairIndex) less(o pairIndex) bool {
	if p.i != o.i {
		return p.i < o.i
	}
	return p.j < o.j
}

//hasOverlap expects at least two ranges.
func (d *Detector) hasOverlap(testEndpoints bool, ranges []Interval) bool {
	sorted := sortByStart(ranges)
	sum, total := d.measure(sorted)
	switch sum.compare(total) {
	case -1:
		log.Error("sum of spans and gaps is smaller than the envelope", "sum", sum, "total", total,
			"ranges", len(ranges))
		return false
	case 1:
		return true
	}
	if !testEndpoints {
		return false
	}
	return touching(sorted)
}

//measure returns the sum of all interval and gap spans of sorted and the span of its envelope.
//sorted must be ordered by start.
func (d *Detector) measure(sorted []Interval) (sum, total elapsed) {
	for _, r := range sorted {
		sum = sum.add(between(r.start, r.end))
	}
	for _, g := range d.gaps(sorted) {
		sum = sum.add(between(g.start, g.end))
	}
	env := envelope(sorted)
	return sum, between(env.start, env.end)
}

//gaps returns the uncovered intervals between neighbors of sorted in ascending order. sorted must
//be ordered by start.
func (d *Detector) gaps(sorted []Interval) []Interval {
	n := len(sorted) - 1
	if n < 1 {
		return nil
	}
	slots := make([]Interval, n)
	isGap := make([]bool, n)
	parallel.For(n, d.conf.workers(), d.conf.ParallelThreshold, func(i int) {
		if sorted[i].end.Before(sorted[i+1].start) {
			slots[i] = Interval{start: sorted[i].end, end: sorted[i+1].start}
			isGap[i] = true
		}
	})
	var gaps []Interval
	for i, ok := range isGap {
		if ok {
			gaps = append(gaps, slots[i])
		}
	}
	return gaps
}

//touching returns true if some interval of sorted starts at the instant another one, or the same
//one, ends.
func touching(sorted []Interval) bool {
	ends := make(map[time.Time]bool, len(sorted))
	for _, r := range sorted {
		ends[instantKey(r.end)] = true
	}
	for _, r := range sorted {
		if ends[instantKey(r.start)] {
			return true
		}
	}
	return false
}

//instantKey normalizes t such that equal instants are equal map keys.
func instantKey(t time.Time) time.Time {
	return t.UTC().Round(0)
}

func sortByStart(ranges []Interval) []Interval {
	sorted := make([]Interval, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start.Before(sorted[j].start) })
	return sorted
}

//envelope expects at least one range.
func envelope(ranges []Interval) Interval {
	env := Interval{start: ranges[0].start, end: ranges[0].end}
	for _, r := range ranges[1:] {
		if r.start.Before(env.start) {
			env.start = r.start
		}
		if r.end.After(env.end) {
			env.end = r.end
		}
	}
	return env
}

//Envelope returns the smallest interval containing all ranges. It returns ErrInvalidArgument if
//ranges is empty.
func Envelope(ranges ...Interval) (Interval, error) {
	if len(ranges) == 0 {
		return Interval{}, fmt.Errorf("%w: envelope of no ranges", ErrInvalidArgument)
	}
	return envelope(ranges), nil
}

//Gaps returns the time between the earliest start and the latest end of ranges which no range
//covers, as intervals in ascending order. Touching ranges leave no gap.
func Gaps(ranges ...Interval) []Interval {
	if len(ranges) == 0 {
		return nil
	}
	sorted := sortByStart(ranges)
	var gaps []Interval
	reach := sorted[0].end
	for _, r := range sorted[1:] {
		if reach.Before(r.start) {
			gaps = append(gaps, Interval{start: reach, end: r.start})
		}
		if r.end.After(reach) {
			reach = r.end
		}
	}
	return gaps
}
