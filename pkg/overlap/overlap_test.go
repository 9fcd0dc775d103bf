package overlap

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interval(t *testing.T, start, end time.Time, label string) Interval {
	iv, err := New(start, end)
	require.NoError(t, err)
	return iv.WithData(label)
}

func day(d int) time.Time {
	return date(1, 1).AddDate(0, 0, d-1)
}

func TestHasOverlapTooFewRanges(t *testing.T) {
	a := interval(t, date(1, 1), date(1, 10), "a")
	for _, ranges := range [][]Interval{nil, {a}} {
		_, err := HasOverlap(true, ranges...)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = HasOverlap(false, ranges...)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		pairs, err := OverlappingPairs(true, ranges...)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Nil(t, pairs)
	}
}

func TestHasOverlap(t *testing.T) {
	var tests = []struct {
		name          string
		ranges        [][2]time.Time
		withEndpoints bool
		noEndpoints   bool
	}{
		{"disjoint", [][2]time.Time{{date(1, 1), date(1, 10)}, {date(2, 1), date(2, 10)}}, false, false},
		{"touching", [][2]time.Time{{date(1, 1), date(1, 10)}, {date(1, 10), date(1, 20)}}, true, false},
		{"overlapping", [][2]time.Time{{date(1, 1), date(1, 10)}, {date(1, 5), date(1, 15)}}, true, true},
		{"contained", [][2]time.Time{{date(1, 1), date(1, 10)}, {date(1, 3), date(1, 4)}}, true, true},
		{"identical", [][2]time.Time{{date(1, 1), date(1, 10)}, {date(1, 1), date(1, 10)}}, true, true},
		{"chain", [][2]time.Time{{day(1), day(5)}, {day(5), day(10)}, {day(10), day(15)}}, true, false},
		{"unsorted chain", [][2]time.Time{{day(10), day(15)}, {day(1), day(5)}, {day(5), day(10)}}, true, false},
		{"gaps", [][2]time.Time{{day(1), day(2)}, {day(4), day(6)}, {day(8), day(9)}}, false, false},
		{"gap and overlap", [][2]time.Time{{day(1), day(2)}, {day(4), day(6)}, {day(5), day(9)}}, true, true},
		{"contained behind gap", [][2]time.Time{{day(1), day(10)}, {day(2), day(3)}, {day(5), day(6)}}, true, true},
		{"zero length inside", [][2]time.Time{{day(1), day(10)}, {day(5), day(5)}}, true, false},
		{"zero length apart", [][2]time.Time{{day(1), day(5)}, {day(7), day(7)}, {day(10), day(12)}}, true, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var ranges []Interval
			for _, r := range test.ranges {
				ranges = append(ranges, interval(t, r[0], r[1], ""))
			}
			actual, err := HasOverlap(true, ranges...)
			require.NoError(t, err)
			assert.Equal(t, test.withEndpoints, actual, "testEndpoints=true")
			actual, err = HasOverlap(false, ranges...)
			require.NoError(t, err)
			assert.Equal(t, test.noEndpoints, actual, "testEndpoints=false")
		})
	}
}

func TestOverlappingPairs(t *testing.T) {
	a := interval(t, day(1), day(5), "A")
	b := interval(t, day(5), day(10), "B")
	c := interval(t, day(10), day(15), "C")

	pairs, err := OverlappingPairs(false, a, b, c)
	require.NoError(t, err)
	assert.NotNil(t, pairs)
	assert.Empty(t, pairs)

	pairs, err = OverlappingPairs(true, a, b, c)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"A", "B"}, {"B", "C"}}, labels(pairs))

	pairs, err = OverlappingPairs(true, c, b, a)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"C", "B"}, {"B", "A"}}, labels(pairs))

	early := interval(t, date(1, 1), date(1, 10), "early")
	late := interval(t, date(2, 1), date(2, 10), "late")
	pairs, err = OverlappingPairs(true, early, late)
	require.NoError(t, err)
	assert.Empty(t, pairs)

	d := interval(t, day(3), day(12), "D")
	pairs, err = OverlappingPairs(false, a, b, c, d)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"A", "D"}, {"B", "D"}, {"C", "D"}}, labels(pairs))
}

func TestOverlappingPairsKeepsPayload(t *testing.T) {
	type booking struct{ id int }
	a := interval(t, day(1), day(10), "").WithData(&booking{1})
	b := interval(t, day(10), day(20), "").WithData(&booking{2})
	pairs, err := OverlappingPairs(true, a, b)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, 1, pairs[0].First().Data().(*booking).id)
	assert.Equal(t, 2, pairs[0].Second().Data().(*booking).id)
	assert.True(t, pairs[0].First().Equal(a))
	assert.True(t, pairs[0].Second().Equal(b))
}

func labels(pairs []Pair) [][2]string {
	out := [][2]string{}
	for _, p := range pairs {
		out = append(out, [2]string{p.First().Data().(string), p.Second().Data().(string)})
	}
	return out
}

//eras are far enough apart that envelopes spanning several of them exceed time.Duration.
var eras = []time.Time{
	{},
	time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC),
	date(1, 1),
	time.Date(2500, 6, 1, 0, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)),
	time.Date(9000, 1, 1, 0, 0, 0, 0, time.UTC),
}

//randomIntervals returns short intervals of positive length, mostly around 2020 but occasionally
//in another era.
func randomIntervals(r *rand.Rand, n int) []Interval {
	ranges := make([]Interval, n)
	for i := range ranges {
		base := date(1, 1)
		if r.Intn(4) == 0 {
			base = eras[r.Intn(len(eras))]
		}
		start := base.Add(time.Duration(r.Intn(200)) * time.Hour)
		end := start.Add(time.Duration(1+r.Intn(20)) * time.Hour)
		ranges[i] = Interval{start: start, end: end, data: i}
	}
	return ranges
}

//naiveOverlap compares two intervals of positive length directly.
func naiveOverlap(testEndpoints bool, a, b Interval) bool {
	if testEndpoints {
		return !a.start.After(b.end) && !b.start.After(a.end)
	}
	return a.start.Before(b.end) && b.start.Before(a.end)
}

func TestRandomProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	sequential := NewDetector(Config{Workers: 1})
	concurrent := NewDetector(Config{Workers: 8, ParallelThreshold: 1})
	for run := 0; run < 200; run++ {
		ranges := randomIntervals(r, 2+r.Intn(12))

		sum, total := sequential.measure(sortByStart(ranges))
		require.True(t, sum.compare(total) >= 0, "run %d: sum=%v of spans below envelope=%v", run, sum, total)

		for _, testEndpoints := range []bool{true, false} {
			has, err := sequential.HasOverlap(testEndpoints, ranges...)
			require.NoError(t, err)
			again, _ := sequential.HasOverlap(testEndpoints, ranges...)
			assert.Equal(t, has, again, "run %d: not idempotent", run)
			parallelHas, _ := concurrent.HasOverlap(testEndpoints, ranges...)
			assert.Equal(t, has, parallelHas, "run %d: parallel result differs", run)

			var expected [][2]int
			for i := 0; i < len(ranges)-1; i++ {
				for j := i + 1; j < len(ranges); j++ {
					if naiveOverlap(testEndpoints, ranges[i], ranges[j]) {
						expected = append(expected, [2]int{i, j})
					}
				}
			}
			assert.Equal(t, len(expected) > 0, has, "run %d: aggregate test disagrees with pairwise", run)

			for _, d := range []*Detector{sequential, concurrent} {
				pairs, err := d.OverlappingPairs(testEndpoints, ranges...)
				require.NoError(t, err)
				var actual [][2]int
				for _, p := range pairs {
					actual = append(actual, [2]int{p.First().Data().(int), p.Second().Data().(int)})
				}
				assert.Equal(t, expected, actual, "run %d: wrong pairs", run)
			}
		}

		withEndpoints, _ := sequential.HasOverlap(true, ranges...)
		withoutEndpoints, _ := sequential.HasOverlap(false, ranges...)
		if !withEndpoints {
			assert.False(t, withoutEndpoints, "run %d: endpoints flag removed an overlap", run)
		}
	}
}

func TestSymmetry(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for run := 0; run < 100; run++ {
		ranges := randomIntervals(r, 2)
		for _, testEndpoints := range []bool{true, false} {
			ab, _ := HasOverlap(testEndpoints, ranges[0], ranges[1])
			ba, _ := HasOverlap(testEndpoints, ranges[1], ranges[0])
			assert.Equal(t, ab, ba, "run %d", run)
		}
	}
}

func TestLongEnvelope(t *testing.T) {
	a := interval(t, time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(1700, 1, 10, 0, 0, 0, 0, time.UTC), "a")
	b := interval(t, time.Date(1700, 1, 5, 0, 0, 0, 0, time.UTC), time.Date(1700, 1, 20, 0, 0, 0, 0, time.UTC), "b")
	c := interval(t, date(1, 1), date(1, 2), "c")
	far := interval(t, time.Date(9000, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(9000, 1, 2, 0, 0, 0, 0, time.UTC), "far")

	for _, testEndpoints := range []bool{true, false} {
		has, err := HasOverlap(testEndpoints, a, b, c, far)
		require.NoError(t, err)
		assert.True(t, has, "testEndpoints=%v", testEndpoints)
		pairs, err := OverlappingPairs(testEndpoints, a, b, c, far)
		require.NoError(t, err)
		assert.Equal(t, [][2]string{{"a", "b"}}, labels(pairs))

		has, err = HasOverlap(testEndpoints, a, c, far)
		require.NoError(t, err)
		assert.False(t, has, "testEndpoints=%v", testEndpoints)
	}

	sum, total := NewDetector(DefaultConfig()).measure(sortByStart([]Interval{a, c, far}))
	assert.Equal(t, 0, sum.compare(total), "sum=%v total=%v", sum, total)
}

func TestZeroValueNextToModernInterval(t *testing.T) {
	modern := interval(t, date(1, 1), date(1, 10), "")
	has, err := HasOverlap(true, Interval{}, modern)
	require.NoError(t, err)
	assert.True(t, has, "zero-length default interval matches itself")
	has, err = HasOverlap(false, Interval{}, modern)
	require.NoError(t, err)
	assert.False(t, has)

	inside := Interval{}.WithEnd(date(1, 2)).WithStart(date(1, 1))
	has, err = HasOverlap(false, Interval{}.WithEnd(date(1, 5)), inside)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestElapsed(t *testing.T) {
	var tests = []struct {
		start, end time.Time
		sec, nsec  int64
	}{
		{date(1, 1), date(1, 1), 0, 0},
		{date(1, 1), date(1, 1).Add(1500 * time.Millisecond), 1, 500000000},
		{date(1, 1).Add(900 * time.Millisecond), date(1, 1).Add(2100 * time.Millisecond), 1, 200000000},
		{date(1, 1).Add(time.Second), date(1, 1).Add(100 * time.Millisecond), -1, 100000000},
		{time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), 315537811200, 0},
	}
	for i, test := range tests {
		e := between(test.start, test.end)
		if e.sec != test.sec || e.nsec != test.nsec {
			t.Errorf("%d: wrong elapsed time. expected=%d.%09d, actual=%v", i, test.sec, test.nsec, e)
		}
	}
	half := elapsed{nsec: 500000000}
	if sum := half.add(half).add(half); sum.compare(elapsed{sec: 1, nsec: 500000000}) != 0 {
		t.Errorf("carry lost: %v", sum)
	}
	if half.compare(elapsed{sec: 1}) != -1 || (elapsed{sec: 1}).compare(half) != 1 {
		t.Error("compare ignores seconds")
	}
}

func TestGapsAndEnvelope(t *testing.T) {
	ranges := []Interval{
		interval(t, day(8), day(9), ""),
		interval(t, day(1), day(5), ""),
		interval(t, day(2), day(3), ""),
		interval(t, day(5), day(6), ""),
	}
	gaps := Gaps(ranges...)
	require.Len(t, gaps, 1)
	assert.True(t, gaps[0].Equal(interval(t, day(6), day(8), "")), "gap=%v", gaps[0])

	env, err := Envelope(ranges...)
	require.NoError(t, err)
	assert.True(t, env.Equal(interval(t, day(1), day(9), "")), "envelope=%v", env)

	//time covered by an earlier, longer range is no gap
	assert.Empty(t, Gaps(
		interval(t, day(1), day(10), ""),
		interval(t, day(2), day(3), ""),
		interval(t, day(5), day(6), ""),
	))

	_, err = Envelope()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, Gaps())
}
