package overlap

import "fmt"

//Pair holds two intervals which overlap each other. Pairs are only created by OverlappingPairs.
type Pair struct {
	first  Interval
	second Interval
}

//First returns the interval which comes first in the caller's input
func (p Pair) First() Interval {
	return p.first
}

//Second returns the interval which comes second in the caller's input
func (p Pair) Second() Interval {
	return p.second
}

func (p Pair) String() string {
	return fmt.Sprintf("%s <-> %s", p.first, p.second)
}
