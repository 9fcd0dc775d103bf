package overlap

import (
	"fmt"
	"time"
)

//Interval is a closed time range [start, end]. The zero value is a zero-length interval at the
//zero time. An Interval is immutable; the With* methods return modified copies which always
//satisfy start <= end.
type Interval struct {
	start time.Time
	end   time.Time
	//data is never used in any calculation. It lets a caller identify which of its objects
	//conflict after OverlappingPairs returns.
	data interface{}
}

//New returns the interval [start, end]. It returns ErrInvalidRange if end is before start.
func New(start, end time.Time) (Interval, error) {
	if end.Before(start) {
		return Interval{}, fmt.Errorf("%w: end=%s is before start=%s", ErrInvalidRange,
			end.Format(time.RFC3339Nano), start.Format(time.RFC3339Nano))
	}
	return Interval{start: start, end: end}, nil
}

//Start returns the beginning of the interval
func (i Interval) Start() time.Time {
	return i.start
}

//End returns the end of the interval
func (i Interval) End() time.Time {
	return i.end
}

//Span returns the length of the interval. It is never negative and saturates at the maximal
//time.Duration for intervals longer than about 292 years.
func (i Interval) Span() time.Duration {
	return i.end.Sub(i.start)
}

//Data returns the payload attached with WithData
func (i Interval) Data() interface{} {
	return i.data
}

//WithStart returns a copy of i starting at t. If t is after i's end, the end is moved up to t and
//the copy has zero length.
func (i Interval) WithStart(t time.Time) Interval {
	if t.After(i.end) {
		i.end = t
	}
	i.start = t
	return i
}

//WithEnd returns a copy of i ending at t. If t is before i's start, the start is moved down to t
//and the copy has zero length.
func (i Interval) WithEnd(t time.Time) Interval {
	if t.Before(i.start) {
		i.start = t
	}
	i.end = t
	return i
}

//WithData returns a copy of i carrying data as its payload.
func (i Interval) WithData(data interface{}) Interval {
	i.data = data
	return i
}

//Equal reports whether i and o cover the same instants. Payloads are ignored.
func (i Interval) Equal(o Interval) bool {
	return i.start.Equal(o.start) && i.end.Equal(o.end)
}

func (i Interval) String() string {
	s := fmt.Sprintf("[%s, %s]", i.start.Format(time.RFC3339Nano), i.end.Format(time.RFC3339Nano))
	if i.data != nil {
		s = fmt.Sprintf("%s(%v)", s, i.data)
	}
	return s
}
