//Package cbor encodes and decodes interval sets in CBOR.
//
//An encoded set starts with the interval set tag followed by the number of intervals. Each
//interval is an integer keyed map: start (0) and end (2) in unix seconds, the nanoseconds within
//those seconds (1 and 3) and an optional label (4). Splitting seconds and nanoseconds keeps every
//instant of the time.Time range representable.
package cbor

import (
	"fmt"
	"io"
	"time"

	"github.com/britram/borat"

	"github.com/netsec-ethz/overlap/pkg/overlap"
)

const (
	startKey     = 0
	startNanoKey = 1
	endKey       = 2
	endNanoKey   = 3
	labelKey     = 4
)

//IntervalSetTag returns the cbor tag marking an encoded interval set.
func IntervalSetTag() borat.CBORTag {
	return borat.CBORTag(0xE99BA9)
}

//Encode writes ranges to out. A range's payload is encoded as its label if it is a non empty
//string, otherwise it is dropped.
func Encode(out io.Writer, ranges []overlap.Interval) error {
	w := borat.NewCBORWriter(out)
	if err := w.WriteTag(IntervalSetTag()); err != nil {
		return err
	}
	if err := w.WriteInt(len(ranges)); err != nil {
		return err
	}
	for _, r := range ranges {
		m := map[int]interface{}{
			startKey:     int(r.Start().Unix()),
			startNanoKey: r.Start().Nanosecond(),
			endKey:       int(r.End().Unix()),
			endNanoKey:   r.End().Nanosecond(),
		}
		if label, ok := r.Data().(string); ok && label != "" {
			m[labelKey] = label
		}
		if err := w.WriteIntMap(m); err != nil {
			return err
		}
	}
	return nil
}

//Decode reads an interval set written by Encode from in. Labels become the payload of their
//interval. Times are returned in UTC.
func Decode(in io.Reader) ([]overlap.Interval, error) {
	r := borat.NewCBORReader(in)
	tag, err := r.ReadTag()
	if err != nil {
		return nil, fmt.Errorf("failed to read tag: %v", err)
	}
	if tag != IntervalSetTag() {
		return nil, fmt.Errorf("expected tag for interval set but got: %v", tag)
	}
	n, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("failed to read interval count: %v", err)
	}
	if n < 0 {
		return nil, fmt.Errorf("negative interval count: %d", n)
	}
	var ranges []overlap.Interval
	for i := 0; i < n; i++ {
		m, err := r.ReadIntMapUntagged()
		if err != nil {
			return nil, fmt.Errorf("failed to read interval %d: %v", i, err)
		}
		iv, err := decodeInterval(m)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		ranges = append(ranges, iv)
	}
	return ranges, nil
}

func decodeInterval(m map[int]interface{}) (overlap.Interval, error) {
	start, err := decodeTime(m, startKey, startNanoKey)
	if err != nil {
		return overlap.Interval{}, fmt.Errorf("start: %v", err)
	}
	end, err := decodeTime(m, endKey, endNanoKey)
	if err != nil {
		return overlap.Interval{}, fmt.Errorf("end: %v", err)
	}
	iv, err := overlap.New(start, end)
	if err != nil {
		return overlap.Interval{}, err
	}
	if label, ok := m[labelKey]; ok {
		s, ok := label.(string)
		if !ok {
			return overlap.Interval{}, fmt.Errorf("label is not a string: %v", label)
		}
		iv = iv.WithData(s)
	}
	return iv, nil
}

func decodeTime(m map[int]interface{}, secKey, nanoKey int) (time.Time, error) {
	sec, ok := m[secKey].(int)
	if !ok {
		return time.Time{}, fmt.Errorf("seconds missing or malformed: %v", m[secKey])
	}
	nsec, ok := m[nanoKey].(int)
	if !ok {
		return time.Time{}, fmt.Errorf("nanoseconds missing or malformed: %v", m[nanoKey])
	}
	if nsec < 0 || nsec >= int(time.Second) {
		return time.Time{}, fmt.Errorf("nanoseconds out of range: %d", nsec)
	}
	return time.Unix(int64(sec), int64(nsec)).UTC(), nil
}
