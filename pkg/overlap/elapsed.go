package overlap

import (
	"fmt"
	"time"
)

const nanosPerSecond = int64(time.Second)

//elapsed is a non saturating amount of time. Unlike time.Duration it holds the distance between
//any two instants of the time.Time range. nsec is always in [0, 1e9).
type elapsed struct {
	sec  int64
	nsec int64
}

//between returns end - start.
func between(start, end time.Time) elapsed {
	return elapsed{
		sec:  end.Unix() - start.Unix(),
		nsec: int64(end.Nanosecond() - start.Nanosecond()),
	}.normalize()
}

func (e elapsed) add(o elapsed) elapsed {
	return elapsed{sec: e.sec + o.sec, nsec: e.nsec + o.nsec}.normalize()
}

func (e elapsed) normalize() elapsed {
	if e.nsec >= nanosPerSecond {
		e.sec += e.nsec / nanosPerSecond
		e.nsec %= nanosPerSecond
	}
	if e.nsec < 0 {
		borrow := (-e.nsec + nanosPerSecond - 1) / nanosPerSecond
		e.sec -= borrow
		e.nsec += borrow * nanosPerSecond
	}
	return e
}

//compare returns -1, 0 or 1 if e is smaller than, equal to or larger than o.
func (e elapsed) compare(o elapsed) int {
	switch {
	case e.sec < o.sec:
		return -1
	case e.sec > o.sec:
		return 1
	case e.nsec < o.nsec:
		return -1
	case e.nsec > o.nsec:
		return 1
	}
	return 0
}

func (e elapsed) String() string {
	return fmt.Sprintf("%d.%09ds", e.sec, e.nsec)
}
