package overlap

import "errors"

var (
	//ErrInvalidArgument is returned when fewer than two ranges are passed to an overlap test.
	ErrInvalidArgument = errors.New("ranges count must be greater than 1")
	//ErrInvalidRange is returned when an interval's end lies before its start.
	ErrInvalidRange = errors.New("interval end is before its start")
)
