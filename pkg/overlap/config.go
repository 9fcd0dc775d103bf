package overlap

import "runtime"

//Config determines how much of an overlap test is evaluated concurrently.
type Config struct {
	//Workers is the maximal number of goroutines working on one call. A value <= 0 uses one
	//worker per CPU.
	Workers int
	//ParallelThreshold is the number of independent sub-computations (adjacent pairs during the
	//gap scan, interval pairs during pair enumeration) below which a loop runs sequentially.
	ParallelThreshold int
}

//DefaultConfig returns the default configuration of a Detector.
func DefaultConfig() Config {
	return Config{
		Workers:           runtime.NumCPU(),
		ParallelThreshold: 256,
	}
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}
