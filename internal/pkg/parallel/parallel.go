//Package parallel provides a fork-join loop over independent indices.
package parallel

import (
	"golang.org/x/sync/errgroup"
)

//For calls fn(i) for every i in [0, n) and returns after all calls have completed. At most workers
//calls run at the same time. If workers <= 1 or n < threshold the loop runs on the calling
//goroutine in index order. Calls must not depend on each other.
func For(n, workers, threshold int, fn func(i int)) {
	if workers <= 1 || n < threshold || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	g.Wait()
}
