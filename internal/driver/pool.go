package driver

import "sync"

// launch is a generalized form of the teacher's
// github.com/Emeline-1/pool dependency (pool.Launch_pool(n, items, fn)):
// a bounded worker pool that runs fn once per item, capped at n
// concurrent workers. Reimplemented in-tree against this package's own
// item type instead of importing the original module, which assumed
// string-keyed AS probing items; §5's per-prefix tasks need a richer
// payload and a captured return value per task.
func launch(n int, items int, fn func(i int)) {
	if n <= 0 {
		n = 1
	}
	if n > items {
		n = items
	}
	sem := make(chan struct{}, n)
	var wg sync.WaitGroup
	for i := 0; i < items; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}
