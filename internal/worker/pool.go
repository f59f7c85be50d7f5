package worker

import "runtime"

// minChunk keeps small inputs from being split into many tiny jobs.
const minChunk = 4096

// Workers normalizes a requested worker count. Zero or negative means one
// worker per CPU.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Pool runs fn over every range on up to workers goroutines and returns
// once all of them have finished. fn must only touch data owned by its
// range. With a single worker the ranges run in order on the caller's
// goroutine.
func Pool(ranges []Range, workers int, fn func(Range)) {
	if workers <= 1 || len(ranges) <= 1 {
		for _, r := range ranges {
			fn(r)
		}
		return
	}

	jobs := make(chan Range, workers)
	done := make(chan struct{}, len(ranges))

	for i := 0; i < workers; i++ {
		go func() {
			for r := range jobs {
				fn(r)
				done <- struct{}{}
			}
		}()
	}

	for _, r := range ranges {
		jobs <- r
	}
	close(jobs)

	for i := 0; i < len(ranges); i++ {
		<-done
	}
}

// ForEach splits n items into ranges sized for workers and runs fn over
// them with Pool.
func ForEach(n, workers int, fn func(Range)) {
	if n <= 0 {
		return
	}
	size := n
	if workers > 1 {
		size = max(minChunk, (n+workers*4-1)/(workers*4))
	}
	Pool(Chunk(n, size), workers, fn)
}
