package usecase

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// maxFanOutWorkers caps concurrent upstream fetches inside a single
// request so one large injury list cannot flood the provider.
const maxFanOutWorkers = 8

type indexed[T any] struct {
	index int
	value T
}

// fanOut runs work over every item on a bounded worker pool and returns
// the successful results in input order. Items whose work reports !ok are
// dropped; one failing item never aborts the batch. If the pool cannot be
// created the items are processed serially instead.
func fanOut[I, O any](ctx context.Context, items []I, work func(ctx context.Context, item I) (O, bool)) []O {
	if len(items) == 0 {
		return nil
	}

	workerCount := maxFanOutWorkers
	if len(items) < workerCount {
		workerCount = len(items)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		out := make([]O, 0, len(items))
		for _, item := range items {
			if v, ok := work(ctx, item); ok {
				out = append(out, v)
			}
		}
		return out
	}
	defer pool.Release()

	results := make(chan indexed[O], len(items))

	var workers sync.WaitGroup
	for i, item := range items {
		i, item := i, item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if v, ok := work(ctx, item); ok {
				results <- indexed[O]{index: i, value: v}
			}
		}); err != nil {
			workers.Done()
			if v, ok := work(ctx, item); ok {
				results <- indexed[O]{index: i, value: v}
			}
		}
	}

	workers.Wait()
	close(results)

	byIndex := make([]*O, len(items))
	count := 0
	for r := range results {
		r := r
		byIndex[r.index] = &r.value
		count++
	}

	out := make([]O, 0, count)
	for _, v := range byIndex {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
