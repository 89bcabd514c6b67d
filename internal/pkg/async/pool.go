// Package async runs independent named tasks on a bounded worker pool. The
// overview endpoint uses it to fetch and aggregate every site concurrently.
package async

import (
	"context"
	"sync"
)

// Task is one unit of work identified by name.
type Task struct {
	Name    string
	Execute func() (any, error)
}

// Result pairs a task's name with its outcome.
type Result struct {
	Name string
	Data any
	Err  error
}

// Pool fans tasks out over a fixed number of workers.
type Pool struct {
	workerCount int
}

// NewPool creates a pool with the given worker count.
func NewPool(workerCount int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{workerCount: workerCount}
}

// Execute runs all tasks and returns their results keyed by task name. It
// returns early with whatever has completed when ctx is cancelled.
func (p *Pool) Execute(ctx context.Context, tasks []Task) map[string]Result {
	queue := make(chan Task)
	out := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case task, ok := <-queue:
					if !ok {
						return
					}
					data, err := task.Execute()
					select {
					case out <- Result{Name: task.Name, Data: data, Err: err}:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, task := range tasks {
			select {
			case queue <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	results := make(map[string]Result, len(tasks))
	for range tasks {
		select {
		case result := <-out:
			results[result.Name] = result
		case <-ctx.Done():
			return results
		}
	}

	wg.Wait()
	close(out)
	return results
}
