package async

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Result is the outcome of one task.
type Result struct {
	Name string
	Err  error
}

// RunBounded executes tasks with at most limit running concurrently and
// waits for all of them. A failing task does not cancel the others. Results
// are returned in task order. A limit below one runs tasks sequentially.
//
// Example:
//
//	results := RunBounded(ctx, 2, []Task{
//	    {Name: "http", Func: reconcileHTTP},
//	    {Name: "https", Func: reconcileHTTPS},
//	})
func RunBounded(ctx context.Context, limit int, tasks []Task) []Result {
	results := make([]Result, len(tasks))
	if len(tasks) == 0 {
		return results
	}
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = Result{Name: task.Name, Err: task.Func(ctx)}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
