package strategies

import (
	"context"
	"sync"
	"time"

	workerpool "github.com/dsugiyama/argobots"
)

// WorkStealingStrategy distributes jobs across per-worker argobots deques
// (workerpool.JobDeque) and lets idle workers steal from their peers.
type WorkStealingStrategy[T any, R any] struct{}

// Name returns the strategy name
func (s *WorkStealingStrategy[T, R]) Name() string {
	return "Work Stealing"
}

// Execute runs the work stealing distribution strategy
func (s *WorkStealingStrategy[T, R]) Execute(ctx context.Context, config *workerpool.Config,
	jobs []workerpool.Job[T], processor workerpool.Processor[T, R],
	results chan<- workerpool.Result[R]) error {

	var wg sync.WaitGroup

	// Create one deque per worker
	deques := make([]*workerpool.JobDeque[T], config.NumWorkers)
	for i := 0; i < config.NumWorkers; i++ {
		deques[i] = workerpool.NewJobDeque[T](len(jobs)/config.NumWorkers + 1)
	}

	// Distribute jobs initially across worker deques (round-robin)
	for i, job := range jobs {
		workerIndex := i % config.NumWorkers
		deques[workerIndex].Push(job)
	}

	// Start work stealing workers
	for i := 0; i < config.NumWorkers; i++ {
		wg.Add(1)
		go s.workStealingWorker(i, deques, &wg, processor, results, config, ctx)
	}

	wg.Wait()
	close(results)

	// Check if context was cancelled during execution
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// workStealingWorker implements work stealing behavior
func (s *WorkStealingStrategy[T, R]) workStealingWorker(id int, deques []*workerpool.JobDeque[T],
	wg *sync.WaitGroup, processor workerpool.Processor[T, R],
	results chan<- workerpool.Result[R], config *workerpool.Config, ctx context.Context) {

	defer wg.Done()

	myDeque := deques[id]
	numWorkers := len(deques)

	for {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Try to get work from own deque first (LIFO for better cache locality)
		if job, ok := myDeque.Pop(); ok {
			s.processJob(id, job, processor, results, config)
			continue
		}

		// No work in own deque, try to steal from other workers (FIFO)
		stolen := false
		for attempts := 0; attempts < numWorkers*2; attempts++ {
			// Try the other workers in turn, starting with the next one
			victimID := (id + attempts + 1) % numWorkers
			if victimID == id {
				continue // Don't steal from yourself
			}

			if job, ok := deques[victimID].Steal(); ok {
				s.processJob(id, job, processor, results, config)
				stolen = true
				break
			}
		}

		// If no work was stolen, check if all deques are empty
		if !stolen {
			allEmpty := true
			for _, deque := range deques {
				if !deque.IsEmpty() {
					allEmpty = false
					break
				}
			}

			if allEmpty {
				// No more work available
				return
			}

			// Brief pause before trying again to avoid busy waiting
			time.Sleep(1 * time.Millisecond)
		}
	}
}

// processJob handles the actual job processing with retries and metrics
func (s *WorkStealingStrategy[T, R]) processJob(workerID int, job workerpool.Job[T],
	processor workerpool.Processor[T, R], results chan<- workerpool.Result[R],
	config *workerpool.Config) {
	processJob(workerID, job, processor, results, config)
}
