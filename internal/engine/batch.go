package engine

import (
	"context"
	"sync"
)

// Report summarizes a batch run.
type Report struct {
	Updated   int
	Skipped   int
	Failed    int
	FailedIDs []string
}

type result struct {
	id  string
	p   *prepared
	err error
}

// ProcessBatch processes many games with a fetch/derive worker pool feeding
// a single merge consumer. Canceling ctx stops dispatching new games; games
// already in flight finish and persist, so a run never leaves a game
// half-merged. The accumulator checkpoints every CheckpointEvery merges and
// once more at the end.
func (e *Engine) ProcessBatch(ctx context.Context, gameIDs []string) (Report, error) {
	var rep Report

	// Pre-filter already-processed ids so workers never touch them.
	var todo []string
	for _, id := range gameIDs {
		if e.acc.Seen(id) {
			rep.Skipped++
			continue
		}
		todo = append(todo, id)
	}
	if len(todo) == 0 {
		return rep, nil
	}

	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	results := make(chan result)

	// dispatchCtx also stops dispatch when a checkpoint fails, so the drain
	// below only waits on games already in flight.
	dispatchCtx, stopDispatch := context.WithCancel(ctx)
	defer stopDispatch()

	// In-flight fetches outlive ctx cancellation; each request is still
	// bounded by the client timeout.
	inflight := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				p, err := e.prepare(inflight, id)
				results <- result{id: id, p: p, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, id := range todo {
			select {
			case <-dispatchCtx.Done():
				e.log.Info("stopping dispatch, finishing in-flight games")
				return
			case jobs <- id:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single-writer merge loop. After a checkpoint failure the loop keeps
	// draining results so every worker can exit, but stops merging.
	var cpErr error
	for res := range results {
		if cpErr != nil {
			continue
		}
		if res.err != nil {
			rep.Failed++
			rep.FailedIDs = append(rep.FailedIDs, res.id)
			e.log.Error("game failed", "game", res.id, "err", res.err)
			continue
		}
		if err := e.commit(res.p); err != nil {
			rep.Failed++
			rep.FailedIDs = append(rep.FailedIDs, res.id)
			e.log.Error("merge failed", "game", res.id, "err", err)
			continue
		}
		rep.Updated++
		if e.sinceCheckpoint >= e.cfg.CheckpointEvery {
			if err := e.checkpoint(); err != nil {
				cpErr = err
				stopDispatch()
			}
		}
	}
	if cpErr != nil {
		return rep, cpErr
	}

	if err := e.checkpoint(); err != nil {
		return rep, err
	}
	return rep, nil
}
