// batch.go composes several entry shaders concurrently. Each entry becomes an
// independent request with entirely fresh state (its own SourceUnit, composer,
// and project scan), so requests never share mutable state and the pool needs
// no synchronization beyond the per-slot result writes.
package compose

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-compose/common"
)

// BatchRequest names one entry shader to compose.
type BatchRequest struct {
	// InvocationDir is the directory of the file issuing the request.
	InvocationDir string

	// RequestedPath is the path string naming the desired entry shader.
	RequestedPath string
}

// BatchResult is the outcome of one entry in a batch composition.
type BatchResult struct {
	// Request is the entry this result belongs to.
	Request BatchRequest

	// Result carries the module, diagnostics, and dependencies when the
	// request ran to completion.
	Result Result

	// Err is non-nil when the request aborted before producing a result: the
	// entry could not be resolved or the project scan failed.
	Err error
}

func (d *driver) ComposeBatch(requests []BatchRequest) []BatchResult {
	results := make([]BatchResult, len(requests))
	if len(requests) == 0 {
		return results
	}

	workers := common.Coalesce(d.batchWorkers, runtime.NumCPU())
	pool := worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)

	var wg sync.WaitGroup
	wg.Add(len(requests))
	for i, req := range requests {
		results[i].Request = req
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()

				unit, err := d.NewSourceUnit(req.InvocationDir, req.RequestedPath)
				if err != nil {
					results[i].Err = err
					return nil, err
				}

				res, err := d.Complete(unit)
				if err != nil {
					results[i].Err = err
					return nil, err
				}

				results[i].Result = res
				return nil, nil
			},
		})
	}
	wg.Wait()

	return results
}
