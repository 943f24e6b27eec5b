package detector

import (
	"go.uber.org/zap"

	"github.com/whatthewaf/whatthewaf/pkg/workerpool"
)

// DetectAll evaluates every input on a pool of workers and returns the
// results in input order. Detect only reads shared state, so it is safe
// to run concurrently. The pool never grows past len(inputs).
func (d *Detector) DetectAll(inputs []string, workers int) []Result {
	if workers <= 0 || workers > len(inputs) {
		workers = max(len(inputs), 1)
	}
	p := workerpool.New(workers)
	defer p.Close()
	d.log.Debug("batch detect", zap.Int("inputs", len(inputs)), zap.Int("workers", p.Cap()))
	return workerpool.Map(p, inputs, d.Detect)
}
