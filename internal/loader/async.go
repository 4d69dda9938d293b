package loader

import (
	"Isle3D/internal/logger"
	"Isle3D/internal/renderer"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type loadResult struct {
	path    string
	models  []*renderer.Model
	err     error
	onLoad  func([]*renderer.Model)
	onError func(error)
}

// Async parses files on background goroutines and hands the results back
// to the render thread. Callbacks only ever run inside Drain.
type Async struct {
	results chan loadResult
	pending *atomic.Int32
	parse   func(path string) ([]*renderer.Model, error)
}

func NewAsync() *Async {
	return &Async{
		results: make(chan loadResult, 16),
		pending: atomic.NewInt32(0),
		parse:   LoadScene,
	}
}

// LoadAsync starts loading path. onLoad receives the models, onError the
// failure. Either may be nil.
func (a *Async) LoadAsync(path string, onLoad func([]*renderer.Model), onError func(error)) {
	a.pending.Inc()
	go func() {
		models, err := a.parse(path)
		a.results <- loadResult{path: path, models: models, err: err, onLoad: onLoad, onError: onError}
	}()
}

// Drain runs the callbacks of every finished load without blocking. It
// returns how many loads were delivered.
func (a *Async) Drain() int {
	n := 0
	for {
		select {
		case res := <-a.results:
			a.pending.Dec()
			a.deliver(res)
			n++
		default:
			return n
		}
	}
}

func (a *Async) deliver(res loadResult) {
	if res.err != nil {
		logger.Log.Error("Asset load failed, continuing without it", zap.String("path", res.path), zap.Error(res.err))
		if res.onError != nil {
			res.onError(res.err)
		}
		return
	}
	logger.Log.Info("Asset loaded", zap.String("path", res.path), zap.Int("models", len(res.models)))
	if res.onLoad != nil {
		res.onLoad(res.models)
	}
}

// Pending returns the number of loads not yet drained.
func (a *Async) Pending() int {
	return int(a.pending.Load())
}
