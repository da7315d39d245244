package venue

import (
	tomb "gopkg.in/tomb.v2"

	"matchcore/internal/engine"
)

// instrumentActor pins one instrument's MatchingCore to a single
// supervised goroutine, so concurrent callers (one per client connection)
// never enter it re-entrantly — a MatchingCore must be driven by exactly
// one actor. submit serializes the caller's job onto
// that goroutine and blocks until it runs, which keeps the call synchronous
// from the caller's point of view while still satisfying the single-owner
// rule underneath.
type instrumentActor struct {
	ticker string
	core   *engine.MatchingCore
	orders map[string]*WorkingOrder
	tomb   tomb.Tomb
	jobs   chan func()
}

func newInstrumentActor(ticker string, core *engine.MatchingCore) *instrumentActor {
	a := &instrumentActor{
		ticker: ticker,
		core:   core,
		orders: make(map[string]*WorkingOrder),
		jobs:   make(chan func(), 64),
	}
	a.tomb.Go(a.run)
	return a
}

func (a *instrumentActor) run() error {
	for {
		select {
		case <-a.tomb.Dying():
			return nil
		case job := <-a.jobs:
			job()
		}
	}
}

// submit runs job on the actor's goroutine and waits for it to finish.
func (a *instrumentActor) submit(job func()) {
	done := make(chan struct{})
	a.jobs <- func() {
		job()
		close(done)
	}
	<-done
}

func (a *instrumentActor) stop() {
	a.tomb.Kill(nil)
	_ = a.tomb.Wait()
}
