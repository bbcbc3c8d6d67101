package systems

import (
	"context"
	"sync"
	"time"

	cfg "github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/registry"
)

// TickerFunc makes the interval source for reload tasks. The returned stop
// function releases it.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// ReloadTask is one weapon's running reload.
type ReloadTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Done is closed once the task has stopped and applied its final state.
func (t *ReloadTask) Done() <-chan struct{} { return t.done }

// Reloader runs reload tasks, at most one per weapon.
type Reloader struct {
	inv       *registry.Inventory
	step      time.Duration
	newTicker TickerFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	tasks map[*registry.Weapon]*ReloadTask
}

func NewReloader(inv *registry.Inventory) *Reloader {
	return newReloader(inv, realTicker)
}

func newReloader(inv *registry.Inventory, ticker TickerFunc) *Reloader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Reloader{
		inv:       inv,
		step:      cfg.Combat.ReloadStep,
		newTicker: ticker,
		ctx:       ctx,
		cancel:    cancel,
		tasks:     make(map[*registry.Weapon]*ReloadTask),
	}
}

// Start launches the reload task for w, or returns the one already running.
func (r *Reloader) Start(w *registry.Weapon) *ReloadTask {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.tasks[w]; ok {
		return t
	}

	ctx, cancel := context.WithCancel(r.ctx)
	t := &ReloadTask{cancel: cancel, done: make(chan struct{})}
	r.tasks[w] = t

	r.wg.Add(1)
	go r.run(ctx, w, t)
	return t
}

// Cancel stops w's reload. The task resets the weapon when it sees the
// cancellation, so the reset lands after Cancel returns.
func (r *Reloader) Cancel(w *registry.Weapon) {
	r.mu.Lock()
	t, ok := r.tasks[w]
	r.mu.Unlock()

	if ok {
		t.cancel()
	}
}

// Task returns w's running task.
func (r *Reloader) Task(w *registry.Weapon) (*ReloadTask, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[w]
	return t, ok
}

// Close cancels every task and waits for them to finish.
func (r *Reloader) Close() {
	r.cancel()
	r.wg.Wait()
}

func (r *Reloader) run(ctx context.Context, w *registry.Weapon, t *ReloadTask) {
	defer r.wg.Done()
	defer close(t.done)
	defer t.cancel()

	ticks, stop := r.newTicker(r.step)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			r.advance(w, t, true)
			return
		case <-ticks:
			if r.advance(w, t, false) {
				return
			}
		}
	}
}

// advance applies one step, or the cancellation reset, and drops the task
// in the same critical section so Start never finds a task that is done.
func (r *Reloader) advance(w *registry.Weapon, t *ReloadTask, cancelled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	over := true
	if cancelled {
		w.CancelReload()
	} else {
		over = w.StepReload(r.step, r.inv.IsActive(w))
	}
	if over && r.tasks[w] == t {
		delete(r.tasks, w)
	}
	return over
}
