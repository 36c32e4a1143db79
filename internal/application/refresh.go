package application

import (
	"context"
	"sync"
	"time"

	"vired/internal/domain"
	"vired/internal/ports"
)

// RefreshResult is a fresh listing read for display
type RefreshResult struct {
	Dir        string
	Generation uint64
	Entries    []domain.DirectoryEntry
	InRepo     bool
	Err        error
}

// Refresher reads listings in the background. Starting a refresh for a
// directory cancels the one already in flight, and results from a superseded
// refresh are reported as stale. It never touches snapshots or undo history.
type Refresher struct {
	lister  ports.DirectoryLister
	vcs     ports.VersionControl
	timeout time.Duration

	mu      sync.Mutex
	gens    map[string]uint64
	cancels map[string]context.CancelFunc
}

// NewRefresher creates a refresher. vcs may be nil.
func NewRefresher(lister ports.DirectoryLister, vcs ports.VersionControl, timeout time.Duration) *Refresher {
	if timeout <= 0 {
		timeout = DefaultVCSTimeout
	}
	return &Refresher{
		lister:  lister,
		vcs:     vcs,
		timeout: timeout,
		gens:    make(map[string]uint64),
		cancels: make(map[string]context.CancelFunc),
	}
}

// RefreshTask is one scheduled refresh
type RefreshTask struct {
	r   *Refresher
	ctx context.Context
	dir string
	gen uint64
}

// Begin supersedes any in-flight refresh of dir and returns the new task.
// Call it from the control loop; run the task anywhere.
func (r *Refresher) Begin(parent context.Context, dir string) *RefreshTask {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cancel, ok := r.cancels[dir]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	r.gens[dir]++
	r.cancels[dir] = cancel

	return &RefreshTask{r: r, ctx: ctx, dir: dir, gen: r.gens[dir]}
}

// Run reads the listing and the repository flag
func (t *RefreshTask) Run() RefreshResult {
	res := RefreshResult{Dir: t.dir, Generation: t.gen}

	entries, err := t.r.lister.List(t.ctx, t.dir)
	if err != nil {
		res.Err = err
		t.r.finish(t)
		return res
	}
	res.Entries = entries

	if t.r.vcs != nil {
		vctx, cancel := context.WithTimeout(t.ctx, t.r.timeout)
		tracked, err := t.r.vcs.IsTracked(vctx, t.dir)
		cancel()
		res.InRepo = err == nil && tracked
	}

	if err := t.ctx.Err(); err != nil {
		res.Err = err
	}
	t.r.finish(t)
	return res
}

// Current reports whether res comes from the latest refresh of its directory
func (r *Refresher) Current(res RefreshResult) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return res.Err == nil && r.gens[res.Dir] == res.Generation
}

// Stop cancels every in-flight refresh
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for dir, cancel := range r.cancels {
		cancel()
		delete(r.cancels, dir)
	}
}

func (r *Refresher) finish(t *RefreshTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gens[t.dir] == t.gen {
		if cancel, ok := r.cancels[t.dir]; ok {
			cancel()
			delete(r.cancels, t.dir)
		}
	}
}
