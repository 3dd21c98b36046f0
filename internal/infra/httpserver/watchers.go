package httpserver

import (
	"context"
	"errors"
	"log"
	"sync"

	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
	"github.com/bryanwahyu/accessiscan/internal/middleware"
)

// watchers runs at most one background poll per scan id. Every watcher
// hangs off a base context cancelled by close.
type watchers struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	running map[domain.ScanID]struct{}
	wg      sync.WaitGroup
}

func newWatchers() *watchers {
	ctx, cancel := context.WithCancel(context.Background())
	return &watchers{ctx: ctx, cancel: cancel, running: map[domain.ScanID]struct{}{}}
}

// start runs fn in a goroutine unless a watcher for id is already live.
// It reports whether a new watcher was started.
func (ws *watchers) start(id domain.ScanID, fn func(ctx context.Context)) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.ctx.Err() != nil {
		return false
	}
	if _, ok := ws.running[id]; ok {
		return false
	}
	ws.running[id] = struct{}{}
	ws.wg.Add(1)
	go func() {
		defer func() {
			ws.mu.Lock()
			delete(ws.running, id)
			ws.mu.Unlock()
			ws.wg.Done()
		}()
		fn(ws.ctx)
	}()
	return true
}

func (ws *watchers) active(id domain.ScanID) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	_, ok := ws.running[id]
	return ok
}

func (ws *watchers) close() {
	ws.mu.Lock()
	ws.cancel()
	ws.mu.Unlock()
	ws.wg.Wait()
}

// watch polls a submitted scan in the background so history reaches a
// terminal state even when no client keeps a page open.
func (r *Router) watch(id domain.ScanID) {
	r.watchers.start(id, func(ctx context.Context) {
		middleware.IncrementScansWatching()
		defer middleware.DecrementScansWatching()

		scan, err := r.scansSvc.Watch(ctx, id, nil)
		switch {
		case err == nil:
			middleware.IncrementScansCompleted()
			log.Printf("scan=%s status=%s msg=\"scan finished\"", id, scan.Status)
		case errors.Is(err, domain.ErrScanFailed):
			middleware.IncrementScansFailed()
			log.Printf("scan=%s status=failed msg=\"scan failed\"", id)
		case errors.Is(err, context.Canceled):
			log.Printf("scan=%s msg=\"watch stopped\"", id)
		default:
			log.Printf("scan=%s msg=\"watch aborted\" err=%v", id, err)
		}
	})
}
