package episode

import (
	"context"
	"sync"
)

// saveGate gives each (episode, content type) collection at most one
// in-flight save. Triggering a new save cancels the context of the
// previous one for the same collection, so a slow earlier save cannot
// interleave its deletes and inserts with a later one.
type saveGate struct {
	mu       sync.Mutex
	inflight map[string]*saveToken
}

type saveToken struct {
	cancel context.CancelFunc
}

func newSaveGate() *saveGate {
	return &saveGate{inflight: make(map[string]*saveToken)}
}

// begin cancels any in-flight save for key and registers the new one.
// The returned done func must be called when the save settles.
func (g *saveGate) begin(ctx context.Context, key string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	token := &saveToken{cancel: cancel}

	g.mu.Lock()
	if prev, ok := g.inflight[key]; ok {
		prev.cancel()
	}
	g.inflight[key] = token
	g.mu.Unlock()

	done := func() {
		g.mu.Lock()
		// Deregister only if a newer save has not replaced this one
		if g.inflight[key] == token {
			delete(g.inflight, key)
		}
		g.mu.Unlock()
		cancel()
	}
	return ctx, done
}
