// Package registry maintains the set of configured agents and their
// discovered capability cards.
//
// Discovery is best-effort: each configured agent is fetched independently
// and failures exclude only that agent. Results are published as immutable
// snapshots behind an atomic pointer, so routing reads never observe a
// half-updated mapping.
package registry

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/relaymesh/relay/pkg/a2a"
	"github.com/relaymesh/relay/pkg/config"
)

// CardResolver fetches an agent's capability card. *a2a.Client satisfies it.
type CardResolver interface {
	ResolveCard(ctx context.Context, baseURL string) (*a2a.AgentCard, error)
}

// Registry holds the configured entries and the live descriptor snapshot.
type Registry struct {
	entries     []config.AgentEntry
	resolver    CardResolver
	timeout     time.Duration
	concurrency int

	version  atomic.Uint64
	snapshot atomic.Pointer[Snapshot]
}

// Option configures a Registry.
type Option func(*Registry)

// WithTimeout bounds each agent's card fetch during discovery.
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) {
		r.timeout = d
	}
}

// WithConcurrency limits how many card fetches run in parallel.
func WithConcurrency(n int) Option {
	return func(r *Registry) {
		r.concurrency = n
	}
}

// New creates a Registry over the configured entries.
func New(entries []config.AgentEntry, resolver CardResolver, opts ...Option) *Registry {
	r := &Registry{
		entries:     entries,
		resolver:    resolver,
		timeout:     30 * time.Second,
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Entries returns the configured entries in registration order.
func (r *Registry) Entries() []config.AgentEntry {
	return r.entries
}

// Refresh re-runs discovery against every configured entry and atomically
// publishes the result as a new snapshot. A failed fetch excludes that agent
// from the snapshot but never aborts the pass. Returns the number of agents
// discovered.
func (r *Registry) Refresh(ctx context.Context) (int, error) {
	cards := make([]*a2a.AgentCard, len(r.entries))

	g, gctx := errgroup.WithContext(ctx)
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}

	for i, entry := range r.entries {
		i, entry := i, entry
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, r.timeout)
			defer cancel()

			card, err := r.resolver.ResolveCard(fetchCtx, entry.URL)
			if err != nil {
				slog.Warn("Agent discovery failed",
					"agent", entry.Name,
					"url", entry.URL,
					"error", err)
				return nil
			}

			cards[i] = card
			slog.Info("Discovered agent",
				"agent", entry.Name,
				"description", card.Description,
				"skills", len(card.Skills))
			return nil
		})
	}

	// Workers only report fetch outcomes through the cards slice; the group
	// error is the parent context's cancellation, if any.
	if err := g.Wait(); err != nil {
		return 0, err
	}

	snap := newSnapshot(r.version.Add(1), r.entries, cards)
	r.snapshot.Store(snap)

	slog.Info("Discovery pass complete",
		"configured", len(r.entries),
		"discovered", snap.Len(),
		"version", snap.Version())

	return snap.Len(), nil
}

// Snapshot returns the current descriptor snapshot. Before the first
// successful Refresh this is an empty snapshot, never nil.
func (r *Registry) Snapshot() *Snapshot {
	if snap := r.snapshot.Load(); snap != nil {
		return snap
	}
	return emptySnapshot
}
