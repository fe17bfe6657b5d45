// Package runtime assembles the Relay components from configuration and
// exposes the query lifecycle (route, dispatch) behind one facade used by
// both the CLI and the HTTP server.
package runtime

import (
	"context"
	"log/slog"

	"github.com/relaymesh/relay/pkg/a2a"
	"github.com/relaymesh/relay/pkg/config"
	"github.com/relaymesh/relay/pkg/dispatch"
	"github.com/relaymesh/relay/pkg/llms"
	"github.com/relaymesh/relay/pkg/registry"
	"github.com/relaymesh/relay/pkg/router"
)

// Runtime wires registry, router, and dispatcher together.
type Runtime struct {
	cfg        *config.Config
	registry   *registry.Registry
	router     *router.Router
	dispatcher *dispatch.Dispatcher
}

// Result is the outcome of handling one query end to end.
type Result struct {
	Decision router.Decision `json:"decision"`
	Response string          `json:"response"`
}

// New builds a Runtime from validated configuration. When model routing is
// enabled but no usable provider can be constructed, the runtime degrades
// to fallback-only routing instead of failing startup.
func New(cfg *config.Config) *Runtime {
	discoveryClient := a2a.NewClient(&a2a.ClientConfig{Timeout: cfg.Discovery.Timeout})
	dispatchClient := a2a.NewClient(&a2a.ClientConfig{Timeout: cfg.Dispatch.Timeout})

	var provider llms.Provider
	if cfg.Router.LLMEnabled() && cfg.LLM != nil {
		p, err := llms.NewFromConfig(cfg.LLM)
		if err != nil {
			slog.Warn("Model routing unavailable, running fallback-only", "error", err)
		} else {
			provider = p
			slog.Info("Model routing enabled", "provider", string(cfg.LLM.Provider), "model", p.ModelName())
		}
	} else if cfg.Router.LLMEnabled() {
		slog.Info("No LLM configured, running fallback-only routing")
	}

	return &Runtime{
		cfg: cfg,
		registry: registry.New(cfg.Agents, discoveryClient,
			registry.WithTimeout(cfg.Discovery.Timeout),
			registry.WithConcurrency(cfg.Discovery.Concurrency)),
		router:     router.New(provider, router.WithTimeout(cfg.Router.Timeout)),
		dispatcher: dispatch.New(dispatchClient, dispatch.WithTimeout(cfg.Dispatch.Timeout)),
	}
}

// Config returns the runtime's configuration.
func (r *Runtime) Config() *config.Config {
	return r.cfg
}

// Refresh re-runs agent discovery and publishes a fresh snapshot.
func (r *Runtime) Refresh(ctx context.Context) (int, error) {
	return r.registry.Refresh(ctx)
}

// Snapshot returns the current descriptor snapshot.
func (r *Runtime) Snapshot() *registry.Snapshot {
	return r.registry.Snapshot()
}

// Route selects an agent for the query without dispatching it.
func (r *Runtime) Route(ctx context.Context, query string) (*router.Decision, error) {
	return r.router.Route(ctx, r.registry.Snapshot(), query)
}

// Handle routes the query and dispatches it to the selected agent. Routing
// and dispatch share one snapshot, so a concurrent refresh cannot route
// against one mapping and dispatch against another.
func (r *Runtime) Handle(ctx context.Context, query string) (*Result, error) {
	snap := r.registry.Snapshot()

	decision, err := r.router.Route(ctx, snap, query)
	if err != nil {
		return nil, err
	}

	response, err := r.dispatcher.Send(ctx, snap, decision.Agent, query)
	if err != nil {
		return nil, err
	}

	return &Result{Decision: *decision, Response: response}, nil
}
