// Package router selects which agent should handle a query.
//
// Routing is a two-stage decision: a model-based attempt against the
// configured LLM provider, then a deterministic keyword fallback. The
// fallback guarantees that whenever at least one agent is discovered,
// routing produces an answer; only an empty snapshot is terminal.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/relaymesh/relay/pkg/index"
	"github.com/relaymesh/relay/pkg/llms"
	"github.com/relaymesh/relay/pkg/registry"
)

// ErrNoAgentsAvailable is returned when routing is attempted against an
// empty snapshot. No default can be produced.
var ErrNoAgentsAvailable = errors.New("no agents available")

// Method identifies which routing strategy produced a decision.
type Method string

const (
	MethodModel    Method = "model"
	MethodFallback Method = "fallback"
)

// Decision is the outcome of routing one query. Matched is false only for
// the deterministic first-agent default, when no strategy found a real
// match.
type Decision struct {
	Agent   string `json:"agent"`
	Method  Method `json:"method"`
	Matched bool   `json:"matched"`
}

// Router routes queries to agents.
type Router struct {
	provider llms.Provider
	timeout  time.Duration
	useModel bool
}

// Option configures a Router.
type Option func(*Router)

// WithTimeout bounds the model routing call.
func WithTimeout(d time.Duration) Option {
	return func(r *Router) {
		r.timeout = d
	}
}

// New creates a Router. A nil provider disables the model-based attempt and
// the router runs fallback-only.
func New(provider llms.Provider, opts ...Option) *Router {
	r := &Router{
		provider: provider,
		timeout:  5 * time.Second,
		useModel: provider != nil,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route selects exactly one agent from the snapshot to handle the query.
// The returned agent is always a member of the snapshot.
func (r *Router) Route(ctx context.Context, snap *registry.Snapshot, query string) (*Decision, error) {
	if snap.Len() == 0 {
		return nil, ErrNoAgentsAvailable
	}

	if r.useModel {
		agent, err := r.routeWithModel(ctx, snap, query)
		if err == nil {
			slog.Debug("Model routing selected agent", "agent", agent)
			return &Decision{Agent: agent, Method: MethodModel, Matched: true}, nil
		}
		slog.Warn("Model routing failed, using keyword fallback", "error", err)
	}

	return routeWithKeywords(snap, query), nil
}

// routeWithModel asks the LLM to pick an agent and validates the answer
// against the snapshot. Every failure mode (transport error, timeout,
// unrecognized name) is an error the caller converts into a fallback.
func (r *Router) routeWithModel(ctx context.Context, snap *registry.Snapshot, query string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.provider.Complete(callCtx, buildPrompt(snap, query))
	if err != nil {
		return "", err
	}

	answer := normalizeAnswer(raw)
	if answer == "" {
		return "", fmt.Errorf("model returned empty answer")
	}

	agent, ok := matchAgent(snap, answer)
	if !ok {
		return "", fmt.Errorf("model returned unrecognized agent %q", answer)
	}

	return agent, nil
}

// routeWithKeywords is the deterministic fallback: best keyword match, or
// the first discovered agent when nothing matches at all.
func routeWithKeywords(snap *registry.Snapshot, query string) *Decision {
	if matches := index.Search(snap, query); len(matches) > 0 {
		return &Decision{Agent: matches[0].Agent, Method: MethodFallback, Matched: true}
	}

	first, _ := snap.First()
	return &Decision{Agent: first, Method: MethodFallback, Matched: false}
}

// normalizeAnswer reduces a model completion to a candidate agent name:
// first non-empty line, stripped of surrounding quotes and punctuation.
func normalizeAnswer(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "\"'`*.:,")
		if line != "" {
			return line
		}
	}
	return ""
}

// matchAgent validates a model answer against the snapshot: exact
// case-insensitive match first, then a single containment pass in
// registration order.
func matchAgent(snap *registry.Snapshot, answer string) (string, bool) {
	lower := strings.ToLower(answer)

	for _, name := range snap.Names() {
		if strings.ToLower(name) == lower {
			return name, true
		}
	}

	for _, name := range snap.Names() {
		nameLower := strings.ToLower(name)
		if strings.Contains(lower, nameLower) || strings.Contains(nameLower, lower) {
			return name, true
		}
	}

	return "", false
}
