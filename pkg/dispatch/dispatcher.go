// Package dispatch forwards routed queries to agents over the A2A
// HTTP+JSON transport and returns their responses verbatim.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/relaymesh/relay/pkg/a2a"
	"github.com/relaymesh/relay/pkg/registry"
)

// ErrUnknownAgent is returned when the named agent is not in the snapshot.
var ErrUnknownAgent = errors.New("unknown agent")

// ErrAgentUnreachable is returned when the dispatch call to the agent fails.
// No retry is attempted; retry policy belongs to the caller.
var ErrAgentUnreachable = errors.New("agent unreachable")

// MessageSender sends a text message to an agent. *a2a.Client satisfies it.
type MessageSender interface {
	SendText(ctx context.Context, agentURL string, text string) (*a2a.Task, error)
}

// Dispatcher forwards queries to agents.
type Dispatcher struct {
	sender  MessageSender
	timeout time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout bounds a single dispatch round trip.
func WithTimeout(d time.Duration) Option {
	return func(d2 *Dispatcher) {
		d2.timeout = d
	}
}

// New creates a Dispatcher.
func New(sender MessageSender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender:  sender,
		timeout: 120 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send forwards the query to the named agent and returns the agent's text
// response. The agent's advertised card URL is preferred; the configured
// base URL is the fallback for cards that omit one.
func (d *Dispatcher) Send(ctx context.Context, snap *registry.Snapshot, agentName, query string) (string, error) {
	card, ok := snap.Card(agentName)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAgent, agentName)
	}

	url := card.URL
	if url == "" {
		url, _ = snap.BaseURL(agentName)
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	task, err := d.sender.SendText(callCtx, url, query)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrAgentUnreachable, agentName, err)
	}

	slog.Debug("Dispatched query",
		"agent", agentName,
		"task", task.ID,
		"state", task.Status.State,
		"duration", time.Since(start))

	if task.Status.State == a2a.TaskStateFailed {
		reason := task.Status.Reason
		if reason == "" {
			reason = "task failed"
		}
		return "", fmt.Errorf("agent %s: %s", agentName, reason)
	}

	return a2a.ExtractText(task), nil
}
