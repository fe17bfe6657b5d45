// Package a2a implements the subset of the Agent-to-Agent (A2A) protocol
// HTTP+JSON transport that Relay needs: agent card discovery and
// message/send dispatch.
// Specification: https://a2a-protocol.org/latest/specification/
package a2a

import "time"

// WellKnownCardPath is the standard location of an agent's discovery
// document, relative to its base URL (Spec Section 5.3).
const WellKnownCardPath = "/.well-known/agent.json"

// ============================================================================
// AGENT CARD - Agent Discovery & Capability Advertisement
// ============================================================================

// AgentCard is the capability descriptor an agent publishes about itself.
type AgentCard struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	URL          string            `json:"url"`
	Version      string            `json:"version,omitempty"`
	Capabilities AgentCapabilities `json:"capabilities"`
	Skills       []AgentSkill      `json:"skills,omitempty"`
}

// AgentCapabilities describes optional protocol features an agent supports.
type AgentCapabilities struct {
	Streaming         bool `json:"streaming,omitempty"`
	PushNotifications bool `json:"pushNotifications,omitempty"`
}

// AgentSkill describes one skill the agent advertises.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// ============================================================================
// MESSAGES & TASKS
// ============================================================================

// MessageRole identifies the sender of a message.
type MessageRole string

const (
	MessageRoleUser  MessageRole = "user"
	MessageRoleAgent MessageRole = "agent"
)

// Part is one content part of a message or artifact. Only text parts are
// produced by Relay; other kinds pass through opaquely.
type Part struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

const PartKindText = "text"

// Message is a single conversational message.
type Message struct {
	Role      MessageRole `json:"role"`
	Parts     []Part      `json:"parts"`
	MessageID string      `json:"messageId,omitempty"`
}

// MessageSendParams are the parameters of message/send (Spec Section 7.1).
type MessageSendParams struct {
	Message Message `json:"message"`
}

// TaskState is the lifecycle state of a task.
type TaskState string

const (
	TaskStateSubmitted TaskState = "submitted"
	TaskStateWorking   TaskState = "working"
	TaskStateCompleted TaskState = "completed"
	TaskStateFailed    TaskState = "failed"
	TaskStateCanceled  TaskState = "canceled"
)

// TaskStatus carries the current state of a task.
type TaskStatus struct {
	State     TaskState `json:"state"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// Artifact is an output produced by a task.
type Artifact struct {
	ID    string `json:"artifactId,omitempty"`
	Name  string `json:"name,omitempty"`
	Parts []Part `json:"parts"`
}

// Task is the unit of work returned by message/send.
type Task struct {
	ID        string     `json:"id"`
	Status    TaskStatus `json:"status"`
	Messages  []Message  `json:"messages,omitempty"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
}
