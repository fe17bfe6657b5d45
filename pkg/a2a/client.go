package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is an A2A protocol client over HTTP+JSON.
type Client struct {
	httpClient *http.Client
}

// ClientConfig contains configuration for the A2A client.
type ClientConfig struct {
	Timeout time.Duration
}

// NewClient creates a new A2A protocol client.
func NewClient(cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = &ClientConfig{}
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ResolveCard fetches an agent's card from its well-known discovery path.
// GET {baseURL}/.well-known/agent.json
func (c *Client) ResolveCard(ctx context.Context, baseURL string) (*AgentCard, error) {
	cardURL := strings.TrimRight(baseURL, "/") + WellKnownCardPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch agent card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get agent card: %s - %s", resp.Status, string(body))
	}

	var card AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("failed to decode agent card: %w", err)
	}

	if card.Name == "" {
		return nil, fmt.Errorf("agent card at %s has no name", cardURL)
	}

	return &card, nil
}

// SendMessage sends a message to an agent using A2A message/send.
// POST {agentURL}/message/send
func (c *Client) SendMessage(ctx context.Context, agentURL string, params MessageSendParams) (*Task, error) {
	sendURL := strings.TrimRight(agentURL, "/") + "/message/send"

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("message send failed: %s - %s", resp.Status, string(respBody))
	}

	var task Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}

	return &task, nil
}

// SendText is a convenience method for sending a simple text message.
func (c *Client) SendText(ctx context.Context, agentURL string, text string) (*Task, error) {
	return c.SendMessage(ctx, agentURL, MessageSendParams{
		Message: NewTextMessage(MessageRoleUser, text),
	})
}

// NewTextMessage creates a message with a single text part and a fresh
// message ID.
func NewTextMessage(role MessageRole, text string) Message {
	return Message{
		Role:      role,
		MessageID: uuid.NewString(),
		Parts: []Part{
			{
				Kind: PartKindText,
				Text: text,
			},
		},
	}
}

// ExtractText extracts text content from a task's artifacts and agent
// messages, artifacts first. Returns "" for a nil task.
func ExtractText(task *Task) string {
	if task == nil {
		return ""
	}

	var texts []string

	for _, artifact := range task.Artifacts {
		for _, part := range artifact.Parts {
			if part.Kind == PartKindText {
				texts = append(texts, part.Text)
			}
		}
	}

	for _, msg := range task.Messages {
		if msg.Role != MessageRoleAgent {
			continue
		}
		for _, part := range msg.Parts {
			if part.Kind == PartKindText {
				texts = append(texts, part.Text)
			}
		}
	}

	return strings.Join(texts, "\n")
}
