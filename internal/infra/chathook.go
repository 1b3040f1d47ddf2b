package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ChatMessage is sent to the chat-webhook sidecar, which relays it to the
// customer's messaging app. Delivery is asynchronous and best-effort — the
// order path never waits on it.
type ChatMessage struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// ChatHookClient is an HTTP client for the chat-webhook sidecar. The sidecar
// owns the messaging-provider credentials; this decoupling isolates provider
// failures from the core backend.
type ChatHookClient struct {
	webhookURL string
	httpClient *http.Client
}

func NewChatHookClient(webhookURL string) *ChatHookClient {
	return &ChatHookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send POSTs one message to the sidecar. A non-2xx response is an error so
// the worker can retry once and then dead-letter the job.
func (c *ChatHookClient) Send(ctx context.Context, msg ChatMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("chathook: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL+"/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("chathook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chathook: sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chathook: sidecar returned %d", resp.StatusCode)
	}
	return nil
}
