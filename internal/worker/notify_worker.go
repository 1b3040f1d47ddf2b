package worker

import (
	"context"
	"encoding/json"

	"mesalivre/internal/infra"

	"github.com/rs/zerolog/log"
)

// NotifyPayload is what the order service enqueues on a status change.
type NotifyPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// NotifyWorker delivers customer chat notifications through the webhook
// sidecar. Calls go through the circuit breaker so a dead sidecar fast-fails
// instead of stalling the pool on timeouts.
type NotifyWorker struct {
	client *infra.ChatHookClient
	cb     *infra.CircuitBreaker
}

func NewNotifyWorker(client *infra.ChatHookClient, cb *infra.CircuitBreaker) *NotifyWorker {
	return &NotifyWorker{client: client, cb: cb}
}

func (w *NotifyWorker) Process(ctx context.Context, job Job) error {
	var payload NotifyPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("notify: bad payload")
		// Malformed payloads never succeed; don't retry them.
		return nil
	}

	return w.cb.Execute(func() error {
		return w.client.Send(ctx, infra.ChatMessage{
			Phone:   payload.Phone,
			Message: payload.Message,
		})
	})
}
