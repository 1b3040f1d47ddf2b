package worker

import (
	"context"
	"encoding/json"

	"mesalivre/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailPayload is enqueued when a register session closes: the closing
// report goes to the tenant owner with the rendered PDF attached.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// EmailWorker sends report emails over SMTP.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, job Job) error {
	var payload EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("email: bad payload")
		return nil
	}
	return w.mailer.SendReport(payload.To, payload.Subject, payload.Body, payload.PDFPath)
}
