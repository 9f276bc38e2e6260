package worker

import (
	"context"
	"fmt"
	"strings"

	"savoria/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertWorker mails low-stock notices produced by committed batches.
type AlertWorker struct {
	mailer *infra.Mailer
}

func NewAlertWorker(mailer *infra.Mailer) *AlertWorker {
	return &AlertWorker{mailer: mailer}
}

func (w *AlertWorker) Process(_ context.Context, payload AlertPayload) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Reconciliation batch %s left the following ingredients below minimum stock:\n\n", payload.BatchID)
	for _, ing := range payload.Ingredients {
		fmt.Fprintf(&b, "  - %s: %s %s remaining (minimum %s %s)\n",
			ing.Name, ing.Remaining, ing.Unit, ing.Minimum, ing.Unit)
	}
	b.WriteString("\nReview purchasing before the next service.\n")

	subject := fmt.Sprintf("Low stock: %d ingredient(s) below minimum", len(payload.Ingredients))
	if err := w.mailer.SendAlert(subject, b.String(), ""); err != nil {
		return fmt.Errorf("alert: send mail: %w", err)
	}
	log.Info().Int("ingredients", len(payload.Ingredients)).Msg("low-stock alert sent")
	return nil
}
