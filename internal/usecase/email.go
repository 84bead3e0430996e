package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/harborlist/harborlist/internal/config"
)

type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
}

type EmailProvider interface {
	SendEmail(context.Context, Email) error
}

// NotifyPhotoRepairFailure alerts the operator address that a listing's
// photo set could not be reconciled even by the background worker, so
// manual cleanup is needed.
func (u Usecase) NotifyPhotoRepairFailure(ctx context.Context, listingID uuid.UUID, cause error) error {
	if u.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}

	to := os.Getenv(config.ENV_KEY_OPERATOR_EMAIL)
	if to == "" {
		return fmt.Errorf("operator email not configured")
	}

	return u.emailProvider.SendEmail(ctx, Email{
		From:    os.Getenv(config.ENV_KEY_SMTP_FROM),
		To:      []string{to},
		Subject: fmt.Sprintf("[harborlist] photo reconciliation failed for listing %s", listingID),
		Body: fmt.Sprintf(
			"<p>Photo set reconciliation for listing <b>%s</b> kept failing after retries.</p><p>Last error: %v</p><p>Promote a primary photo and compact display order manually.</p>",
			listingID, cause,
		),
	})
}
