package email

import (
	"context"
)

// Service sends operational email.
type Service interface {
	SendAdminAlert(ctx context.Context, subject, body string) error
}

// NewNoop returns a sender that drops all mail. Used when SMTP is not
// configured and in tests.
func NewNoop() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) SendAdminAlert(ctx context.Context, subject, body string) error {
	return nil
}
