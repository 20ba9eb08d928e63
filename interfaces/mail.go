package interfaces

import (
	"context"

	"github.com/courieros/courierstack/dto"
)

// SMTPService opens authenticated submission sessions.
type SMTPService interface {
	NewSession(ctx context.Context) (MailSession, error)
}

// MailSession is one authenticated SMTP session, reused across all messages of
// a dispatch run and closed when the run finishes.
type MailSession interface {
	Send(ctx context.Context, message *dto.OutgoingEmail) error
	Close() error
}
