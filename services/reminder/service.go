package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/courieros/courierstack/config"
	"github.com/courieros/courierstack/dto"
	"github.com/courieros/courierstack/interfaces"
	er "github.com/courieros/courierstack/internal/errors"
	"github.com/courieros/courierstack/internal/logger"
	"github.com/courieros/courierstack/internal/models"
	"github.com/courieros/courierstack/internal/repository"
	"github.com/courieros/courierstack/internal/tracing"
	"github.com/courieros/courierstack/internal/utils"
)

type reminderService struct {
	log           logger.Logger
	repos         *repository.Repositories
	smtp          interfaces.SMTPService
	fromAddress   string
	actionBaseURL string
}

func NewReminderService(
	log logger.Logger,
	repos *repository.Repositories,
	smtpService interfaces.SMTPService,
	appConfig *config.AppConfig,
	smtpConfig *config.SMTPConfig,
) interfaces.ReminderService {
	return &reminderService{
		log:           log,
		repos:         repos,
		smtp:          smtpService,
		fromAddress:   smtpConfig.FromAddress,
		actionBaseURL: appConfig.ActionBaseURL,
	}
}

// RunDispatch sends a reminder for every eligible register item. One SMTP
// session is opened for the whole run and closed at the end regardless of
// per-item failures. A failing item never aborts the rest of the batch.
func (s *reminderService) RunDispatch(ctx context.Context) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ReminderService.RunDispatch")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	today := utils.Today()
	items, err := s.repos.CourierItemRepository.ListReminderCandidates(ctx, today)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Reminder dispatch aborted, could not load candidates: %v", err)
		return err
	}

	if len(items) == 0 {
		s.log.Info("No courier items due for a reminder")
		return nil
	}
	s.log.Infof("%d courier items due for a reminder", len(items))

	session, err := s.smtp.NewSession(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Reminder dispatch aborted, could not open SMTP session: %v", err)
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.log.Warnf("Closing SMTP session failed: %v", err)
		}
	}()

	var sent, skipped int
	for _, item := range items {
		delivered := s.dispatchItem(ctx, session, item)
		if delivered {
			sent++
		} else {
			skipped++
		}
	}

	s.log.Infof("Reminder dispatch completed: %d sent, %d skipped or failed", sent, skipped)
	return nil
}

// SendOne sends a reminder for one explicit reference, applying the same
// gating as a full dispatch pass. Meant for manual triggering.
func (s *reminderService) SendOne(ctx context.Context, reference string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ReminderService.SendOne")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagReference(span, reference)

	item, err := s.repos.CourierItemRepository.GetByReference(ctx, reference)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	if item.Status != models.CourierStatusInProgress {
		s.log.Infof("Courier item %s is not in progress (status: %s), no reminder sent", reference, item.Status)
		return nil
	}
	if item.DueDate == nil || item.DueDate.Before(utils.Today()) {
		s.log.Infof("Courier item %s is past its due date, no reminder sent", reference)
		return nil
	}

	session, err := s.smtp.NewSession(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.log.Warnf("Closing SMTP session failed: %v", err)
		}
	}()

	if !s.dispatchItem(ctx, session, item) {
		return errors.Wrapf(er.ErrMissingRecipient, "reference %s", reference)
	}
	return nil
}

// dispatchItem performs the send attempts for one item and records the
// bookkeeping timestamp once on the first success. A failed second escalation
// attempt does not retract the timestamp, and a bookkeeping failure does not
// retract the email already sent.
func (s *reminderService) dispatchItem(ctx context.Context, session interfaces.MailSession, item *models.CourierItem) bool {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ReminderService.dispatchItem")
	defer span.Finish()
	tracing.TagReference(span, item.Reference)

	if item.RecipientEmail == nil || *item.RecipientEmail == "" {
		s.log.Warnf("No recipient email for %s (reference %s), reminder skipped",
			utils.GetOrDefault(item.RecipientDisplay, "unknown recipient"), item.Reference)
		return false
	}

	message := s.composeMessage(item)
	sendCount := item.ReminderSendCount()

	delivered := false
	for attempt := 1; attempt <= sendCount; attempt++ {
		if err := session.Send(ctx, message); err != nil {
			tracing.TraceErr(span, err)
			s.log.Errorf("Reminder send failed for reference %s (attempt %d/%d): %v",
				item.Reference, attempt, sendCount, err)
			continue
		}
		delivered = true
		s.log.Infof("Reminder sent to %s for reference %s (attempt %d/%d)",
			*item.RecipientEmail, item.Reference, attempt, sendCount)
	}

	if !delivered {
		return false
	}

	if err := s.repos.CourierItemRepository.MarkReminderSent(ctx, item.ID, utils.Now()); err != nil {
		// at-least-once semantics: the mail is already out, so the failed
		// bookkeeping update is logged and swallowed
		tracing.TraceErr(span, err)
		s.log.Errorf("Could not record reminder timestamp for reference %s: %v", item.Reference, err)
	}

	return true
}

func (s *reminderService) composeMessage(item *models.CourierItem) *dto.OutgoingEmail {
	link := fmt.Sprintf("%s/api/traiter?ref=%s", s.actionBaseURL, item.Reference)

	body := fmt.Sprintf(`Bonjour %s,

Le courrier suivant n'a pas été traité dans les délais impartis :

Objet : %s
Référence : %s
Expéditeur : %s
Date de réception : %s
Criticité : %s
Date limite de réponse : %s

Cliquez sur ce lien pour le marquer comme TRAITÉ :
%s

Merci !
`,
		utils.GetOrDefault(item.RecipientDisplay, ""),
		item.Subject,
		item.Reference,
		item.Sender,
		formatDate(item.ReceivedDate),
		utils.GetOrDefault(item.Criticality, ""),
		formatDate(item.DueDate),
		link,
	)

	message := &dto.OutgoingEmail{
		From:     s.fromAddress,
		To:       *item.RecipientEmail,
		Subject:  fmt.Sprintf("[Rappel] Courrier en retard : %s", item.Subject),
		BodyText: body,
	}
	if item.AssistantEmail != nil && *item.AssistantEmail != "" {
		message.Cc = *item.AssistantEmail
	}

	return message
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
