package interfaces

import (
	"context"
	"time"

	"github.com/courieros/courierstack/internal/models"
)

type CourierItemRepository interface {
	// UpsertBatch inserts the items in one transaction. On a reference conflict
	// only expediteur, objet and statut are refreshed. Returns rows affected.
	UpsertBatch(ctx context.Context, items []*models.CourierItem) (int64, error)

	// ListReferences returns every stored business reference. Used as an
	// application-side dedup shortcut; correctness relies on the unique
	// constraint, not on this set.
	ListReferences(ctx context.Context) (map[string]struct{}, error)

	GetByReference(ctx context.Context, reference string) (*models.CourierItem, error)

	// ListReminderCandidates returns open items whose due date has not passed
	// and which have not been reminded on the given day.
	ListReminderCandidates(ctx context.Context, today time.Time) ([]*models.CourierItem, error)

	// MarkReminderSent advances last_reminder_sent_at. The timestamp only ever
	// moves forward.
	MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error

	// MarkProcessed flips the item to the processed status. Backs the
	// self-service action link.
	MarkProcessed(ctx context.Context, reference string) error
}
