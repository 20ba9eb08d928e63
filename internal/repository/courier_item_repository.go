package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/courieros/courierstack/interfaces"
	er "github.com/courieros/courierstack/internal/errors"
	"github.com/courieros/courierstack/internal/models"
	"github.com/courieros/courierstack/internal/tracing"
)

type courierItemRepository struct {
	db *gorm.DB
}

func NewCourierItemRepository(db *gorm.DB) interfaces.CourierItemRepository {
	return &courierItemRepository{db: db}
}

// UpsertBatch writes the batch in a single transaction. A reference conflict
// refreshes only expediteur, objet and statut; every other column keeps its
// first-insert value so manual corrections survive later sync passes.
func (r *courierItemRepository) UpsertBatch(ctx context.Context, items []*models.CourierItem) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "courierItemRepository.UpsertBatch")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)
	span.LogKV("batchSize", len(items))

	if len(items) == 0 {
		return 0, nil
	}

	var rowsAffected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reference"}},
			DoUpdates: clause.AssignmentColumns([]string{"expediteur", "objet", "statut", "updated_at"}),
		}).Create(&items)
		if result.Error != nil {
			return result.Error
		}
		rowsAffected = result.RowsAffected
		return nil
	})
	if err != nil {
		tracing.TraceErr(span, err)
		return 0, fmt.Errorf("failed to upsert courier items: %w", err)
	}

	return rowsAffected, nil
}

func (r *courierItemRepository) ListReferences(ctx context.Context) (map[string]struct{}, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "courierItemRepository.ListReferences")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var references []string
	if err := r.db.WithContext(ctx).Model(&models.CourierItem{}).Pluck("reference", &references).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to list references: %w", err)
	}

	set := make(map[string]struct{}, len(references))
	for _, reference := range references {
		set[reference] = struct{}{}
	}

	return set, nil
}

func (r *courierItemRepository) GetByReference(ctx context.Context, reference string) (*models.CourierItem, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "courierItemRepository.GetByReference")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)
	tracing.TagReference(span, reference)

	var item models.CourierItem
	result := r.db.WithContext(ctx).Where("reference = ?", reference).First(&item)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, er.ErrCourierItemNotFound
		}
		tracing.TraceErr(span, result.Error)
		return nil, fmt.Errorf("failed to get courier item: %w", result.Error)
	}

	return &item, nil
}

// ListReminderCandidates selects the items one dispatch pass acts on: still in
// progress, due date today or later, not yet reminded today.
func (r *courierItemRepository) ListReminderCandidates(ctx context.Context, today time.Time) ([]*models.CourierItem, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "courierItemRepository.ListReminderCandidates")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var items []*models.CourierItem
	err := r.db.WithContext(ctx).
		Where("statut = ?", models.CourierStatusInProgress).
		Where("date_echeance >= ?", today).
		Where("last_reminder_sent_at IS NULL OR last_reminder_sent_at < ?", today).
		Order("date_echeance asc").
		Find(&items).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to list reminder candidates: %w", err)
	}

	return items, nil
}

// MarkReminderSent records the send timestamp. The column only moves forward:
// an older timestamp never overwrites a newer one.
func (r *courierItemRepository) MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "courierItemRepository.MarkReminderSent")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	result := r.db.WithContext(ctx).
		Model(&models.CourierItem{}).
		Where("id = ?", id).
		Where("last_reminder_sent_at IS NULL OR last_reminder_sent_at <= ?", sentAt).
		Updates(map[string]interface{}{
			"last_reminder_sent_at": sentAt,
			"updated_at":            time.Now(),
		})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return fmt.Errorf("failed to mark reminder sent: %w", result.Error)
	}

	return nil
}

func (r *courierItemRepository) MarkProcessed(ctx context.Context, reference string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "courierItemRepository.MarkProcessed")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)
	tracing.TagReference(span, reference)

	result := r.db.WithContext(ctx).
		Model(&models.CourierItem{}).
		Where("reference = ?", reference).
		Updates(map[string]interface{}{
			"statut":     models.CourierStatusProcessed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return fmt.Errorf("failed to mark courier item processed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return er.ErrCourierItemNotFound
	}

	return nil
}
