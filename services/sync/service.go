package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opentracing/opentracing-go"

	"github.com/courieros/courierstack/dto"
	"github.com/courieros/courierstack/interfaces"
	"github.com/courieros/courierstack/internal/logger"
	"github.com/courieros/courierstack/internal/models"
	"github.com/courieros/courierstack/internal/normalize"
	"github.com/courieros/courierstack/internal/repository"
	"github.com/courieros/courierstack/internal/tracing"
	"github.com/courieros/courierstack/internal/utils"
)

type syncService struct {
	log        logger.Logger
	source     interfaces.FormSource
	repos      *repository.Repositories
	normalizer *normalize.Normalizer
	archive    interfaces.ArchiveStorage
}

func NewSyncService(
	log logger.Logger,
	source interfaces.FormSource,
	repos *repository.Repositories,
	normalizer *normalize.Normalizer,
	archive interfaces.ArchiveStorage,
) interfaces.SyncService {
	return &syncService{
		log:        log,
		source:     source,
		repos:      repos,
		normalizer: normalizer,
		archive:    archive,
	}
}

// RunSync performs one fetch/normalize/upsert pass. The whole batch commits in
// one transaction; a source or store failure aborts the run with nothing
// written.
func (s *syncService) RunSync(ctx context.Context) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "SyncService.RunSync")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	runID := utils.GenerateRunID()
	s.log.Infof("Starting register sync run %s", runID)

	records, err := s.source.FetchRecords(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Register sync %s aborted, form source failed: %v", runID, err)
		return 0, err
	}
	s.log.Infof("Fetched %d records from form source", len(records))

	s.archiveRawPayload(ctx, runID, records)

	// existence set is informational only; the unique constraint on reference
	// is what makes ingestion idempotent
	existing, err := s.repos.CourierItemRepository.ListReferences(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return 0, err
	}

	items := make([]*models.CourierItem, 0, len(records))
	newCount := 0
	for _, record := range records {
		item := s.normalizeRecord(ctx, record)
		if item == nil {
			continue
		}
		if _, known := existing[item.Reference]; !known {
			newCount++
		}
		items = append(items, item)
	}
	s.log.Infof("Normalized %d records (%d new references, %d already registered)",
		len(items), newCount, len(items)-newCount)

	rowsAffected, err := s.repos.CourierItemRepository.UpsertBatch(ctx, items)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Register sync %s aborted, upsert failed: %v", runID, err)
		return 0, err
	}

	s.log.Infof("Register sync %s completed, %d rows affected", runID, rowsAffected)
	return rowsAffected, nil
}

// normalizeRecord applies the field normalizer to one raw record. Passthrough
// fields are copied verbatim. Returns nil for records without a business
// reference, which the register cannot key.
func (s *syncService) normalizeRecord(ctx context.Context, record dto.KoboSubmission) *models.CourierItem {
	if record.Reference == "" {
		s.log.Warnf("Skipping form record %d: missing reference", record.ID)
		return nil
	}

	item := &models.CourierItem{
		FormRecordID:         record.ID,
		Reference:            record.Reference,
		Sender:               record.Expediteur,
		Subject:              record.Objet,
		Status:               record.Statut,
		Criticality:          strOrNil(record.Criticite),
		Action:               strOrNil(record.Action),
		RecipientDisplay:     normalize.FormatRecipient(record.Destinataire),
		AssistantName:        strOrNil(record.AssistanteEnCharge),
		ReceivedDate:         normalize.ParseDate(record.DateRecept),
		TransferDate:         normalize.ParseDate(record.DateTransfert),
		DueDate:              normalize.ParseDate(record.DateEcheance),
		ProcessingDelayHours: normalize.ParseDelay(record.DelaisTraitement),

		FormhubUUID:      strOrNil(record.FormhubUUID),
		StartedAt:        strOrNil(record.Start),
		EndedAt:          strOrNil(record.End),
		FormVersion:      strOrNil(record.Version),
		InstanceID:       strOrNil(record.InstanceID),
		RootUUID:         strOrNil(record.RootUUID),
		XFormIDString:    strOrNil(record.XFormIDString),
		SubmissionUUID:   strOrNil(record.UUID),
		SourceStatus:     strOrNil(record.Status),
		ValidationStatus: models.JSONMap(record.ValidationStatus),
		Attachments:      models.JSONArray(record.Attachments),
		Geolocation:      models.JSONArray(record.Geolocation),
		SubmissionTime:   normalize.ParseDate(record.SubmissionTime),
		Tags:             record.Tags,
		SubmittedBy:      strOrNil(record.SubmittedBy),
	}

	if len(record.Notes) > 0 {
		if notes, err := json.Marshal(record.Notes); err == nil {
			item.Notes = utils.StringPtr(string(notes))
		}
	}

	item.RecipientEmail = s.normalizeEmailField(record.Reference, "email_destinataire", record.EmailDestinataire)
	item.AssistantEmail = s.normalizeEmailField(record.Reference, "email_assistante", record.EmailAssistante)

	return item
}

// normalizeEmailField stores NULL for unparseable values, never a malformed
// address, and logs the raw value for manual follow-up.
func (s *syncService) normalizeEmailField(reference, field, raw string) *string {
	normalized, err := s.normalizer.NormalizeEmail(raw)
	if err != nil {
		s.log.Warnf("Could not normalize %s for reference %s, raw value %q stored as null: %v",
			field, reference, raw, err)
		return nil
	}
	if normalized == "" {
		return nil
	}
	return &normalized
}

func (s *syncService) archiveRawPayload(ctx context.Context, runID string, records []dto.KoboSubmission) {
	if s.archive == nil || !s.archive.Enabled() {
		return
	}

	payload, err := json.Marshal(records)
	if err != nil {
		s.log.Warnf("Could not marshal raw payload for archival: %v", err)
		return
	}

	key := fmt.Sprintf("raw/%s/%s.json", utils.Today().Format("2006-01-02"), runID)
	if err := s.archive.StoreRawPayload(ctx, key, payload); err != nil {
		// archival is best effort, the sync run carries on
		s.log.Warnf("Raw payload archival failed: %v", err)
	}
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
