package repository_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	er "github.com/courieros/courierstack/internal/errors"
	"github.com/courieros/courierstack/internal/models"
	"github.com/courieros/courierstack/internal/repository"
)

const (
	upsertQuery         = `(?s)INSERT INTO "gestion_courier" .*ON CONFLICT \("reference"\) DO UPDATE SET .*"expediteur".*"objet".*"statut".*`
	candidatesQuery     = `(?s)SELECT \* FROM "gestion_courier" WHERE statut = \$1 AND date_echeance >= \$2 AND \(last_reminder_sent_at IS NULL OR last_reminder_sent_at < \$3\) ORDER BY date_echeance asc`
	getByReferenceQuery = `(?s)SELECT \* FROM "gestion_courier" WHERE reference = \$1 ORDER BY "gestion_courier"\."id" LIMIT`
	markReminderQuery   = `(?s)UPDATE "gestion_courier" SET "last_reminder_sent_at"=\$1,"updated_at"=\$2 WHERE id = \$3 AND \(last_reminder_sent_at IS NULL OR last_reminder_sent_at <= \$4\)`
	markProcessedQuery  = `(?s)UPDATE "gestion_courier" SET "statut"=\$1,"updated_at"=\$2 WHERE reference = \$3`
	listReferencesQuery = `(?s)SELECT "reference" FROM "gestion_courier"`
)

// queryRecorder keeps every statement the repository sends so tests can make
// assertions regexp expectations cannot, like a column being absent.
type queryRecorder struct {
	queries []string
}

func (r *queryRecorder) Match(expectedSQL, actualSQL string) error {
	r.queries = append(r.queries, actualSQL)
	return sqlmock.QueryMatcherRegexp.Match(expectedSQL, actualSQL)
}

func (r *queryRecorder) find(t *testing.T, fragment string) string {
	t.Helper()
	for _, query := range r.queries {
		if strings.Contains(query, fragment) {
			return query
		}
	}
	t.Fatalf("no recorded query contains %q", fragment)
	return ""
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *queryRecorder, func()) {
	t.Helper()

	recorder := &queryRecorder{}
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(recorder))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	return gormDB, mock, recorder, func() { _ = db.Close() }
}

func registerItem(reference string) *models.CourierItem {
	email := "jessica.brou@vivoenergy.com"
	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return &models.CourierItem{
		Reference:      reference,
		Sender:         "Direction Générale",
		Subject:        "Facture fournisseur",
		Status:         models.CourierStatusInProgress,
		RecipientEmail: &email,
		DueDate:        &due,
	}
}

func TestUpsertBatch_ConflictRefreshesRegisterFieldsOnly(t *testing.T) {
	db, mock, recorder, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewCourierItemRepository(db)
	items := []*models.CourierItem{registerItem("REF-001"), registerItem("REF-002")}

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(upsertQuery).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(now, now).
			AddRow(now, now))
	mock.ExpectCommit()

	rows, err := repo.UpsertBatch(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)
	assert.NoError(t, mock.ExpectationsWereMet())

	// the conflict update refreshes the register fields and nothing else:
	// normalized emails, dates and delays keep their first-insert values
	insert := recorder.find(t, "ON CONFLICT")
	_, updateSet, found := strings.Cut(insert, "DO UPDATE SET")
	require.True(t, found)
	assert.Contains(t, updateSet, `"expediteur"`)
	assert.Contains(t, updateSet, `"objet"`)
	assert.Contains(t, updateSet, `"statut"`)
	assert.Contains(t, updateSet, `"updated_at"`)
	assert.NotContains(t, updateSet, `"email_destinataire"`)
	assert.NotContains(t, updateSet, `"email_assistante"`)
	assert.NotContains(t, updateSet, `"destinataire"`)
	assert.NotContains(t, updateSet, `"date_echeance"`)
	assert.NotContains(t, updateSet, `"date_recept"`)
	assert.NotContains(t, updateSet, `"delais_traitement"`)
	assert.NotContains(t, updateSet, `"last_reminder_sent_at"`)
}

func TestUpsertBatch_EmptyBatch(t *testing.T) {
	db, mock, _, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewCourierItemRepository(db)

	rows, err := repo.UpsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReminderCandidates_GatingPredicates(t *testing.T) {
	db, mock, _, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewCourierItemRepository(db)
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(candidatesQuery).
		WithArgs(models.CourierStatusInProgress, today, today).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reference", "statut"}).
			AddRow("courier_1", "REF-001", models.CourierStatusInProgress))

	items, err := repo.ListReminderCandidates(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "REF-001", items[0].Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReferences(t *testing.T) {
	db, mock, _, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewCourierItemRepository(db)

	mock.ExpectQuery(listReferencesQuery).
		WillReturnRows(sqlmock.NewRows([]string{"reference"}).
			AddRow("REF-001").
			AddRow("REF-002"))

	set, err := repo.ListReferences(context.Background())
	require.NoError(t, err)
	assert.Len(t, set, 2)
	assert.Contains(t, set, "REF-001")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByReference_NotFound(t *testing.T) {
	db, mock, _, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewCourierItemRepository(db)

	mock.ExpectQuery(getByReferenceQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByReference(context.Background(), "REF-404")
	assert.ErrorIs(t, err, er.ErrCourierItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReminderSent_ForwardOnly(t *testing.T) {
	db, mock, _, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewCourierItemRepository(db)
	sentAt := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(markReminderQuery).
		WithArgs(sentAt, sqlmock.AnyArg(), "courier_1", sentAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.MarkReminderSent(context.Background(), "courier_1", sentAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkProcessed(t *testing.T) {
	db, mock, _, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewCourierItemRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(markProcessedQuery).
		WithArgs(models.CourierStatusProcessed, sqlmock.AnyArg(), "REF-001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.MarkProcessed(context.Background(), "REF-001")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkProcessed_UnknownReference(t *testing.T) {
	db, mock, _, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewCourierItemRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(markProcessedQuery).
		WithArgs(models.CourierStatusProcessed, sqlmock.AnyArg(), "REF-404").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.MarkProcessed(context.Background(), "REF-404")
	assert.ErrorIs(t, err, er.ErrCourierItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
