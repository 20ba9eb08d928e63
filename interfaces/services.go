package interfaces

import "context"

// SyncService keeps the register current with the form source.
type SyncService interface {
	// RunSync performs one fetch/normalize/upsert pass and returns the number
	// of rows the batch touched.
	RunSync(ctx context.Context) (int64, error)
}

// ReminderService acts on the register's current state.
type ReminderService interface {
	// RunDispatch sends due reminders for every eligible register item.
	RunDispatch(ctx context.Context) error
	// SendOne sends a reminder for one explicit reference, applying the same
	// eligibility gating as a full dispatch pass.
	SendOne(ctx context.Context, reference string) error
}
