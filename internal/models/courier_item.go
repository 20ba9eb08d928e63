package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/courieros/courierstack/internal/utils"
)

const (
	// CourierStatusInProgress is the only status value the reminder dispatcher acts on.
	CourierStatusInProgress = "en_cours"
	// CourierStatusProcessed is set when a recipient follows the self-service action link.
	CourierStatusProcessed = "traite"
)

// EscalationDelayHours doubles the reminder send count when it matches
// delais_traitement exactly.
const EscalationDelayHours = 24

// CourierItem represents one tracked mail item in the register.
// Column names follow the source form tool so the table stays compatible
// with the reporting queries built on top of it.
type CourierItem struct {
	ID string `gorm:"column:id;type:varchar(50);primaryKey"`

	// Identity
	FormRecordID int64  `gorm:"column:_id;index;not null"`
	Reference    string `gorm:"column:reference;type:varchar(255);uniqueIndex;not null"`

	// Routing
	Sender           string  `gorm:"column:expediteur;type:varchar(255)"`
	RecipientDisplay *string `gorm:"column:destinataire;type:varchar(500)"`
	RecipientEmail   *string `gorm:"column:email_destinataire;type:varchar(255);index"`
	AssistantName    *string `gorm:"column:assistante_en_charge;type:varchar(255)"`
	AssistantEmail   *string `gorm:"column:email_assistante;type:varchar(255)"`

	// Workflow
	Subject      string     `gorm:"column:objet;type:varchar(1000)"`
	Status       string     `gorm:"column:statut;type:varchar(50);index"`
	Criticality  *string    `gorm:"column:criticite;type:varchar(50)"`
	Action       *string    `gorm:"column:action;type:varchar(500)"`
	ReceivedDate *time.Time `gorm:"column:date_recept;type:date"`
	TransferDate *time.Time `gorm:"column:date_transfert;type:date"`
	DueDate      *time.Time `gorm:"column:date_echeance;type:date;index"`

	// Bookkeeping
	ProcessingDelayHours *int       `gorm:"column:delais_traitement"`
	LastReminderSentAt   *time.Time `gorm:"column:last_reminder_sent_at;type:timestamp;index"`

	// Source form passthrough, carried but never transformed
	FormhubUUID      *string        `gorm:"column:formhub_uuid;type:varchar(100)"`
	StartedAt        *string        `gorm:"column:start;type:varchar(50)"`
	EndedAt          *string        `gorm:"column:end;type:varchar(50)"`
	FormVersion      *string        `gorm:"column:form_version;type:varchar(100)"`
	InstanceID       *string        `gorm:"column:meta_instance_id;type:varchar(100)"`
	RootUUID         *string        `gorm:"column:meta_root_uuid;type:varchar(100)"`
	XFormIDString    *string        `gorm:"column:xform_id_string;type:varchar(100)"`
	SubmissionUUID   *string        `gorm:"column:submission_uuid;type:varchar(100)"`
	SourceStatus     *string        `gorm:"column:source_status;type:varchar(100)"`
	ValidationStatus JSONMap        `gorm:"column:validation_status;type:jsonb"`
	Attachments      JSONArray      `gorm:"column:attachments;type:jsonb"`
	Geolocation      JSONArray      `gorm:"column:geolocation;type:jsonb"`
	SubmissionTime   *time.Time     `gorm:"column:submission_time;type:timestamp"`
	Tags             pq.StringArray `gorm:"column:tags;type:text[]"`
	Notes            *string        `gorm:"column:notes;type:text"`
	SubmittedBy      *string        `gorm:"column:submitted_by;type:varchar(255)"`

	// Standard timestamps
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (CourierItem) TableName() string {
	return "gestion_courier"
}

func (c *CourierItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = utils.GenerateNanoIDWithPrefix("courier", 24)
	}
	c.CreatedAt = utils.Now()
	return nil
}

// ReminderSendCount returns how many reminder messages one dispatch pass
// sends for this item. Items in the 24h delay class get a double send as
// an escalation signal.
func (c *CourierItem) ReminderSendCount() int {
	if c.ProcessingDelayHours != nil && *c.ProcessingDelayHours == EscalationDelayHours {
		return 2
	}
	return 1
}

// RemindedToday reports whether a reminder already went out on the given day.
func (c *CourierItem) RemindedToday(today time.Time) bool {
	if c.LastReminderSentAt == nil {
		return false
	}
	return utils.SameDay(*c.LastReminderSentAt, today)
}
