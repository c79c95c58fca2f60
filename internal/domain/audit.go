package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit event types written by this core.
const (
	AuditParticipationPurchased = "PARTICIPATION_PURCHASED"
	AuditProfitDistributed      = "PROFIT_DISTRIBUTED"
)

// AuditEntry is the append-only audit sink. EventData carries the
// event-specific payload as JSON.
type AuditEntry struct {
	EntryID     uuid.UUID      `gorm:"column:entry_id;type:uuid;primaryKey" json:"entry_id"`
	EventType   string         `gorm:"column:event_type;type:varchar(40);not null;index" json:"event_type"`
	ActorUserID *uuid.UUID     `gorm:"column:actor_user_id;type:uuid" json:"actor_user_id"`
	EventData   datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	CreatedAt   time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (AuditEntry) TableName() string {
	return "AuditEntries"
}

func (e *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if e.EntryID == uuid.Nil {
		e.EntryID = uuid.New()
	}
	return nil
}
