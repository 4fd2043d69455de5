package domain

import (
	"time"
)

// AuditEntry is the persisted form of an AuditRecord.
type AuditEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	Requester string    `json:"requester" gorm:"index"`
	Command   string    `json:"command"`
	Result    string    `json:"result"`
	Reply     string    `json:"reply"`
}

// NewAuditEntry converts a record into its storage entity.
func NewAuditEntry(rec AuditRecord) *AuditEntry {
	return &AuditEntry{
		CreatedAt: rec.Time,
		Requester: rec.Requester,
		Command:   rec.Command,
		Result:    rec.Result,
		Reply:     rec.Reply,
	}
}
