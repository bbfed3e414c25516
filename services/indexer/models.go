package indexer

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventRecord is one ledger event flattened for querying.
type EventRecord struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Sequence   uint64    `gorm:"autoIncrement;uniqueIndex" json:"sequence"`
	Type       string    `gorm:"size:64;index" json:"type"`
	Symbol     string    `gorm:"size:32;index" json:"symbol"`
	Attributes string    `gorm:"type:text" json:"attributes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BeforeCreate assigns the record id when the caller did not.
func (r *EventRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
