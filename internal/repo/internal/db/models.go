package db

import (
	"time"
)

type LedgerEntry struct {
	CreatedAt   time.Time
	ExternalRef *string
	Category    *string
	Metadata    *string
	ID          string
	AccountID   string
	Amount      string
	Reason      string
}

type ProcessedEvent struct {
	ProcessedAt time.Time
	EventID     string
	EventType   string
	Outcome     []byte
}
