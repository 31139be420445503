package domain

import "time"

// HistoryAction identifies the mutation kind recorded in the audit log.
type HistoryAction string

const (
	HistoryCreate HistoryAction = "create"
	HistoryUpdate HistoryAction = "update"
	HistoryDelete HistoryAction = "delete"
)

// FieldChange captures a single before/after value inside an update diff.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// HistoryEntry is one row of the append-only audit log mirrored from every
// Setting mutation. Details holds a structured diff (update), the written
// payload (create), or a full snapshot under "backup" (delete).
type HistoryEntry struct {
	ID        string         `json:"id"`
	UserEmail string         `json:"userEmail"`
	Action    HistoryAction  `json:"action"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"createdAt"`
}
