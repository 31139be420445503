package ports

import (
	"context"
	"time"
)

// Row types mirror the backend's storage column conventions (snake_case,
// nested data document). Translation to the camel-case domain model happens
// exactly once, at the state store boundary, never mid-flow.

type SettingRow struct {
	ID          string         `bson:"_id"`
	SKU         string         `bson:"sku"`
	LegNumber   string         `bson:"leg_number"`
	CaseSize    string         `bson:"case_size"`
	LastUpdated time.Time      `bson:"last_updated"`
	Data        map[string]any `bson:"data"`
}

type FieldRow struct {
	ID         string `bson:"_id"`
	Name       string `bson:"name"`
	Key        string `bson:"key"`
	Type       string `bson:"type"`
	CategoryID string `bson:"category_id"`
}

type CategoryRow struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type FeedbackRow struct {
	ID        string    `bson:"_id"`
	Type      string    `bson:"type"`
	Name      string    `bson:"name"`
	Message   string    `bson:"message"`
	SKU       string    `bson:"sku,omitempty"`
	LegNumber string    `bson:"leg_number,omitempty"`
	Status    string    `bson:"status"`
	Date      time.Time `bson:"date"`
}

type VoteRow struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	SettingID string    `bson:"setting_id"`
	CreatedAt time.Time `bson:"created_at"`
}

type ConfigRow struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

type ProfileRow struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Role      string    `bson:"role"`
	Status    string    `bson:"status"`
	FirstName string    `bson:"first_name,omitempty"`
	LastName  string    `bson:"last_name,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

type HistoryRow struct {
	ID        string         `bson:"_id"`
	UserEmail string         `bson:"user_email"`
	Action    string         `bson:"action"`
	Details   map[string]any `bson:"details"`
	CreatedAt time.Time      `bson:"created_at"`
}

// Table interfaces are the backend gateway's table-scoped operations. The
// backing service is a black box to the core: row-level policies, triggers,
// and server-side constraints live behind these methods.

type SettingsTable interface {
	Select(ctx context.Context) ([]SettingRow, error)
	Insert(ctx context.Context, row SettingRow) (SettingRow, error)
	Update(ctx context.Context, id string, row SettingRow) error
	Delete(ctx context.Context, id string) error
}

type FieldsTable interface {
	Select(ctx context.Context) ([]FieldRow, error)
	Insert(ctx context.Context, row FieldRow) (FieldRow, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
}

type CategoriesTable interface {
	Select(ctx context.Context) ([]CategoryRow, error)
	Insert(ctx context.Context, row CategoryRow) (CategoryRow, error)
	Update(ctx context.Context, id string, name string) error
	Delete(ctx context.Context, id string) error
}

type FeedbackTable interface {
	Select(ctx context.Context) ([]FeedbackRow, error)
	Insert(ctx context.Context, row FeedbackRow) error
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
}

type VotesTable interface {
	Select(ctx context.Context) ([]VoteRow, error)
	Insert(ctx context.Context, row VoteRow) (VoteRow, error)
}

type ConfigTable interface {
	Select(ctx context.Context) ([]ConfigRow, error)
	Upsert(ctx context.Context, key, value string) error
}

type ProfilesTable interface {
	Select(ctx context.Context) ([]ProfileRow, error)
	Find(ctx context.Context, id string) (*ProfileRow, error)
	Insert(ctx context.Context, row ProfileRow) error
	UpdateStatus(ctx context.Context, id string, status string) error
}

type HistoryTable interface {
	// Select returns the most recent entries, newest first, capped at limit.
	Select(ctx context.Context, limit int64) ([]HistoryRow, error)
	Insert(ctx context.Context, row HistoryRow) error
	Delete(ctx context.Context, id string) error
}

// Gateway bundles every table the portal touches.
type Gateway struct {
	Settings   SettingsTable
	Fields     FieldsTable
	Categories CategoriesTable
	Feedback   FeedbackTable
	Votes      VotesTable
	Config     ConfigTable
	Profiles   ProfilesTable
	History    HistoryTable
}
