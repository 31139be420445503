package ports

import (
	"context"
	"time"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
)

// FieldInput carries the attributes of a dynamic field definition.
type FieldInput struct {
	Name       string
	Key        string
	Type       string
	CategoryID string
}

// FieldUpdates carries partial updates; nil pointers are left untouched.
type FieldUpdates struct {
	Name       *string
	Key        *string
	Type       *string
	CategoryID *string
}

// FeedbackInput carries a visitor submission. Status and date are assigned
// by the store.
type FeedbackInput struct {
	Type      string
	Name      string
	Message   string
	SKU       string
	LegNumber string
}

// SettingSort selects the ordering of browse results.
type SettingSort string

const (
	SortBySKU        SettingSort = "sku"
	SortByUpdated    SettingSort = "updated"
	SortByLastWorked SettingSort = "last_worked"
)

// SettingSummary annotates a setting with its most recent "working" vote.
type SettingSummary struct {
	domain.Setting
	LastWorked *time.Time `json:"lastWorked,omitempty"`
}

// FieldValue pairs a field definition with the setting's value for it.
// Value is nil when the setting carries no entry for the field's key.
type FieldValue struct {
	Field domain.Field `json:"field"`
	Value any          `json:"value"`
}

// CategoryGroup is one tab of the detail view.
type CategoryGroup struct {
	Category domain.Category `json:"category"`
	Fields   []FieldValue    `json:"fields"`
}

// SettingDetail is the full category-tabbed view of a single setting.
type SettingDetail struct {
	Setting    domain.Setting  `json:"setting"`
	LastWorked *time.Time      `json:"lastWorked,omitempty"`
	Categories []CategoryGroup `json:"categories"`
}

// StateStore is the application state store: the single owner of the
// in-memory entity collections. Every mutation performs the remote write
// first and patches local state only on success; failures come back as
// sentinel errors, never panics.
type StateStore interface {
	// Bulk loading.
	FetchData(ctx context.Context) error
	RefreshData(ctx context.Context) error
	LoadError() string
	ClearLoadError()

	// Snapshots.
	Settings() []domain.Setting
	Fields() []domain.Field
	Categories() []domain.Category
	Feedback() []domain.Feedback
	Votes() []domain.Vote
	AppConfig() map[string]string
	History(ctx context.Context, limit int64) ([]domain.HistoryEntry, error)
	Profiles(ctx context.Context) ([]domain.Profile, error)

	// Settings.
	AddSetting(ctx context.Context, attrs map[string]any) (domain.Setting, error)
	UpdateSetting(ctx context.Context, id string, attrs map[string]any) (domain.Setting, error)
	DeleteSetting(ctx context.Context, id string) error

	// Structure.
	AddField(ctx context.Context, input FieldInput) (domain.Field, error)
	UpdateField(ctx context.Context, id string, updates FieldUpdates) error
	RemoveField(ctx context.Context, id string) error
	AddCategory(ctx context.Context, name string) (domain.Category, error)
	UpdateCategory(ctx context.Context, id, name string) error
	DeleteCategory(ctx context.Context, id string) error

	// Feedback and votes.
	AddFeedback(ctx context.Context, input FeedbackInput) error
	ResolveFeedback(ctx context.Context, id string) error
	DeleteFeedback(ctx context.Context, id string) error
	AddVote(ctx context.Context, settingID string) (domain.Vote, error)

	// Configuration and moderation.
	UpdateAppConfig(ctx context.Context, key, value string) error
	UpdateProfileStatus(ctx context.Context, id string, status domain.ProfileStatus) error
	DeleteHistory(ctx context.Context, id string) error

	// Identity snapshot.
	User() *domain.User
	SetUser(user *domain.User)
	ClearUser()

	// Search scratch state.
	SetLegSearch(leg string)
	SetSKUSearch(sku string)
	SetSelectedCaseSize(size string)
	ResetSearch()
	SearchState() (leg, sku, caseSize string)

	// Browse derivations.
	CaseSizesForLeg(leg string) []string
	BrowseSettings(leg, caseSize, sku string, sort SettingSort) []SettingSummary
	SettingDetail(id string) (*SettingDetail, error)
}
