package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

const (
	collectionSettings   = "settings"
	collectionFields     = "fields"
	collectionCategories = "categories"
	collectionFeedback   = "feedback"
	collectionVotes      = "votes"
	collectionConfig     = "app_config"
	collectionProfiles   = "profiles"
	collectionHistory    = "history"
)

// NewGateway wires one repository per portal table over the given database.
func NewGateway(db *mongo.Database) ports.Gateway {
	return ports.Gateway{
		Settings:   &SettingsRepository{col: db.Collection(collectionSettings)},
		Fields:     &FieldsRepository{col: db.Collection(collectionFields)},
		Categories: &CategoriesRepository{col: db.Collection(collectionCategories)},
		Feedback:   &FeedbackRepository{col: db.Collection(collectionFeedback)},
		Votes:      &VotesRepository{col: db.Collection(collectionVotes)},
		Config:     &ConfigRepository{col: db.Collection(collectionConfig)},
		Profiles:   &ProfilesRepository{col: db.Collection(collectionProfiles)},
		History:    &HistoryRepository{col: db.Collection(collectionHistory)},
	}
}

// EnsureIndexes creates the indexes the lookup and admin flows rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		collectionSettings: {
			{Keys: bson.D{{Key: "leg_number", Value: 1}, {Key: "case_size", Value: 1}}},
			{Keys: bson.D{{Key: "sku", Value: 1}}},
		},
		collectionFields:   {{Keys: bson.D{{Key: "category_id", Value: 1}}}},
		collectionVotes:    {{Keys: bson.D{{Key: "setting_id", Value: 1}, {Key: "user_id", Value: 1}}}},
		collectionProfiles: {{Keys: bson.D{{Key: "email", Value: 1}}}},
		collectionHistory:  {{Keys: bson.D{{Key: "created_at", Value: -1}}}},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func selectAll[T any](ctx context.Context, col *mongo.Collection, opts ...*options.FindOptions) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, bson.D{}, opts...)
	if err != nil {
		return nil, err
	}
	rows := []T{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}

// --- settings ---

type SettingsRepository struct {
	col *mongo.Collection
}

func (r *SettingsRepository) Select(ctx context.Context) ([]ports.SettingRow, error) {
	return selectAll[ports.SettingRow](ctx, r.col)
}

func (r *SettingsRepository) Insert(ctx context.Context, row ports.SettingRow) (ports.SettingRow, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, row); err != nil {
		return ports.SettingRow{}, err
	}
	return row, nil
}

func (r *SettingsRepository) Update(ctx context.Context, id string, row ports.SettingRow) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"sku":          row.SKU,
		"leg_number":   row.LegNumber,
		"case_size":    row.CaseSize,
		"last_updated": row.LastUpdated,
		"data":         row.Data,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrSettingNotFound
	}
	return nil
}

func (r *SettingsRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrSettingNotFound)
}

// --- fields ---

type FieldsRepository struct {
	col *mongo.Collection
}

func (r *FieldsRepository) Select(ctx context.Context) ([]ports.FieldRow, error) {
	return selectAll[ports.FieldRow](ctx, r.col)
}

func (r *FieldsRepository) Insert(ctx context.Context, row ports.FieldRow) (ports.FieldRow, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, row); err != nil {
		return ports.FieldRow{}, err
	}
	return row, nil
}

func (r *FieldsRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrFieldNotFound
	}
	return nil
}

func (r *FieldsRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrFieldNotFound)
}

// --- categories ---

type CategoriesRepository struct {
	col *mongo.Collection
}

func (r *CategoriesRepository) Select(ctx context.Context) ([]ports.CategoryRow, error) {
	return selectAll[ports.CategoryRow](ctx, r.col)
}

func (r *CategoriesRepository) Insert(ctx context.Context, row ports.CategoryRow) (ports.CategoryRow, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, row); err != nil {
		return ports.CategoryRow{}, err
	}
	return row, nil
}

func (r *CategoriesRepository) Update(ctx context.Context, id string, name string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoriesRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrCategoryNotFound)
}

// --- feedback ---

type FeedbackRepository struct {
	col *mongo.Collection
}

func (r *FeedbackRepository) Select(ctx context.Context) ([]ports.FeedbackRow, error) {
	return selectAll[ports.FeedbackRow](ctx, r.col)
}

func (r *FeedbackRepository) Insert(ctx context.Context, row ports.FeedbackRow) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	_, err := r.col.InsertOne(ctx, row)
	return err
}

func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrFeedbackNotFound
	}
	return nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrFeedbackNotFound)
}

// --- votes ---

type VotesRepository struct {
	col *mongo.Collection
}

func (r *VotesRepository) Select(ctx context.Context) ([]ports.VoteRow, error) {
	return selectAll[ports.VoteRow](ctx, r.col)
}

func (r *VotesRepository) Insert(ctx context.Context, row ports.VoteRow) (ports.VoteRow, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, row); err != nil {
		return ports.VoteRow{}, err
	}
	return row, nil
}

// --- app_config ---

type ConfigRepository struct {
	col *mongo.Collection
}

func (r *ConfigRepository) Select(ctx context.Context) ([]ports.ConfigRow, error) {
	return selectAll[ports.ConfigRow](ctx, r.col)
}

func (r *ConfigRepository) Upsert(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"value": value}},
		options.Update().SetUpsert(true),
	)
	return err
}

// --- profiles ---

type ProfilesRepository struct {
	col *mongo.Collection
}

// Select returns all profiles, newest first, for the admin users view.
func (r *ProfilesRepository) Select(ctx context.Context) ([]ports.ProfileRow, error) {
	return selectAll[ports.ProfileRow](ctx, r.col,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *ProfilesRepository) Find(ctx context.Context, id string) (*ports.ProfileRow, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row ports.ProfileRow
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *ProfilesRepository) Insert(ctx context.Context, row ports.ProfileRow) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	_, err := r.col.InsertOne(ctx, row)
	return err
}

func (r *ProfilesRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// --- history ---

type HistoryRepository struct {
	col *mongo.Collection
}

func (r *HistoryRepository) Select(ctx context.Context, limit int64) ([]ports.HistoryRow, error) {
	return selectAll[ports.HistoryRow](ctx, r.col,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit))
}

func (r *HistoryRepository) Insert(ctx context.Context, row ports.HistoryRow) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	_, err := r.col.InsertOne(ctx, row)
	return err
}

func (r *HistoryRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrHistoryNotFound)
}
