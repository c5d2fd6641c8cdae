package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/social-feed/social-feed/internal/models"
)

const (
	activityCollection = "activities"
	counterCollection  = "counters"
	activitySequence   = "activities"
)

type activityDocument struct {
	ID          uint64                 `bson:"_id"`
	Type        string                 `bson:"type"`
	ActorID     string                 `bson:"actor"`
	TargetID    string                 `bson:"target"`
	TargetModel string                 `bson:"target_model"`
	Metadata    map[string]interface{} `bson:"metadata,omitempty"`
	Message     string                 `bson:"message"`
	CreatedAt   time.Time              `bson:"created_at"`
}

type counterDocument struct {
	ID  string `bson:"_id"`
	Seq uint64 `bson:"seq"`
}

// MongoActivityRepository stores activities in MongoDB. Ids come from a
// counters document so ordering matches the relational store.
type MongoActivityRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{
		col:      db.Collection(activityCollection),
		counters: db.Collection(counterCollection),
	}
}

// EnsureIndexes 创建排序与按 actor 查询需要的索引
func (r *MongoActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "actor", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create activity indexes: %w", err)
	}
	return nil
}

func (r *MongoActivityRepository) nextID(ctx context.Context) (uint64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter counterDocument
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": activitySequence},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate activity id: %w", err)
	}
	return counter.Seq, nil
}

func (r *MongoActivityRepository) Append(ctx context.Context, activity *models.Activity) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	doc := activityDocument{
		ID:          id,
		Type:        string(activity.Type),
		ActorID:     activity.ActorID.String(),
		TargetID:    activity.TargetID.String(),
		TargetModel: string(activity.TargetModel),
		Metadata:    activity.Metadata,
		Message:     activity.Message,
		CreatedAt:   activity.CreatedAt.UTC().Truncate(time.Millisecond),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	activity.ID = id
	return nil
}

func (r *MongoActivityRepository) List(ctx context.Context, filter ActivityFilter, offset, limit int) ([]*models.Activity, int64, error) {
	query := bson.M{}
	actor := bson.M{}
	if filter.ActorID != nil {
		actor["$eq"] = filter.ActorID.String()
	}
	if len(filter.ExcludeActors) > 0 {
		excluded := make([]string, 0, len(filter.ExcludeActors))
		for _, id := range filter.ExcludeActors {
			excluded = append(excluded, id.String())
		}
		actor["$nin"] = excluded
	}
	if len(actor) > 0 {
		query["actor"] = actor
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []activityDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode activities: %w", err)
	}

	activities := make([]*models.Activity, 0, len(docs))
	for _, doc := range docs {
		activity, err := doc.toModel()
		if err != nil {
			return nil, 0, err
		}
		activities = append(activities, activity)
	}
	return activities, total, nil
}

func (d activityDocument) toModel() (*models.Activity, error) {
	actorID, err := uuid.Parse(d.ActorID)
	if err != nil {
		return nil, fmt.Errorf("activity %d has invalid actor: %w", d.ID, err)
	}
	targetID, err := uuid.Parse(d.TargetID)
	if err != nil {
		return nil, fmt.Errorf("activity %d has invalid target: %w", d.ID, err)
	}
	return &models.Activity{
		ID:          d.ID,
		Type:        models.ActivityType(d.Type),
		ActorID:     actorID,
		TargetID:    targetID,
		TargetModel: models.TargetModel(d.TargetModel),
		Metadata:    d.Metadata,
		Message:     d.Message,
		CreatedAt:   d.CreatedAt,
	}, nil
}
