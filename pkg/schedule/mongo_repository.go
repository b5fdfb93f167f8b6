package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

const defaultCollection = "scheduled_posts"

// MongoRepository stores scheduled posts in a MongoDB collection. Due relies
// on FindOneAndUpdate so a post is claimed by exactly one worker.
type MongoRepository struct {
	coll *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(defaultCollection)}
}

func (r *MongoRepository) Create(ctx context.Context, post *ScheduledPost) error {
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to store scheduled post: %w", err)
	}
	return nil
}

func (r *MongoRepository) Due(ctx context.Context, now time.Time, limit int) ([]ScheduledPost, error) {
	filter := bson.M{
		"status":     StatusPending,
		"publish_at": bson.M{"$lte": now},
	}
	update := bson.M{"$set": bson.M{
		"status":     StatusProcessing,
		"updated_at": now,
	}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetSort(bson.M{"publish_at": 1})

	var due []ScheduledPost
	for limit <= 0 || len(due) < limit {
		var post ScheduledPost
		err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				break
			}
			return due, fmt.Errorf("failed to claim scheduled post: %w", err)
		}
		due = append(due, post)
	}
	return due, nil
}

func (r *MongoRepository) Complete(ctx context.Context, id uuid.UUID, results []social.PublishResult) error {
	update := bson.M{"$set": bson.M{
		"status":     statusFromResults(results),
		"results":    results,
		"updated_at": time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to complete scheduled post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Cancel(ctx context.Context, id uuid.UUID, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{
		"_id":     id,
		"user_id": userID,
		"status":  StatusPending,
	})
	if err != nil {
		return fmt.Errorf("failed to cancel scheduled post: %w", err)
	}
	if res.DeletedCount == 0 {
		// Distinguish a claimed post from a missing one for a clearer error.
		if n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id, "user_id": userID}); err == nil && n > 0 {
			return ErrNotCancelable
		}
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]ScheduledPost, error) {
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"publish_at": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled posts: %w", err)
	}
	defer cur.Close(ctx)

	var posts []ScheduledPost
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode scheduled posts: %w", err)
	}
	return posts, nil
}
