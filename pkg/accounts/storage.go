package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

// Storage is the primary persistence contract for connected accounts.
type Storage interface {
	// Upsert writes the account keyed by its deterministic ID, replacing any
	// prior record for the same (user, platform) pair.
	Upsert(ctx context.Context, account *social.Account) error

	// Get returns the account for (userID, platform) or ErrAccountNotFound.
	Get(ctx context.Context, userID string, platform social.Platform) (*social.Account, error)

	// List returns all accounts owned by userID.
	List(ctx context.Context, userID string) ([]social.Account, error)

	// Delete removes every record matching (userID, platform). Plural on
	// purpose: it also sweeps duplicates left behind by older key schemes.
	Delete(ctx context.Context, userID string, platform social.Platform) error

	// Exists reports whether a record exists for (userID, platform).
	Exists(ctx context.Context, userID string, platform social.Platform) (bool, error)
}

// CompositeID builds the deterministic record key. Using userID:platform makes
// connect an upsert by construction, so reconnecting can never duplicate.
func CompositeID(userID string, platform social.Platform) string {
	return userID + ":" + string(platform)
}

// IsPermissionDenied classifies primary-store errors that should flip the
// service into its local-mirror degraded mode.
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrPermissionDenied) {
		return true
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 13 = Unauthorized
		return cmdErr.Code == 13 || cmdErr.Name == "Unauthorized"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unauthorized")
}

// MongoStorage is the document-store implementation of Storage.
type MongoStorage struct {
	coll *mongo.Collection
}

// NewMongoStorage wraps a collection of connected-account documents.
func NewMongoStorage(db *mongo.Database, collection string) *MongoStorage {
	return &MongoStorage{coll: db.Collection(collection)}
}

func (s *MongoStorage) Upsert(ctx context.Context, account *social.Account) error {
	filter := bson.M{"_id": account.ID}
	_, err := s.coll.ReplaceOne(ctx, filter, account, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert account %q: %w", account.ID, err)
	}
	return nil
}

func (s *MongoStorage) Get(ctx context.Context, userID string, platform social.Platform) (*social.Account, error) {
	filter := bson.M{"user_id": userID, "platform": platform}

	var account social.Account
	if err := s.coll.FindOne(ctx, filter).Decode(&account); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &account, nil
}

func (s *MongoStorage) List(ctx context.Context, userID string) ([]social.Account, error) {
	cur, err := s.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var accounts []social.Account
	if err := cur.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}
	return accounts, nil
}

func (s *MongoStorage) Delete(ctx context.Context, userID string, platform social.Platform) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"user_id": userID, "platform": platform})
	if err != nil {
		return fmt.Errorf("failed to delete accounts: %w", err)
	}
	return nil
}

func (s *MongoStorage) Exists(ctx context.Context, userID string, platform social.Platform) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"user_id": userID, "platform": platform},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return n > 0, nil
}

var _ Storage = (*MongoStorage)(nil)
