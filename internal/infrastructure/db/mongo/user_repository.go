package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/user-service/internal/api/metrics"
	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

// DefaultUsersCollection is used when no collection name is configured.
const DefaultUsersCollection = "Users"

var _ ports.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	col     *mongo.Collection
	timeout time.Duration
	log     zerolog.Logger
}

// NewUserRepository binds the repository to collection in db. An empty
// collection name falls back to DefaultUsersCollection and a non-positive
// timeout to defaultTimeout.
func NewUserRepository(db *mongo.Database, collection string, timeout time.Duration, log zerolog.Logger) (*UserRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: mongo database handle", domain.ErrConfigurationMissing)
	}
	if collection == "" {
		collection = DefaultUsersCollection
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &UserRepository{
		col:     db.Collection(collection),
		timeout: timeout,
		log:     log.With().Str("component", "user_repository").Str("collection", collection).Logger(),
	}, nil
}

// Create inserts user. An empty ID is replaced with a new UUID; the caller's
// value is not modified.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := user.Clone()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, r.storeError("create", doc.ID, err)
	}
	return doc, nil
}

// GetByID returns the user with the given id, or nil when there is none.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var u domain.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, r.storeError("get", id, err)
	}
	return &u, nil
}

// GetAll returns every user in natural order. The result is never nil.
func (r *UserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, r.storeError("get_all", "", err)
	}
	defer cursor.Close(ctx)

	users := make([]domain.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, r.storeError("get_all", "", err)
	}
	return users, nil
}

// Update replaces the whole document keyed by id. The stored record always
// carries id regardless of user.ID. A nil result means no document matched.
func (r *UserRepository) Update(ctx context.Context, id string, user *domain.User) (*domain.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidArgument)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := user.Clone()
	doc.ID = id

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return nil, r.storeError("update", id, err)
	}
	// An identical replacement leaves ModifiedCount at zero, so only a miss on
	// the filter means the record is gone.
	if res.MatchedCount == 0 {
		return nil, nil
	}
	return doc, nil
}

// Delete removes the document keyed by id and reports whether one was removed.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("%w: id is required", domain.ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, r.storeError("delete", id, err)
	}
	return res.DeletedCount > 0, nil
}

// EnsureIndexes creates necessary indexes on the users collection. The
// username index is deliberately not unique: existing data may hold
// duplicates.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// storeError classifies a driver error, records it and wraps it so both the
// domain kind and the driver cause stay in the chain.
func (r *UserRepository) storeError(op, id string, err error) error {
	label, kind := classify(err)
	metrics.StoreErrorsTotal.WithLabelValues(op, label).Inc()
	r.log.Error().Err(err).Str("op", op).Str("user_id", id).Str("kind", label).Msg("store operation failed")
	if id == "" {
		return fmt.Errorf("%s users: %w: %w", op, kind, err)
	}
	return fmt.Errorf("%s user %s: %w: %w", op, id, kind, err)
}

// transientCodes are server codes reported while a node is shutting down,
// stepping down or unreachable.
var transientCodes = []int{6, 7, 89, 91, 189, 262, 9001, 10107, 11600, 11602, 13435, 13436}

func isTransient(err error) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	if se.HasErrorLabel("RetryableWriteError") {
		return true
	}
	for _, code := range transientCodes {
		if se.HasErrorCode(code) {
			return true
		}
	}
	return false
}

// classify maps a driver error to its metric label and domain kind.
func classify(err error) (string, error) {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return "duplicate_key", domain.ErrDuplicateKey
	case mongo.IsNetworkError(err),
		mongo.IsTimeout(err),
		isTransient(err),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, context.DeadlineExceeded):
		return "unavailable", domain.ErrStoreUnavailable
	default:
		return "failed", domain.ErrStoreOperationFailed
	}
}
