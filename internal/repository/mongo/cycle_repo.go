// internal/repository/mongo/cycle_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/repository"
)

const cycleCollectionName = "cycles"

// mongoCycleRepository implements repository.CycleRepository
type mongoCycleRepository struct {
	collection *mongo.Collection
}

// NewMongoCycleRepository creates a new Cycle repository.
func NewMongoCycleRepository(db *mongo.Database) repository.CycleRepository {
	return &mongoCycleRepository{
		collection: db.Collection(cycleCollectionName),
	}
}

// Create inserts a new cycle.
func (r *mongoCycleRepository) Create(ctx context.Context, cycle *domain.Cycle) (primitive.ObjectID, error) {
	if cycle.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("cycle requires userId")
	}
	cycle.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	cycle.CreatedAt = now
	cycle.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, cycle)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted cycle ID")
	}
	return insertedID, nil
}

// GetByIDAndUser retrieves a single cycle scoped to its owner.
func (r *mongoCycleRepository) GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Cycle, error) {
	var cycle domain.Cycle
	filter := bson.M{"_id": id, "userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&cycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &cycle, nil
}

// GetActiveByUser retrieves the user's InProgress cycle, if any.
func (r *mongoCycleRepository) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Cycle, error) {
	var cycle domain.Cycle
	filter := bson.M{"userId": userID, "status": domain.CycleInProgress}
	err := r.collection.FindOne(ctx, filter).Decode(&cycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &cycle, nil
}

// ListByUser retrieves all cycles for a user, most recent start first.
func (r *mongoCycleRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Cycle, error) {
	var cycles []domain.Cycle
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &cycles); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return cycles, nil
}

// Update persists the cycle's mutable fields, scoped to its owner.
func (r *mongoCycleRepository) Update(ctx context.Context, cycle *domain.Cycle) error {
	if cycle.ID == primitive.NilObjectID {
		return errors.New("cycle ID is required for update")
	}

	filter := bson.M{"_id": cycle.ID, "userId": cycle.UserID}
	updateDoc := bson.M{
		"$set": bson.M{
			"status":    cycle.Status,
			"startDate": cycle.StartDate,
			"endDate":   cycle.EndDate,
			"notes":     cycle.Notes,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCycleIndexes creates necessary indexes. Call during startup.
func EnsureCycleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Active-cycle lookup.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			// Overlap scans walk a user's cycles by start date.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "startDate", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
