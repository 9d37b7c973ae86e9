// internal/repository/mongo/template_repo.go
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

const templateCollectionName = "plan_templates"

// mongoPlanTemplateRepository implements repository.PlanTemplateRepository
type mongoPlanTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanTemplateRepository creates a new PlanTemplate repository.
func NewMongoPlanTemplateRepository(db *mongo.Database) repository.PlanTemplateRepository {
	return &mongoPlanTemplateRepository{
		collection: db.Collection(templateCollectionName),
	}
}

// Create inserts a new template.
func (r *mongoPlanTemplateRepository) Create(ctx context.Context, template *domain.PlanTemplate) (primitive.ObjectID, error) {
	if template.UserID == primitive.NilObjectID || template.Name == "" {
		return primitive.NilObjectID, errors.New("template requires userId and name")
	}
	template.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, template)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted template ID")
	}
	return insertedID, nil
}

// GetByIDAndUser retrieves a single template scoped to its owner.
func (r *mongoPlanTemplateRepository) GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.PlanTemplate, error) {
	var template domain.PlanTemplate
	filter := bson.M{"_id": id, "userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// ListByUser retrieves all templates for a user, newest first.
func (r *mongoPlanTemplateRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanTemplate, error) {
	var templates []domain.PlanTemplate
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

// CountByUser counts a user's templates for the limit check.
func (r *mongoPlanTemplateRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Update persists the template's mutable fields, scoped to its owner.
func (r *mongoPlanTemplateRepository) Update(ctx context.Context, template *domain.PlanTemplate) error {
	if template.ID == primitive.NilObjectID {
		return errors.New("template ID is required for update")
	}

	filter := bson.M{"_id": template.ID, "userId": template.UserID}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":        template.Name,
			"description": template.Description,
			"periodCount": template.PeriodCount,
			"periods":     template.Periods,
			"lastUsedAt":  template.LastUsedAt,
			"updatedAt":   time.Now().UTC(),
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

// Delete removes a template, scoped to its owner.
func (r *mongoPlanTemplateRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	if id == primitive.NilObjectID || userID == primitive.NilObjectID {
		return errors.New("template ID and user ID are required for deletion")
	}

	// Filter ensures the template exists AND belongs to the caller.
	filter := bson.M{"_id": id, "userId": userID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Either the template didn't exist or it belongs to someone else;
		// the two are deliberately indistinguishable.
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanTemplateIndexes creates necessary indexes. Call during startup.
func EnsurePlanTemplateIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
