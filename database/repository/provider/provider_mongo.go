package providerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artisthub/database/repository"
	"artisthub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is shared with the booking transaction, which writes the same documents.
const CollectionName = "artists"

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a new instance of ProviderRepository using MongoDB.
func NewMongoProviderRepo(ctx context.Context, db *mongo.Database) (*MongoProviderRepo, error) {
	repo := &MongoProviderRepo{coll: db.Collection(CollectionName)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	return r.findOne(ctx, bson.M{"id": id}, "id "+id)
}

func (r *MongoProviderRepo) GetByEmail(ctx context.Context, email string) (*models.Provider, error) {
	return r.findOne(ctx, bson.M{"email": email}, "email "+email)
}

func (r *MongoProviderRepo) findOne(ctx context.Context, filter bson.M, what string) (*models.Provider, error) {
	ctx, cancel := repository.NewContext(ctx, repository.ShortTimeout)
	defer cancel()

	var provider models.Provider
	if err := r.coll.FindOne(ctx, filter).Decode(&provider); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("artist with %s: %w", what, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch artist with %s: %w", what, err)
	}
	return &provider, nil
}

func (r *MongoProviderRepo) GetAll(ctx context.Context) ([]models.Provider, error) {
	ctx, cancel := repository.NewContext(ctx, repository.LongTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve artists: %w", err)
	}
	defer cursor.Close(ctx)

	providers := []models.Provider{}
	for cursor.Next(ctx) {
		var p models.Provider
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode artist: %w", err)
		}
		providers = append(providers, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artists: %w", err)
	}
	return providers, nil
}

func (r *MongoProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := repository.NewContext(ctx, repository.ShortTimeout)
	defer cancel()

	// $push on a null array fails, so slot lists are always stored as arrays.
	if provider.OfferedSlots == nil {
		provider.OfferedSlots = []models.Slot{}
	}
	if provider.Bookings == nil {
		provider.Bookings = []models.Booking{}
	}

	if _, err := r.coll.InsertOne(ctx, provider); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("artist with email %s: %w", provider.Email, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create artist: %w", err)
	}
	return nil
}

func (r *MongoProviderRepo) UpdateProfile(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := repository.NewContext(ctx, repository.ShortTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":           provider.Name,
		"email":          provider.Email,
		"passwordHash":   provider.PasswordHash,
		"category":       provider.Category,
		"pricePerHour":   provider.PricePerHour,
		"bio":            provider.Bio,
		"profilePicture": provider.ProfilePicture,
		"updatedAt":      provider.UpdatedAt,
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": provider.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("artist with email %s: %w", provider.Email, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to update artist with id %s: %w", provider.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("artist with id %s: %w", provider.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoProviderRepo) ReplaceOfferedSlots(ctx context.Context, id string, expectedVersion int64, slots []models.Slot) error {
	ctx, cancel := repository.NewContext(ctx, repository.ShortTimeout)
	defer cancel()

	if slots == nil {
		slots = []models.Slot{}
	}
	filter := bson.M{"id": id, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{"availability": slots, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to replace availability for artist %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		// Either the artist is gone or the version moved on; tell the two apart.
		count, err := r.coll.CountDocuments(ctx, bson.M{"id": id})
		if err != nil {
			return fmt.Errorf("failed to check artist %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("artist with id %s: %w", id, repository.ErrNotFound)
		}
		return fmt.Errorf("artist %s changed since version %d: %w", id, expectedVersion, repository.ErrWriteConflict)
	}
	return nil
}

func (r *MongoProviderRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.NewContext(ctx, repository.ShortTimeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete artist with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("artist with id %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
