package orderRepo

import (
	"context"
	"errors"
	"fmt"

	"artisthub/database/repository"
	"artisthub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "orders"

// MongoOrderRepo implements OrderRepository using MongoDB.
type MongoOrderRepo struct {
	coll *mongo.Collection
}

func NewMongoOrderRepo(ctx context.Context, db *mongo.Database) (*MongoOrderRepo, error) {
	repo := &MongoOrderRepo{coll: db.Collection(CollectionName)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoOrderRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := repository.NewContext(ctx, repository.LongTimeout)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "artistId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// InsertOrder inserts order. Inside a session context the insert joins that transaction.
func (r *MongoOrderRepo) InsertOrder(ctx context.Context, order *models.Order) error {
	return InsertInto(ctx, r.coll, order)
}

// InsertInto is the shared insert used by the repository and the booking transaction.
func InsertInto(ctx context.Context, coll *mongo.Collection, order *models.Order) error {
	if _, err := coll.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("order %s: %w", order.ID, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *MongoOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := repository.NewContext(ctx, repository.ShortTimeout)
	defer cancel()

	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order with id %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order with id %s: %w", id, err)
	}
	return &order, nil
}

func (r *MongoOrderRepo) GetByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"customerId": customerID})
}

func (r *MongoOrderRepo) GetAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

// find returns matches in insertion order. The driver-generated ObjectID grows with every insert.
func (r *MongoOrderRepo) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	ctx, cancel := repository.NewContext(ctx, repository.LongTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}
