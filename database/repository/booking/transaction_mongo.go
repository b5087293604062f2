package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artisthub/database/repository"
	orderRepo "artisthub/database/repository/order"
	providerRepo "artisthub/database/repository/provider"
	"artisthub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// writeConflictCode is the server error code for a conflicting concurrent write in a transaction.
const writeConflictCode = 112

// MongoTransactionRunner runs booking units of work in a multi-document MongoDB transaction.
// It requires a replica set or sharded cluster.
type MongoTransactionRunner struct {
	client       *mongo.Client
	providerColl *mongo.Collection
	orderColl    *mongo.Collection
}

func NewMongoTransactionRunner(client *mongo.Client, db *mongo.Database) *MongoTransactionRunner {
	return &MongoTransactionRunner{
		client:       client,
		providerColl: db.Collection(providerRepo.CollectionName),
		orderColl:    db.Collection(orderRepo.CollectionName),
	}
}

func (r *MongoTransactionRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	tx := &mongoTx{providerColl: r.providerColl, orderColl: r.orderColl}
	err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc, tx); err != nil {
			_ = sc.AbortTransaction(context.Background())
			return err
		}
		return sc.CommitTransaction(sc)
	})
	if err != nil {
		if isTransientConflict(err) && !errors.Is(err, repository.ErrWriteConflict) {
			return fmt.Errorf("booking transaction failed: %v: %w", err, repository.ErrWriteConflict)
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

// isTransientConflict reports whether the server asked for the transaction to be retried.
func isTransientConflict(err error) bool {
	var serverErr mongo.ServerError
	if !errors.As(err, &serverErr) {
		return false
	}
	return serverErr.HasErrorLabel("TransientTransactionError") || serverErr.HasErrorCode(writeConflictCode)
}

type mongoTx struct {
	providerColl *mongo.Collection
	orderColl    *mongo.Collection
}

func (t *mongoTx) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	var provider models.Provider
	if err := t.providerColl.FindOne(ctx, bson.M{"id": id}).Decode(&provider); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("artist with id %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching artist with id %s: %w", id, err)
	}
	return &provider, nil
}

func (t *mongoTx) InsertOrder(ctx context.Context, order *models.Order) error {
	return orderRepo.InsertInto(ctx, t.orderColl, order)
}

func (t *mongoTx) ReserveSlot(ctx context.Context, providerID string, booking models.Booking) error {
	slot := bson.M{
		"date":      booking.Date,
		"startTime": booking.StartTime,
		"endTime":   booking.EndTime,
	}
	filter := bson.M{
		"id":           providerID,
		"availability": bson.M{"$elemMatch": slot},
		"bookings":     bson.M{"$not": bson.M{"$elemMatch": slot}},
	}
	update := bson.M{
		"$pull": bson.M{"availability": slot},
		"$push": bson.M{"bookings": booking},
		"$inc":  bson.M{"version": 1},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	res, err := t.providerColl.UpdateOne(ctx, filter, update)
	if err != nil {
		if isTransientConflict(err) {
			return fmt.Errorf("reserve slot %s for artist %s: %v: %w", booking.Slot().Key(), providerID, err, repository.ErrWriteConflict)
		}
		return fmt.Errorf("reserve slot failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("slot %s for artist %s is no longer free: %w", booking.Slot().Key(), providerID, repository.ErrWriteConflict)
	}
	return nil
}
