package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/maro14/fauxdoorz/pkg/config"
	"github.com/maro14/fauxdoorz/pkg/model"
)

const LockCollectionName = "Booking_locks"

// BookingLockRepository provides operations for advisory locks. A lock
// document's _id is unique per property, so the insert either succeeds or
// fails with a duplicate key error.
type BookingLockRepository interface {
	Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoBookingLockRepository struct {
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoBookingLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoBookingLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
