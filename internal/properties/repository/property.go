package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	propertieserrors "github.com/maro14/fauxdoorz/internal/properties/errors"
	"github.com/maro14/fauxdoorz/pkg/config"
	mongotx "github.com/maro14/fauxdoorz/pkg/db/mongo"
	"github.com/maro14/fauxdoorz/pkg/model"
)

const (
	CollectionName = "Properties"
)

type mongoPropertyRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	FindByID(ctx context.Context, id string) (*model.Property, error)
	Search(ctx context.Context, search *model.PropertySearch, limit int, offset int64) ([]*model.Property, error)
	CountSearch(ctx context.Context, search *model.PropertySearch) (int64, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*model.Property, error)
	Update(ctx context.Context, id string, property *model.Property) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoPropertyRepository(cfg *config.Config) PropertyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPropertyRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoPropertyRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	property.CreatedAt = now
	property.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, property)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		property.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", propertieserrors.ErrInvalidID, id)
	}

	var property model.Property
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, propertieserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	return &property, nil
}

func (r *mongoPropertyRepository) Search(ctx context.Context, search *model.PropertySearch, limit int, offset int64) ([]*model.Property, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildSearchFilter(search), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	defer cursor.Close(ctx)

	var properties []*model.Property
	if err = cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}

	return properties, nil
}

func (r *mongoPropertyRepository) CountSearch(ctx context.Context, search *model.PropertySearch) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildSearchFilter(search))
	if err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

func buildSearchFilter(search *model.PropertySearch) bson.M {
	filter := bson.M{}
	if search == nil {
		return filter
	}

	if search.Location != "" {
		filter["location"] = bson.M{
			"$regex":   regexp.QuoteMeta(search.Location),
			"$options": "i",
		}
	}

	price := bson.M{}
	if search.MinPrice > 0 {
		price["$gte"] = search.MinPrice
	}
	if search.MaxPrice > 0 {
		price["$lte"] = search.MaxPrice
	}
	if len(price) > 0 {
		filter["price_per_night"] = price
	}

	if search.Guests > 0 {
		filter["max_guests"] = bson.M{"$gte": search.Guests}
	}

	if search.Status != "" {
		filter["status"] = search.Status
	}

	return filter
}

func (r *mongoPropertyRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Property, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find properties by owner: %w", err)
	}
	defer cursor.Close(ctx)

	var properties []*model.Property
	if err = cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}

	return properties, nil
}

func (r *mongoPropertyRepository) Update(ctx context.Context, id string, property *model.Property) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", propertieserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"title":           property.Title,
			"description":     property.Description,
			"location":        property.Location,
			"price_per_night": property.PricePerNight,
			"images":          property.Images,
			"amenities":       property.Amenities,
			"bedrooms":        property.Bedrooms,
			"bathrooms":       property.Bathrooms,
			"max_guests":      property.MaxGuests,
			"status":          property.Status,
			"updated_at":      time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, propertieserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoPropertyRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", propertieserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	if result.DeletedCount == 0 {
		return propertieserrors.ErrNotFound
	}

	return nil
}

func (r *mongoPropertyRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
