package attendance

import (
	"context"
	"fmt"
	"time"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/database/repository/cache"
	"campuspass.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOccupancyStore persists occupancy in the OccupancyRecords collection.
// The one-open-record invariant is enforced by the partial unique index on
// (subjectID, resourceID) over open records, so a racing double ENTER loses
// at the database. The capacity bound rides on a redis counter reserved
// before the insert and released on failure or close, which keeps admission
// atomic across nodes.
type MongoOccupancyStore struct {
	Collection *mongo.Collection
	counter    counterCache
}

// counterCache is the slice of the redis repository the store leans on for
// capacity reservation.
type counterCache interface {
	FindOne(key string) *string
	CreateEntryIfAbsent(key string, payload interface{}, ttl time.Duration) bool
	IncrementField(key string, amount int64) int64
}

func NewMongoOccupancyStore(collection *mongo.Collection) *MongoOccupancyStore {
	return &MongoOccupancyStore{Collection: collection, counter: cache.Cache}
}

func openCounterKey(resourceID string) string {
	return fmt.Sprintf("occupancy:%s:open", resourceID)
}

// seedAndReserve claims one slot on the counter. A missing key (fresh redis,
// flushed cache) is seeded from the store's open-record count first; SETNX
// makes concurrent seeders converge on one value.
func seedAndReserve(counter counterCache, key string, countOpen func() (int64, error)) (int64, error) {
	if counter.FindOne(key) == nil {
		open, err := countOpen()
		if err != nil {
			return 0, err
		}
		counter.CreateEntryIfAbsent(key, open, 0)
	}
	return counter.IncrementField(key, 1), nil
}

func (ms *MongoOccupancyStore) Open(ctx context.Context, record *entities.OccupancyRecord, capacity *uint) (*entities.OccupancyRecord, error) {
	key := openCounterKey(record.ResourceID)
	reserved, err := seedAndReserve(ms.counter, key, func() (int64, error) {
		return ms.CountOpen(ctx, record.ResourceID)
	})
	if err != nil {
		return nil, err
	}
	if capacity != nil && reserved > int64(*capacity) {
		ms.counter.IncrementField(key, -1)
		return nil, ErrCapacityExceeded
	}

	parsed := record.ParseModel().(*entities.OccupancyRecord)
	_, err = ms.Collection.InsertOne(ctx, parsed)
	if err != nil {
		ms.counter.IncrementField(key, -1)
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyCheckedIn
		}
		logger.Error("mongo error occured while opening occupancy record", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	return parsed, nil
}

func (ms *MongoOccupancyStore) Close(ctx context.Context, subjectID string, resourceID string, exitTime time.Time) (*entities.OccupancyRecord, error) {
	filter := bson.M{
		"subjectID":  subjectID,
		"resourceID": resourceID,
		"exitTime":   nil,
	}
	update := bson.M{"$set": bson.M{
		"exitTime":  exitTime,
		"updatedAt": exitTime,
	}}

	var record entities.OccupancyRecord
	err := ms.Collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotCheckedIn
		}
		logger.Error("mongo error occured while closing occupancy record", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}

	ms.counter.IncrementField(openCounterKey(resourceID), -1)
	return &record, nil
}

func (ms *MongoOccupancyStore) CountOpen(ctx context.Context, resourceID string) (int64, error) {
	count, err := ms.Collection.CountDocuments(ctx, bson.M{
		"resourceID": resourceID,
		"exitTime":   nil,
	})
	if err != nil {
		logger.Error("mongo error occured while counting open occupancy records", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return 0, err
	}
	return count, nil
}
