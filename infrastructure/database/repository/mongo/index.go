package mongo

import (
	"context"
	"errors"
	"time"

	"campuspass.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const requestTimeout = 10 * time.Second

func (repo *MongoRepository[T]) CreateOne(ctx context.Context, payload T) (*T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	parsed := payload.ParseModel().(*T)
	_, err := repo.Model.InsertOne(c, parsed)
	if err != nil {
		logger.Error("mongo error occured while running CreateOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return parsed, nil
}

func (repo *MongoRepository[T]) FindByID(id string, opts ...FindOptions) (*T, error) {
	return repo.FindOneByFilter(map[string]interface{}{"_id": id}, opts...)
}

func (repo *MongoRepository[T]) FindOneByFilter(filter map[string]interface{}, opts ...FindOptions) (*T, error) {
	c, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	findOpts := options.FindOne()
	if len(opts) > 0 {
		if opts[0].Projection != nil {
			findOpts.SetProjection(*opts[0].Projection)
		}
		if opts[0].Sort != nil {
			findOpts.SetSort(*opts[0].Sort)
		}
	}

	var result T
	err := repo.Model.FindOne(c, normalizeFilter(filter), findOpts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Error("mongo error occured while running FindOneByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return &result, nil
}

func (repo *MongoRepository[T]) FindManyByFilter(filter map[string]interface{}, opts ...FindOptions) (*[]T, error) {
	c, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	findOpts := options.Find()
	if len(opts) > 0 {
		if opts[0].Sort != nil {
			findOpts.SetSort(*opts[0].Sort)
		}
		if opts[0].Skip != nil {
			findOpts.SetSkip(*opts[0].Skip)
		}
		if opts[0].Limit != nil {
			findOpts.SetLimit(*opts[0].Limit)
		}
	}

	cursor, err := repo.Model.Find(c, normalizeFilter(filter), findOpts)
	if err != nil {
		logger.Error("mongo error occured while running FindManyByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}

	results := []T{}
	if err := cursor.All(c, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

func (repo *MongoRepository[T]) UpdatePartialByFilter(filter map[string]interface{}, update map[string]interface{}) (int64, error) {
	c, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	update["updatedAt"] = time.Now()
	result, err := repo.Model.UpdateMany(c, normalizeFilter(filter), bson.M{"$set": update})
	if err != nil {
		logger.Error("mongo error occured while running UpdatePartialByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (repo *MongoRepository[T]) CountDocs(filter map[string]interface{}) (int64, error) {
	c, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	count, err := repo.Model.CountDocuments(c, normalizeFilter(filter))
	if err != nil {
		logger.Error("mongo error occured while running CountDocs", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return count, nil
}

func normalizeFilter(filter map[string]interface{}) bson.M {
	normalized := bson.M{}
	for key, value := range filter {
		normalized[key] = value
	}
	return normalized
}
