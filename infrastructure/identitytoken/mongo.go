package identitytoken

import (
	"context"
	"errors"
	"time"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps tokens in the IdentityTokens collection. Consume is a
// single guarded FindOneAndUpdate so the compare-and-increment happens
// atomically on the server.
type MongoStore struct {
	Collection *mongo.Collection
}

func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{Collection: collection}
}

func (ms *MongoStore) Save(ctx context.Context, token *entities.IdentityToken) error {
	parsed := token.ParseModel().(*entities.IdentityToken)
	*token = *parsed
	_, err := ms.Collection.InsertOne(ctx, token)
	if err != nil {
		logger.Error("mongo error occured while saving identity token", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
	return err
}

func (ms *MongoStore) FindByCode(ctx context.Context, codeValue string) (*entities.IdentityToken, error) {
	var token entities.IdentityToken
	err := ms.Collection.FindOne(ctx, bson.M{"codeValue": codeValue}).Decode(&token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (ms *MongoStore) Consume(ctx context.Context, codeValue string, now time.Time) (*entities.IdentityToken, error) {
	filter := bson.M{
		"codeValue": codeValue,
		"expiresAt": bson.M{"$gt": now},
		"$expr":     bson.M{"$lt": bson.A{"$consumptionCount", "$maxConsumptions"}},
	}
	update := bson.A{
		bson.M{"$set": bson.M{
			"consumptionCount": bson.M{"$add": bson.A{"$consumptionCount", 1}},
			"consumedAt":       bson.M{"$ifNull": bson.A{"$consumedAt", now}},
			"updatedAt":        now,
		}},
	}

	var token entities.IdentityToken
	err := ms.Collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&token)
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		logger.Error("mongo error occured while consuming identity token", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}

	// the guarded update matched nothing - classify why for the operator UI
	existing, findErr := ms.FindByCode(ctx, codeValue)
	if findErr != nil {
		return nil, findErr
	}
	if !now.Before(existing.ExpiresAt) {
		return nil, ErrTokenExpired
	}
	if existing.ConsumptionCount >= existing.MaxConsumptions {
		return nil, ErrTokenExhausted
	}
	return nil, ErrTokenNotFound
}

func (ms *MongoStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := ms.Collection.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": cutoff}})
	if err != nil {
		logger.Error("mongo error occured while sweeping expired identity tokens", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return 0, err
	}
	return result.DeletedCount, nil
}
