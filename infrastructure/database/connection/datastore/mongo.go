package datastore

import (
	"context"
	"os"
	"time"

	"campuspass.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	TemplateModel            *mongo.Collection
	VerificationAttemptModel *mongo.Collection
	IdentityTokenModel       *mongo.Collection
	OccupancyRecordModel     *mongo.Collection
	ResourceModel            *mongo.Collection
	KioskDeviceModel         *mongo.Collection

	client *mongo.Client
)

func ConnectToDatabase() {
	connectMongo()
}

func connectMongo() *context.CancelFunc {
	url := os.Getenv("DB_URL")

	if url == "" {
		logger.Error("mongo url missing")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)

	clientOpts := options.Client().ApplyURI(url)
	clientOpts.SetMinPoolSize(5)
	clientOpts.SetMaxPoolSize(10)

	connected, err := mongo.Connect(ctx, clientOpts)

	if err != nil {
		logger.Warning("an error occured while starting the database", logger.LoggerOptions{Key: "error", Data: err})
		return &cancel
	}
	client = connected

	db := client.Database(os.Getenv("DB_NAME"))
	setUpIndexes(ctx, db)

	logger.Info("connected to mongodb successfully")
	return &cancel
}

// Set up the indexes for the database
func setUpIndexes(ctx context.Context, db *mongo.Database) {
	TemplateModel = db.Collection("BiometricTemplates")
	TemplateModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "ownerID", Value: 1}, {Key: "modality", Value: 1}},
		Options: options.Index(),
	}, {
		Keys:    bson.D{{Key: "retiredAt", Value: 1}},
		Options: options.Index(),
	}})

	VerificationAttemptModel = db.Collection("VerificationAttempts")
	VerificationAttemptModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "subjectID", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: options.Index(),
	}})

	IdentityTokenModel = db.Collection("IdentityTokens")
	IdentityTokenModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "codeValue", Value: 1}},
		Options: options.Index().SetUnique(true),
	}, {
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index(),
	}})

	// the partial unique index is what makes a racing double check-in lose
	OccupancyRecordModel = db.Collection("OccupancyRecords")
	OccupancyRecordModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys: bson.D{{Key: "subjectID", Value: 1}, {Key: "resourceID", Value: 1}},
		Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{
			"exitTime": bson.M{"$type": "null"},
		}),
	}, {
		Keys:    bson.D{{Key: "resourceID", Value: 1}, {Key: "exitTime", Value: 1}},
		Options: options.Index(),
	}})

	ResourceModel = db.Collection("Resources")

	KioskDeviceModel = db.Collection("KioskDevices")
	KioskDeviceModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index(),
	}})

	logger.Info("mongodb indexes set up successfully")
}

func CleanUp() {
	if client == nil {
		return
	}
	if err := client.Disconnect(context.Background()); err != nil {
		logger.Error("an error occured while disconnecting from mongodb", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
}
