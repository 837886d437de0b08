package repository

import (
	"sync"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/database/connection/datastore"
	"campuspass.io/infrastructure/database/repository/mongo"
)

var attemptOnce = sync.Once{}

var attemptRepository mongo.MongoRepository[entities.VerificationAttempt]

func VerificationAttemptRepo() *mongo.MongoRepository[entities.VerificationAttempt] {
	attemptOnce.Do(func() {
		attemptRepository = mongo.MongoRepository[entities.VerificationAttempt]{Model: datastore.VerificationAttemptModel}
	})
	return &attemptRepository
}
