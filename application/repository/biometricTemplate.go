package repository

import (
	"sync"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/database/connection/datastore"
	"campuspass.io/infrastructure/database/repository/mongo"
)

var templateOnce = sync.Once{}

var templateRepository mongo.MongoRepository[entities.BiometricTemplate]

func TemplateRepo() *mongo.MongoRepository[entities.BiometricTemplate] {
	templateOnce.Do(func() {
		templateRepository = mongo.MongoRepository[entities.BiometricTemplate]{Model: datastore.TemplateModel}
	})
	return &templateRepository
}
