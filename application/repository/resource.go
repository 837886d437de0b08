package repository

import (
	"sync"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/database/connection/datastore"
	"campuspass.io/infrastructure/database/repository/mongo"
)

var resourceOnce = sync.Once{}

var resourceRepository mongo.MongoRepository[entities.Resource]

func ResourceRepo() *mongo.MongoRepository[entities.Resource] {
	resourceOnce.Do(func() {
		resourceRepository = mongo.MongoRepository[entities.Resource]{Model: datastore.ResourceModel}
	})
	return &resourceRepository
}
