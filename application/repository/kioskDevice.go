package repository

import (
	"sync"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/database/connection/datastore"
	"campuspass.io/infrastructure/database/repository/mongo"
)

var kioskOnce = sync.Once{}

var kioskRepository mongo.MongoRepository[entities.KioskDevice]

func KioskDeviceRepo() *mongo.MongoRepository[entities.KioskDevice] {
	kioskOnce.Do(func() {
		kioskRepository = mongo.MongoRepository[entities.KioskDevice]{Model: datastore.KioskDeviceModel}
	})
	return &kioskRepository
}
