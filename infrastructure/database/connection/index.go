package connection

import (
	"campuspass.io/infrastructure/database/connection/cache"
	"campuspass.io/infrastructure/database/connection/datastore"
)

func ConnectToDatabase() {
	datastore.ConnectToDatabase()
	cache.ConnectToCache()
}
