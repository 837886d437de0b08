package startup

import (
	"campuspass.io/infrastructure/database"
	"campuspass.io/infrastructure/database/connection/datastore"
	"campuspass.io/infrastructure/logger"
)

// Used to start services such as loggers, databases, queues, etc.
func StartServices() {
	logger.InitializeLogger()
	database.SetUpDatabase()
}

// Used to clean up after services that have been shutdown.
func CleanUpServices() {
	datastore.CleanUp()
}
