package queue_tasks

import (
	"context"
	"encoding/json"
	"time"

	"campuspass.io/application/constants"
	"campuspass.io/infrastructure/database/connection/datastore"
	"campuspass.io/infrastructure/identitytoken"
	"campuspass.io/infrastructure/logger"
	mq_types "campuspass.io/infrastructure/message_queue/types"
	"github.com/hibiken/asynq"
)

var HandleTokenSweepTaskName mq_types.Queues = "token_sweep"

type TokenSweepPayload struct {
	GraceSeconds int64
}

// HandleTokenSweepTask deletes identity tokens that expired longer ago than
// the grace window. Recently expired tokens are kept so failed redemptions
// can still be investigated.
func HandleTokenSweepTask(ctx context.Context, t *asynq.Task) error {
	var payload TokenSweepPayload
	err := json.Unmarshal(t.Payload(), &payload)
	if err != nil {
		logger.Error("an error occured while unmarshalling token sweep queue payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	grace := time.Duration(payload.GraceSeconds) * time.Second
	if grace <= 0 {
		grace = constants.TokenSweepGracePeriod
	}

	store := identitytoken.NewMongoStore(datastore.IdentityTokenModel)
	deleted, err := store.DeleteExpiredBefore(ctx, time.Now().Add(-grace))
	if err != nil {
		logger.Error("an error occured while sweeping expired identity tokens", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	if deleted != 0 {
		logger.Info("swept expired identity tokens", logger.LoggerOptions{
			Key:  "deleted",
			Data: deleted,
		})
	}
	return nil
}
