package messagequeue

import (
	"campuspass.io/infrastructure/message_queue/asynq"
	mq_types "campuspass.io/infrastructure/message_queue/types"
)

var TaskQueue mq_types.TaskQueueBroker = &asynq.AsynqBroker{}

func StartQueue() {
	TaskQueue.Start()
}
