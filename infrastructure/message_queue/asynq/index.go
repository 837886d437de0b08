package asynq

import (
	"encoding/json"
	"os"
	"time"

	"campuspass.io/infrastructure/logger"
	queue_tasks "campuspass.io/infrastructure/message_queue/tasks"
	mq_types "campuspass.io/infrastructure/message_queue/types"
	"github.com/hibiken/asynq"
)

type AsynqBroker struct {
	Client *asynq.Client
}

func (aq *AsynqBroker) Start() {
	redisConnOpt := asynq.RedisClientOpt{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	aq.Client = asynq.NewClient(redisConnOpt)

	srv := asynq.NewServer(
		redisConnOpt,
		asynq.Config{
			Concurrency: 100,
			Queues: map[string]int{
				string(mq_types.High):   7,
				string(mq_types.Medium): 2,
				string(mq_types.Low):    1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(string(queue_tasks.HandleTokenSweepTaskName), queue_tasks.HandleTokenSweepTask)

	go aq.runScheduler(redisConnOpt)
	srv.Run(mux)
}

func (aq *AsynqBroker) runScheduler(redisConnOpt asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisConnOpt, nil)
	sweepPayload, _ := json.Marshal(queue_tasks.TokenSweepPayload{})
	_, err := scheduler.Register("@every 1h",
		asynq.NewTask(string(queue_tasks.HandleTokenSweepTaskName), sweepPayload),
		asynq.Queue(string(mq_types.Low)))
	if err != nil {
		logger.Error("failed to register token sweep schedule", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return
	}
	if err := scheduler.Run(); err != nil {
		logger.Error("task scheduler stopped", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
}

func (aq *AsynqBroker) Enqueue(task mq_types.QueueTask) {
	if task.TimeOut == 0 {
		task.TimeOut = 60
	}
	aq.Client.Enqueue(asynq.NewTask(string(task.Name), task.Payload),
		asynq.ProcessIn(time.Duration(task.ProcessIn)*time.Second),
		asynq.MaxRetry(task.MaxRetry),
		asynq.Timeout(time.Second*time.Duration(task.TimeOut)),
		asynq.Queue(string(task.Priority)))
}
