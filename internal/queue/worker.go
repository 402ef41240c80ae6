package queue

import (
	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
)

// Worker consumes jobs from the same Redis instance the client
// enqueues into. Runs in-process next to the HTTP server
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewWorker(mailer Sender) *Worker {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: viper.GetString("redis.addr")},
		asynq.Config{Concurrency: 1},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSubscriptionMail, NewSubscriptionMail(mailer).Handle)

	return &Worker{
		srv: srv,
		mux: mux,
	}
}

// Start launches the worker without blocking
func (w *Worker) Start() error {
	return w.srv.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
