package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"event-manager-api/core/config"
	"event-manager-api/core/logger"

	"github.com/hibiken/asynq"
)

// RedisOpt builds asynq connection options from the shared Redis settings.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Client enqueues JSON-encoded tasks. Tasks are never retried by asynq:
// handlers own their retry policy.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(opt asynq.RedisConnOpt, queue string) *Client {
	return &Client{client: asynq.NewClient(opt), queue: queue}
}

func NewTask(taskType string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}

func (c *Client) Enqueue(ctx context.Context, taskType string, payload any) (string, error) {
	task, err := NewTask(taskType, payload)
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(0),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return info.ID, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Worker consumes tasks from one queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(opt asynq.RedisConnOpt, queue string, concurrency int) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency:     concurrency,
		Queues:          map[string]int{queue: 1},
		Logger:          asynqLogger{},
		ShutdownTimeout: 30 * time.Second,
	})
	return &Worker{server: server, mux: asynq.NewServeMux()}
}

// Handle registers fn for taskType. fn receives the raw JSON payload.
func (w *Worker) Handle(taskType string, fn func(ctx context.Context, payload []byte) error) {
	w.mux.HandleFunc(taskType, func(ctx context.Context, t *asynq.Task) error {
		return fn(ctx, t.Payload())
	})
}

func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// DecodePayload is the counterpart of NewTask.
func DecodePayload(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode payload: %w: %w", asynq.SkipRetry, err)
	}
	return nil
}

type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) { logger.Debug("Asynq:" + fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...any)  { logger.Info("Asynq:" + fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...any)  { logger.Warn("Asynq:" + fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...any) { logger.Error("Asynq:" + fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...any) { logger.Error("Asynq:Fatal:" + fmt.Sprint(args...)) }
