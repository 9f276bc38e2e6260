package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReport = "jobs:report"
	QueueAlert  = "jobs:alert"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ReportPayload asks the report worker to render a committed batch summary.
type ReportPayload struct {
	BatchID        string `json:"batch_id"`
	SaleDate       string `json:"sale_date"`
	SalesProcessed int    `json:"sales_processed"`
	SalesSkipped   int    `json:"sales_skipped"`
	TotalRevenue   string `json:"total_revenue"`
	TotalCost      string `json:"total_cost"`
	TotalProfit    string `json:"total_profit"`
}

// AlertPayload asks the alert worker to mail a low-stock notice.
type AlertPayload struct {
	BatchID     string            `json:"batch_id"`
	Ingredients []AlertIngredient `json:"ingredients"`
}

type AlertIngredient struct {
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Remaining string `json:"remaining"`
	Minimum   string `json:"minimum"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReport pushes a batch-report job to Redis.
func (d *Dispatcher) EnqueueReport(ctx context.Context, payload ReportPayload) error {
	return d.enqueue(ctx, QueueReport, "report", payload)
}

// EnqueueAlert pushes a low-stock alert job to Redis.
func (d *Dispatcher) EnqueueAlert(ctx context.Context, payload AlertPayload) error {
	return d.enqueue(ctx, QueueAlert, "alert", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// WorkerHandlers bundles the concrete job handlers, wired at the composition
// root so the pool has full access to infrastructure dependencies.
type WorkerHandlers struct {
	Report *ReportWorker
	Alert  *AlertWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP; zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueReport, QueueAlert}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop; waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var err error
	switch queue {
	case QueueReport:
		var payload ReportPayload
		if err = json.Unmarshal(job.Payload, &payload); err == nil {
			err = handlers.Report.Process(ctx, payload)
		}
	case QueueAlert:
		var payload AlertPayload
		if err = json.Unmarshal(job.Payload, &payload); err == nil {
			err = handlers.Alert.Process(ctx, payload)
		}
	default:
		log.Warn().Str("queue", queue).Msg("job from unknown queue dropped")
		return
	}

	if err != nil {
		log.Error().Str("queue", queue).Str("type", job.Type).Err(err).Msg("job failed")
	}
}
