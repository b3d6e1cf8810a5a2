package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

type DeliveryJob struct {
	NotificationID string
	Email          Email
}

// DeliveryRecorder stores the outcome of each delivery attempt.
type DeliveryRecorder interface {
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type Worker struct {
	ID         int
	WorkerPool chan chan DeliveryJob
	JobChannel chan DeliveryJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan DeliveryJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan DeliveryJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(DeliveryJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker delivering notification", "worker_id", w.ID, "notification_id", job.NotificationID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type DispatcherConfig struct {
	MaxWorkers     int
	JobQueueSize   int
	WorkerPoolSize int
	SendTimeout    time.Duration
}

// Dispatcher delivers e-mails on a fixed pool of workers. Jobs still queued at
// shutdown stay undelivered in storage and are picked up by RetryUndelivered.
type Dispatcher struct {
	sender      Sender
	recorder    DeliveryRecorder
	sendTimeout time.Duration
	logger      *slog.Logger

	jobQueue   chan DeliveryJob
	workerPool chan chan DeliveryJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewDispatcher(config DispatcherConfig, sender Sender, recorder DeliveryRecorder, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	workerPoolSize := config.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = maxWorkers
	}

	sendTimeout := config.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 15 * time.Second
	}

	d := &Dispatcher{
		sender:      sender,
		recorder:    recorder,
		sendTimeout: sendTimeout,
		logger:      logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan DeliveryJob, jobQueueSize),
		workerPool: make(chan chan DeliveryJob, workerPoolSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	d.startWorkerPool()

	return d
}

func (d *Dispatcher) startWorkerPool() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.deliver)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- job:
				case <-d.ctx.Done():
					d.logger.Info("notification dispatcher shutting down")
					return
				}
			case <-d.ctx.Done():
				d.logger.Info("notification dispatcher shutting down")
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("notification dispatcher shutting down")
			return
		}
	}
}

// Enqueue never blocks; a full queue is reported to the caller.
func (d *Dispatcher) Enqueue(job DeliveryJob) error {
	select {
	case d.jobQueue <- job:
		return nil
	default:
		d.logger.Warn("notification queue full",
			"notification_id", job.NotificationID,
			"queue_capacity", cap(d.jobQueue))
		return fmt.Errorf("notification queue full")
	}
}

func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down notification dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete")
}

func (d *Dispatcher) deliver(job DeliveryJob) {
	ctx, cancel := internal.WithTimeout(d.ctx, d.sendTimeout)
	defer cancel()

	// outcome writes must land even when the dispatcher is stopping
	recordCtx := context.WithoutCancel(ctx)

	if err := d.sender.Send(ctx, job.Email); err != nil {
		d.logger.Error("notification delivery failed",
			"notification_id", job.NotificationID,
			"to", job.Email.To,
			"error", err)
		if recErr := d.recorder.MarkFailed(recordCtx, job.NotificationID, err.Error()); recErr != nil {
			d.logger.Error("failed to record delivery failure", "notification_id", job.NotificationID, "error", recErr)
		}
		return
	}

	if err := d.recorder.MarkDelivered(recordCtx, job.NotificationID, time.Now().UTC()); err != nil {
		d.logger.Error("failed to record delivery", "notification_id", job.NotificationID, "error", err)
		return
	}
	d.logger.Info("notification delivered", "notification_id", job.NotificationID, "to", job.Email.To)
}
