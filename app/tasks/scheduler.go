package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/channel-comb/app/orchestrator"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	defaultQueueSize   = 300
	defaultTaskTimeout = 5 * time.Minute
)

type Config struct {
	WorkerCount     int
	RefreshInterval time.Duration // 0 disables periodic refresh
	RetryDelay      time.Duration
	TaskTimeout     time.Duration
}

type Scheduler struct {
	channels    ChannelSource
	syncer      ChannelSyncer
	session     *orchestrator.Session
	interval    time.Duration
	retryDelay  time.Duration
	taskTimeout time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(channels ChannelSource, syncer ChannelSyncer, session *orchestrator.Session, config Config) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		channels:    channels,
		syncer:      syncer,
		session:     session,
		interval:    config.RefreshInterval,
		retryDelay:  max(config.RetryDelay, 0),
		taskTimeout: durationOr(config.TaskTimeout, defaultTaskTimeout),
		workerCount: max(config.WorkerCount, 1),
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, defaultQueueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.enqueueStartupTasks()

		if s.interval <= 0 {
			slog.Debug("Periodic refresh disabled")
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueRefreshTasks()
			}
		}
	}()
}

// Stop cancels running tasks and waits for workers and pending retries to exit.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	channelIDs := s.channels.IDs()
	slog.Debug("Warming tracked channels", "count", len(channelIDs))

	for _, channelID := range channelIDs {
		task := NewLoadChannelTask(channelID, s.syncer, s.session)
		s.prepare(&task.Task)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue LoadChannelTask", "channel_id", channelID, "error", err)
		}
	}
}

func (s *Scheduler) enqueueRefreshTasks() {
	for _, channelID := range s.channels.IDs() {
		if s.session.IsLoading(channelID) {
			slog.Debug("Channel is loading, skipping refresh", "channel_id", channelID)
			continue
		}

		task := NewRefreshChannelTask(channelID, s.syncer, s.session)
		s.prepare(&task.Task)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue RefreshChannelTask", "channel_id", channelID, "error", err)
		}
	}
}

func (s *Scheduler) prepare(task *Task) {
	if s.retryDelay > 0 {
		task.WithRetryDelay(s.retryDelay)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, s.taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := task.NextRetryDelay()

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "channel_id", task.GetChannelID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
