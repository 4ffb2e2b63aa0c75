package tasks

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeLoadChannel    TaskType = "load_channel"
	TaskTypeRefreshChannel TaskType = "refresh_channel"
)

const (
	DefaultMaxRetries        = 3
	DefaultRetryInitialDelay = time.Second
	DefaultRetryMaxDelay     = 30 * time.Second
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetChannelID() string
	GetRetryCount() int
	GetMaxRetries() int
	IncrementRetryCount()
	NextRetryDelay() time.Duration
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID         string
	Type       TaskType
	ChannelID  string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
	retry      *backoff.ExponentialBackOff
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetChannelID() string {
	return t.ChannelID
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

// NextRetryDelay doubles from the initial delay up to the cap.
func (t *Task) NextRetryDelay() time.Duration {
	if t.retry == nil {
		t.retry = newRetryBackOff(DefaultRetryInitialDelay)
	}
	return t.retry.NextBackOff()
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, channelID string) Task {
	return Task{
		ID:         uuid.NewString(),
		Type:       taskType,
		ChannelID:  channelID,
		RetryCount: 0,
		MaxRetries: DefaultMaxRetries,
	}
}

// WithRetryDelay replaces the initial retry delay. The cap stays at DefaultRetryMaxDelay.
func (t *Task) WithRetryDelay(initial time.Duration) {
	t.retry = newRetryBackOff(initial)
}

func newRetryBackOff(initial time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxInterval = DefaultRetryMaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
