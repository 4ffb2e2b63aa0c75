package tasks

import (
	"context"

	"github.com/lysyi3m/channel-comb/app/orchestrator"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to warm and refresh tracked channels in the background.
//
//	scheduler := NewScheduler(registry, orch, session, Config{WorkerCount: 2})
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// ChannelSource lists the channels the scheduler keeps warm.
type ChannelSource interface {
	IDs() []string
}

type ChannelSyncer interface {
	Load(ctx context.Context, session *orchestrator.Session, channelID string, page int) (orchestrator.ChannelView, error)
	Refresh(ctx context.Context, session *orchestrator.Session, channelID string) (orchestrator.ChannelView, error)
}
