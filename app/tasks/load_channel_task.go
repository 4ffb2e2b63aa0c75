package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/channel-comb/app/orchestrator"
)

// LoadChannelTask reads the first page of a channel into the session.
type LoadChannelTask struct {
	Task
	syncer  ChannelSyncer
	session *orchestrator.Session
}

func NewLoadChannelTask(channelID string, syncer ChannelSyncer, session *orchestrator.Session) *LoadChannelTask {
	return &LoadChannelTask{
		Task:    NewTask(TaskTypeLoadChannel, channelID),
		syncer:  syncer,
		session: session,
	}
}

func (t *LoadChannelTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	view, err := t.syncer.Load(ctx, t.session, t.ChannelID, 0)
	if err != nil {
		return fmt.Errorf("failed to load channel: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"channel_id", t.ChannelID,
		"duration", t.GetDuration(),
		"videos", len(view.Videos),
		"has_more", view.HasMore)

	return nil
}
