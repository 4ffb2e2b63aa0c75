package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/channel-comb/app/orchestrator"
)

// RefreshChannelTask pulls the live feed for a channel and writes it through to the store.
type RefreshChannelTask struct {
	Task
	syncer  ChannelSyncer
	session *orchestrator.Session
}

func NewRefreshChannelTask(channelID string, syncer ChannelSyncer, session *orchestrator.Session) *RefreshChannelTask {
	return &RefreshChannelTask{
		Task:    NewTask(TaskTypeRefreshChannel, channelID),
		syncer:  syncer,
		session: session,
	}
}

func (t *RefreshChannelTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	view, err := t.syncer.Refresh(ctx, t.session, t.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to refresh channel: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"channel_id", t.ChannelID,
		"duration", t.GetDuration(),
		"videos", len(view.Videos))

	return nil
}
