package orchestrator

import (
	"github.com/lysyi3m/channel-comb/app/database"
	"github.com/lysyi3m/channel-comb/app/feed"
)

func toStoreVideo(channelID string, video feed.Video) database.Video {
	return database.Video{
		ID:          video.ID,
		ChannelID:   channelID,
		Title:       video.Title,
		Description: video.Description,
		PublishedAt: video.PublishedAt.UTC(),
		Thumbnail:   video.ThumbnailURL,
		Link:        video.Link,
		Type:        string(video.ContentType),
		Views:       video.Views,
		Likes:       video.Likes,
	}
}

func fromStoreVideo(video database.Video) feed.Video {
	contentType := feed.ContentTypeVideo
	if video.Type == string(feed.ContentTypeShort) {
		contentType = feed.ContentTypeShort
	}

	return feed.Video{
		ID:           video.ID,
		Title:        video.Title,
		Description:  video.Description,
		PublishedAt:  video.PublishedAt,
		LastUpdated:  video.LastUpdated,
		ThumbnailURL: video.Thumbnail,
		Link:         video.Link,
		ContentType:  contentType,
		Views:        video.Views,
		Likes:        video.Likes,
	}
}
