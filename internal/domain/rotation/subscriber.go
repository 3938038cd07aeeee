package rotation

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/pkg/pubsub"
)

type broadcaster interface {
	BroadcastJSON(ctx context.Context, v any) error
}

type hubSubscriber struct {
	hub broadcaster
}

// NewHubSubscriber pushes every new verse to the websocket clients.
func NewHubSubscriber(hub broadcaster) *hubSubscriber {
	return &hubSubscriber{hub: hub}
}

func (s *hubSubscriber) OnVerseRotated(ctx context.Context, verse model.Verse) error {
	return s.hub.BroadcastJSON(ctx, verse)
}

type publisherSubscriber struct {
	publisher pubsub.Publisher
	topic     string
}

// NewPublisherSubscriber publishes every new verse to topic, keyed by the
// verse id.
func NewPublisherSubscriber(publisher pubsub.Publisher, topic string) *publisherSubscriber {
	return &publisherSubscriber{publisher: publisher, topic: topic}
}

func (s *publisherSubscriber) OnVerseRotated(ctx context.Context, verse model.Verse) error {
	b, err := json.Marshal(verse)
	if err != nil {
		return err
	}

	return s.publisher.Publish(ctx, s.topic, &pubsub.Pack{
		Key: []byte(strconv.FormatInt(verse.ID, 10)),
		Msg: b,
	})
}
