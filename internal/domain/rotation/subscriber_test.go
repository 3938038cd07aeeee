package rotation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/pkg/pubsub"
)

type fakeBroadcaster struct {
	values []any
}

func (b *fakeBroadcaster) BroadcastJSON(ctx context.Context, v any) error {
	b.values = append(b.values, v)
	return nil
}

type fakePublisher struct {
	topic string
	packs []*pubsub.Pack
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	p.topic = topic
	p.packs = append(p.packs, pack)
	return nil
}

func (p *fakePublisher) Stop(ctx context.Context) error {
	return nil
}

func TestSubscribers(t *testing.T) {
	ctx := context.Background()
	verse := model.Verse{ID: 12, Ref: "Psalm 46:10", Text: "Be still", IsNew: true}

	hub := &fakeBroadcaster{}
	require.NoError(t, NewHubSubscriber(hub).OnVerseRotated(ctx, verse))
	require.Equal(t, []any{verse}, hub.values)

	publisher := &fakePublisher{}
	require.NoError(t, NewPublisherSubscriber(publisher, "verses").OnVerseRotated(ctx, verse))
	require.Equal(t, "verses", publisher.topic)
	require.Len(t, publisher.packs, 1)
	require.Equal(t, "12", string(publisher.packs[0].Key))

	var decoded model.Verse
	require.NoError(t, json.Unmarshal(publisher.packs[0].Msg, &decoded))
	require.Equal(t, verse, decoded)
}
