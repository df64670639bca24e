package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/D-Sokol/schedule-bot/internal/model"
	"github.com/D-Sokol/schedule-bot/internal/queue"
	"github.com/D-Sokol/schedule-bot/internal/render"
)

type fakePublisher struct {
	mu        sync.Mutex
	published []*nats.Msg
}

func (p *fakePublisher) PublishMsg(_ context.Context, msg *nats.Msg, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, msg)
	return &jetstream.PubAck{}, nil
}

func TestRenderSchedulePublishesRequest(t *testing.T) {
	pub := &fakePublisher{}
	s := NewScheduleService(pub, nil, testLogger())

	template, err := render.LoadTemplate([]byte(`{"always": {"patches": []}}`))
	require.NoError(t, err)
	schedule := model.Schedule{Records: map[model.WeekDay][]model.Entry{
		model.Tuesday: {{Time: model.Time{Hour: 11}, Description: "Gym", Tags: model.NewTagSet()}},
	}}
	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.RenderSchedule(context.Background(), 42, 100500, schedule, "bg-id", template, start))

	require.Len(t, pub.published, 1)
	msg := pub.published[0]
	assert.Equal(t, queue.RenderRequestSubject, msg.Subject)
	assert.Equal(t, "42", msg.Header.Get(queue.OwnerIDHeader))
	assert.Equal(t, "100500", msg.Header.Get(queue.ChatIDHeader))
	assert.Equal(t, "42.bg-id", msg.Header.Get(queue.BackgroundHeader))
	assert.Equal(t, "2026-08-31", msg.Header.Get(queue.StartDateHeader))

	decodedTemplate, decodedSchedule, err := render.DecodeRenderPayload(msg.Data)
	require.NoError(t, err)
	assert.NotNil(t, decodedTemplate)
	require.Len(t, decodedSchedule.Day(model.Tuesday), 1)
}

func TestScheduleServiceWithoutDatabase(t *testing.T) {
	s := NewScheduleService(&fakePublisher{}, nil, testLogger())

	schedule, err := s.GetLastSchedule(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, schedule)

	assert.NoError(t, s.UpdateLastSchedule(context.Background(), 42, model.Schedule{}))
}
