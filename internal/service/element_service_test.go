package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/D-Sokol/schedule-bot/internal/queue"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestConvertRawPublishesRequest(t *testing.T) {
	pub := &fakePublisher{}
	s := NewElementService(pub, nil, testLogger())

	data := []byte("raw image bytes")
	require.NoError(t, s.ConvertRaw(context.Background(), 42, "element-1", data, queue.ResizeModeCrop, 800, 600))

	require.Len(t, pub.published, 1)
	msg := pub.published[0]
	assert.Equal(t, queue.ConvertRawSubject, msg.Subject)
	assert.Equal(t, "42.element-1", msg.Header.Get(queue.SaveNameHeader))
	assert.Equal(t, queue.ResizeModeCrop, msg.Header.Get(queue.ResizeModeHeader))
	assert.Equal(t, "[800,600]", msg.Header.Get(queue.TargetSizeHeader))
	assert.Equal(t, data, msg.Data)
}

func TestConvertByReferencePublishesRequest(t *testing.T) {
	pub := &fakePublisher{}
	s := NewElementService(pub, nil, testLogger())

	require.NoError(t, s.ConvertByReference(context.Background(), 0, "bg", "file-id-1", queue.ResizeModeResize, 1280, 720))

	require.Len(t, pub.published, 1)
	msg := pub.published[0]
	assert.Equal(t, queue.ConvertRefSubject, msg.Subject)
	assert.Equal(t, "0.bg", msg.Header.Get(queue.SaveNameHeader))
	assert.Equal(t, []byte("file-id-1"), msg.Data)
}
