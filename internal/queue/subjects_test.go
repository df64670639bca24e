package queue

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetSize(t *testing.T) {
	h := nats.Header{}
	h.Set(TargetSizeHeader, FormatTargetSize(800, 600))

	w, ht, err := TargetSize(h)
	require.NoError(t, err)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, ht)
}

func TestTargetSizeMalformed(t *testing.T) {
	h := nats.Header{}
	h.Set(TargetSizeHeader, "800x600")
	_, _, err := TargetSize(h)
	assert.Error(t, err)

	_, _, err = TargetSize(nats.Header{})
	assert.Error(t, err)
}

func TestChatID(t *testing.T) {
	h := nats.Header{}
	h.Set(ChatIDHeader, "12345")
	id, err := ChatID(h)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), id)

	_, err = ChatID(nats.Header{})
	assert.Error(t, err)
}

func TestOwnerID(t *testing.T) {
	h := nats.Header{}
	h.Set(OwnerIDHeader, "42")
	id, err := OwnerID(h)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	// отсутствующий владелец означает глобальную область
	id, err = OwnerID(nats.Header{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)

	h.Set(OwnerIDHeader, "not a number")
	_, err = OwnerID(h)
	assert.Error(t, err)
}

func TestStartDateRoundTrip(t *testing.T) {
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	h := nats.Header{}
	h.Set(StartDateHeader, FormatStartDate(date))

	parsed, err := StartDate(h)
	require.NoError(t, err)
	assert.True(t, date.Equal(parsed))

	_, err = StartDate(nats.Header{})
	assert.Error(t, err)
}
