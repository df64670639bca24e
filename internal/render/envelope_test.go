package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/D-Sokol/schedule-bot/internal/model"
)

func TestRenderPayloadRoundTrip(t *testing.T) {
	template, err := LoadTemplate([]byte(`{
		"width": 100,
		"height": 50,
		"always": {"patches": [{"type": "text", "text": "hi", "xy": [1, 1], "color": "black"}]},
		"day1": {"always": {"patches": []}, "if_none": {"patches": []}, "record_patches": []}
	}`))
	require.NoError(t, err)

	schedule := model.Schedule{Records: map[model.WeekDay][]model.Entry{
		model.Monday: {
			{Time: model.Time{Hour: 15, Minute: 30}, Description: "late", Tags: model.NewTagSet()},
			{Time: model.Time{Hour: 9}, Description: "early", Tags: model.NewTagSet("important")},
		},
	}}

	payload, err := EncodeRenderPayload(template, schedule)
	require.NoError(t, err)

	decodedTemplate, decodedSchedule, err := DecodeRenderPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, 100, decodedTemplate.Width)
	assert.NotNil(t, decodedTemplate.Days[0])
	assert.Nil(t, decodedTemplate.Days[1])

	monday := decodedSchedule.Day(model.Monday)
	require.Len(t, monday, 2)
	// записи упорядочены после декодирования независимо от порядка при кодировании
	assert.Equal(t, "early", monday[0].Description)
	assert.True(t, monday[0].Tags.Has("important"))
}

func TestDecodeRenderPayloadErrors(t *testing.T) {
	_, _, err := DecodeRenderPayload([]byte("not msgpack at all"))
	assert.Error(t, err)

	_, _, err = DecodeRenderPayload(nil)
	assert.Error(t, err)
}

func TestDecodeRenderPayloadValidatesTemplate(t *testing.T) {
	template := &Template{}
	schedule := model.Schedule{}
	payload, err := EncodeRenderPayload(template, schedule)
	require.NoError(t, err)

	_, _, err = DecodeRenderPayload(payload)
	assert.NoError(t, err)
}
